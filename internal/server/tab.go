package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tabdomain "github.com/tabwise/epos/internal/tab/domain"
)

type createTabRequest struct {
	TableNumber int `json:"table_number"`
	Covers      int `json:"covers"`
}

func (s *Server) CreateTab(c *gin.Context) {
	var req createTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tabSvc.Create(c.Request.Context(), tabdomain.CreateRequest{
		TableNumber: req.TableNumber,
		Covers:      req.Covers,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetTabByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("tab_id"))
	resp, err := s.tabSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addTabItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Qty        int    `json:"qty"`
}

func (s *Server) AddTabItem(c *gin.Context) {
	var req addTabItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tabSvc.AddItem(c.Request.Context(), strings.TrimSpace(c.Param("tab_id")), tabdomain.AddItemRequest{
		MenuItemID: strings.TrimSpace(req.MenuItemID),
		Qty:        req.Qty,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
