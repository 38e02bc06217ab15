package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	menuitemdomain "github.com/tabwise/epos/internal/menuitem/domain"
)

type createMenuItemRequest struct {
	Name           string         `json:"name"`
	UnitPrice      int64          `json:"unit_price"`
	VATRatePercent float64        `json:"vat_rate_percent"`
	Metadata       map[string]any `json:"metadata"`
}

func (s *Server) CreateMenuItem(c *gin.Context) {
	var req createMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.menuItemSvc.Create(c.Request.Context(), menuitemdomain.CreateRequest{
		Name:           strings.TrimSpace(req.Name),
		UnitPrice:      req.UnitPrice,
		VATRatePercent: req.VATRatePercent,
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListMenuItems(c *gin.Context) {
	resp, err := s.menuItemSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMenuItemByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.menuItemSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
