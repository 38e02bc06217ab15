package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) CreatePaymentIntent(c *gin.Context) {
	resp, err := s.paymentSvc.CreateIntent(c.Request.Context(), strings.TrimSpace(c.Param("tab_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type takePaymentRequest struct {
	ClientSecret string `json:"client_secret"`
}

func (s *Server) TakePayment(c *gin.Context) {
	var req takePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.ClientSecret) == "" {
		AbortWithError(c, newValidationError("client_secret", "invalid_client_secret", "client secret is required"))
		return
	}

	resp, err := s.paymentSvc.TakePayment(c.Request.Context(), strings.TrimSpace(c.Param("tab_id")), req.ClientSecret)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
