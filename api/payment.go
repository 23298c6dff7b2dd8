package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/transitpass/internal/cache"
	"github.com/mkravets/transitpass/internal/idgen"
)

const cardDataKey = "payment_card_data"

// PaymentHandler serves the cosmetic payment-card block. The data is random
// but cached, so it stays stable across a day instead of changing per render.
type PaymentHandler struct {
	cache *cache.Cache
}

type cardResponse struct {
	Balance     string `json:"balance"`
	CardLast4   string `json:"card_last4"`
	IBANLast4   string `json:"iban_last4"`
	CardDisplay string `json:"card_display"`
}

func NewPaymentHandler(c *cache.Cache) *PaymentHandler {
	return &PaymentHandler{cache: c}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("/card", h.card)
}

func (h *PaymentHandler) card(c *gin.Context) {
	data, err := cache.GetOrGenerate(c.Request.Context(), h.cache, cardDataKey, func() (idgen.CardData, error) {
		return idgen.NewCardData(), nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cardResponse{
		Balance:     data.Balance,
		CardLast4:   data.CardLast4,
		IBANLast4:   data.IBANLast4,
		CardDisplay: fmt.Sprintf("•••• %s | UA53 •••• %s", data.CardLast4, data.IBANLast4),
	})
}
