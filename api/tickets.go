package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/transitpass/internal/domain"
	"github.com/mkravets/transitpass/internal/service/tickets"
	"github.com/mkravets/transitpass/internal/timeutil"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

type createTicketRequest struct {
	TransportNumber string `json:"transport_number"`
	Passengers      int    `json:"passengers"`
}

type ticketResponse struct {
	ID               string   `json:"id"`
	SerialNumbers    []string `json:"serial_numbers"`
	SerialDisplay    string   `json:"serial_display"`
	TransportNumber  string   `json:"transport_number"`
	Passengers       int      `json:"passengers"`
	PurchaseDate     string   `json:"purchase_date"`
	PurchaseClock    string   `json:"purchase_clock"`
	PurchaseTime     string   `json:"purchase_time"`
	DurationSeconds  int      `json:"duration_seconds"`
	RemainingSeconds int      `json:"remaining_seconds"`
	RemainingDisplay string   `json:"remaining_display"`
	IsExpired        bool     `json:"is_expired"`
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id/remaining", h.remaining)
	router.POST("/:id/expire", h.expire)
	router.DELETE("/", h.clear)
}

func (h *TicketHandler) create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.CreateTicket(c.Request.Context(), tickets.CreateTicketInput{
		TransportNumber: req.TransportNumber,
		Passengers:      req.Passengers,
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(*ticket))
}

func (h *TicketHandler) list(c *gin.Context) {
	set := h.service.ListTickets(c.Request.Context())
	out := make([]ticketResponse, 0, len(set))
	for _, t := range set {
		out = append(out, h.toResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *TicketHandler) remaining(c *gin.Context) {
	id := c.Param("id")
	for _, t := range h.service.ListTickets(c.Request.Context()) {
		if t.ID != id {
			continue
		}
		remaining := h.service.RemainingSeconds(t)
		c.JSON(http.StatusOK, gin.H{
			"id":                id,
			"remaining_seconds": remaining,
			"remaining_display": timeutil.FormatTimer(remaining),
			"is_expired":        t.IsExpired || remaining == 0,
		})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
}

func (h *TicketHandler) expire(c *gin.Context) {
	if err := h.service.MarkExpiredIfDue(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) clear(c *gin.Context) {
	clearAll := c.Query("all") == "true"
	if err := h.service.ClearHistory(c.Request.Context(), clearAll); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) toResponse(t domain.Ticket) ticketResponse {
	remaining := h.service.RemainingSeconds(t)
	return ticketResponse{
		ID:               t.ID,
		SerialNumbers:    t.SerialNumbers,
		SerialDisplay:    timeutil.JoinSerialPairs(t.SerialNumbers),
		TransportNumber:  t.TransportNumber,
		Passengers:       t.Passengers,
		PurchaseDate:     timeutil.FormatDate(t.PurchaseTime),
		PurchaseClock:    timeutil.FormatTime(t.PurchaseTime),
		PurchaseTime:     t.PurchaseTime.Format(time.RFC3339),
		DurationSeconds:  t.DurationSeconds,
		RemainingSeconds: remaining,
		RemainingDisplay: timeutil.FormatTimer(remaining),
		IsExpired:        t.IsExpired || remaining == 0,
	}
}
