package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/server/http/dto"
	"github.com/polkiloo/p2pdesk/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	proj, err := h.facade.Order(c.Request.Context(), CurrentViewer(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectionResponse(proj))
}

// Invoke handles POST /api/orders/:id/actions/:action.
func (h *OrderHandler) Invoke(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var body dto.ActionRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(c, &domainErrors.ValidationError{Field: "body", Reason: "malformed JSON"})
			return
		}
	}

	req := usecase.ActionRequest{
		Action:    model.Action(strings.ToLower(c.Param("action"))),
		Proof:     strings.TrimSpace(body.Proof),
		Confirmed: body.Confirmed,
	}
	proj, err := h.facade.Invoke(c.Request.Context(), CurrentViewer(c), orderID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectionResponse(proj))
}

// Review handles POST /api/orders/:id/review.
func (h *OrderHandler) Review(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var body dto.ReviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, &domainErrors.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	reviewType := model.ReviewType(strings.ToLower(strings.TrimSpace(body.Type)))
	proj, err := h.facade.Review(c.Request.Context(), CurrentViewer(c), orderID, reviewType, strings.TrimSpace(body.Comment))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectionResponse(proj))
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	transitions, err := h.facade.History(c.Request.Context(), CurrentViewer(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(transitions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.TransitionResponse, 0, len(transitions))
	for _, t := range transitions {
		response = append(response, dto.TransitionResponse{
			From:       string(t.From),
			To:         string(t.To),
			ObservedAt: t.ObservedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

func orderIDParam(c *gin.Context) (string, bool) {
	orderID := c.Param("id")
	if err := usecase.ValidateOrderID(orderID); err != nil {
		writeError(c, err)
		return "", false
	}
	return orderID, true
}
