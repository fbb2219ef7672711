package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/server/http/dto"
	"github.com/polkiloo/p2pdesk/internal/server/http/middleware"
)

// CurrentViewer extracts the authenticated viewer from context.
func CurrentViewer(c *gin.Context) model.Viewer {
	return model.Viewer{
		ID:         c.GetString(middleware.ViewerIDContextKey),
		Credential: c.GetString(middleware.CredentialContextKey),
	}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		validation *domainErrors.ValidationError
		conflict   *domainErrors.ConflictError
		authErr    *domainErrors.AuthError
		network    *domainErrors.NetworkError
	)

	status := http.StatusInternalServerError
	body := dto.ErrorResponse{Error: err.Error()}

	switch {
	case errors.As(err, &validation):
		status = http.StatusUnprocessableEntity
		body.Field = validation.Field
	case errors.Is(err, domainErrors.ErrActionInFlight):
		status = http.StatusTooManyRequests
	case errors.Is(err, domainErrors.ErrActionNotPermitted),
		errors.Is(err, domainErrors.ErrReviewUnavailable),
		errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &network):
		status = http.StatusBadGateway
		if network.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(network.RetryAfter.Seconds())))
		}
	case errors.Is(err, domainErrors.ErrSessionClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		body.Error = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}
