package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait    = 10 * time.Second
	streamPongWait     = 60 * time.Second
	streamPingInterval = streamPongWait * 9 / 10
)

// StreamHandler pushes live projections and notices over a websocket.
type StreamHandler struct {
	facade   StreamFacade
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewStreamHandler constructs StreamHandler. Cross-origin upgrades are only
// accepted from allowedOrigins; "*" admits any origin.
func NewStreamHandler(facade StreamFacade, logger *slog.Logger, allowedOrigins []string) *StreamHandler {
	h := &StreamHandler{facade: facade, logger: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Stream handles GET /api/orders/:id/stream.
func (h *StreamHandler) Stream(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	events, stop, err := h.facade.Watch(c.Request.Context(), CurrentViewer(c), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	defer stop()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("order", orderID), slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "order session closed"))
				return
			}
			if err := conn.WriteJSON(toEventResponse(ev)); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
