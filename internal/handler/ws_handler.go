package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/unitechhub/examhub/internal/exam"
	"github.com/unitechhub/examhub/internal/middleware"
	"github.com/unitechhub/examhub/internal/service"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// countdownFrame is one tick of the countdown stream.
type countdownFrame struct {
	RemainingSeconds int    `json:"remaining_seconds"`
	Display          string `json:"display"`
	Expired          bool   `json:"expired"`
}

// WSHandler streams the server-authoritative countdown for an active
// practice session.
type WSHandler struct {
	practiceService *service.PracticeService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(practiceService *service.PracticeService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		practiceService: practiceService,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// CountdownStream godoc
// WS /ws/v1/practices/:session_id/countdown?token=...
// Pushes one frame per second with the remaining time. The final frame
// carries expired=true and the connection closes after it.
func (h *WSHandler) CountdownStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	// Ownership and status checks happen before the upgrade so the
	// client gets a proper HTTP error instead of a dropped socket.
	remaining, err := h.practiceService.Remaining(c.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no active session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("session_id", sessionID.String()).
		Logger()
	wsLog.Info().Msg("Countdown stream connected")

	countdown := exam.NewCountdown(remaining)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Reader goroutine: we never expect client frames, but reading keeps
	// close frames and pings flowing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.writeFrame(conn, countdown.Remaining(), countdown.Expired()); err != nil {
		return
	}
	if countdown.Expired() {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "time up"))
		return
	}

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Countdown stream closed by client")
			return
		case <-ticker.C:
			remaining, expired := countdown.Tick()
			if err := h.writeFrame(conn, remaining, expired); err != nil {
				return
			}
			if expired {
				wsLog.Info().Msg("Countdown reached zero")
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "time up"))
				return
			}
		}
	}
}

func (h *WSHandler) writeFrame(conn *websocket.Conn, remaining int, expired bool) error {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(countdownFrame{
		RemainingSeconds: remaining,
		Display:          exam.FormatRemaining(remaining),
		Expired:          expired,
	})
}
