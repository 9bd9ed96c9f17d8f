package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"loteria-service/internal/service/auth"
	"loteria-service/internal/service/game"
	pkgAuth "loteria-service/pkg/auth"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades authenticated players to a read-only state stream for
// the game they are seated in. Commands stay on the HTTP surface.
type Handler struct {
	hub     *Hub
	gameSvc *game.Service
	authSvc *auth.Service
}

func NewHandler(hub *Hub, gameSvc *game.Service, authSvc *auth.Service) *Handler {
	return &Handler{hub: hub, gameSvc: gameSvc, authSvc: authSvc}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

func (h *Handler) HandleGameWS(c *gin.Context) {
	gameIDStr := c.Param("gameId")
	gameID, err := strconv.ParseInt(gameIDStr, 10, 64)
	if err != nil || gameID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	token, err := getTokenFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	claims, err := pkgAuth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	userID := claims.SubjectID

	active, err := h.authSvc.SessionActive(c.Request.Context(), userID, claims.ID)
	if err != nil || !active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	if err := h.gameSvc.ValidateAccess(c.Request.Context(), gameID, userID); err != nil {
		switch {
		case errors.Is(err, appErr.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		case errors.Is(err, appErr.ErrNotInGame):
			c.JSON(http.StatusForbidden, gin.H{"error": "not in this game"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate game access"})
		}
		return
	}

	snap, err := h.gameSvc.Snapshot(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New WebSocket connection",
		zap.Int64("gameID", gameID),
		zap.Int64("userID", userID),
	)

	events, cancel := h.hub.Subscribe(gameID)
	client := newClient(conn, userID, gameID, events, cancel)
	client.safeWrite(Event{Type: "state", Data: snap})
	client.run()
}

func getTokenFromRequest(c *gin.Context) (string, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token != "" {
		return token, nil
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
			if token != "" {
				return token, nil
			}
		}
	}
	return "", errors.New("missing token")
}

type client struct {
	conn      *websocket.Conn
	userID    int64
	gameID    int64
	events    <-chan Event
	cancel    func()
	done      chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, userID, gameID int64, events <-chan Event, cancel func()) *client {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		userID:    userID,
		gameID:    gameID,
		events:    events,
		cancel:    cancel,
		done:      make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run() {
	go c.writePump()
	c.readPump()
}

func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.cancel()
		c.conn.Close()
	}()

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Log.Info("WS read error", zap.Error(err), zap.Int64("userID", c.userID), zap.Int64("gameID", c.gameID))
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &incoming); err != nil {
			continue
		}
		if incoming.Type == "ping" {
			c.safeWrite(Event{Type: "pong"})
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.events:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				logger.Log.Info("WS write error", zap.Error(err), zap.Int64("userID", c.userID), zap.Int64("gameID", c.gameID))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) safeWrite(event Event) {
	if err := c.conn.WriteJSON(event); err != nil {
		logger.Log.Info("WS write error", zap.Error(err), zap.Int64("userID", c.userID), zap.Int64("gameID", c.gameID))
	}
}
