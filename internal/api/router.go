package api

import (
	"errors"
	"net/http"
	"strconv"

	"loteria-service/internal/middleware"
	"loteria-service/internal/service"
	"loteria-service/internal/ws"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container, hub *ws.Hub) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(hub, services.Game, services.Auth)

	r.Use(middleware.RequestLog())

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/loteria/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)

			protected := authGroup.Group("/")
			protected.Use(middleware.AuthRequired(services.Auth))
			{
				protected.POST("/logout", handler.Logout)
				protected.GET("/me", handler.Me)
			}
		}

		v1.GET("/cards", handler.ListCards)

		gameGroup := v1.Group("/games")
		gameGroup.Use(middleware.AuthRequired(services.Auth))
		{
			gameGroup.POST("", handler.CreateGame)
			gameGroup.POST("/join", handler.JoinGame)
			gameGroup.GET("/:id", handler.GameState)
			gameGroup.GET("/:id/boards", handler.PlayerBoards)
			gameGroup.POST("/:id/start", handler.StartGame)
			gameGroup.POST("/:id/reveal", handler.RevealNext)
			gameGroup.POST("/:id/mark", handler.MarkPosition)
			gameGroup.POST("/:id/leave", handler.LeaveGame)
			gameGroup.POST("/:id/terminate", handler.TerminateGame)
			gameGroup.POST("/:id/rematch", handler.ProposeRematch)
			gameGroup.POST("/:id/rematch/confirm", handler.ConfirmRematch)
			gameGroup.POST("/:id/rematch/finalize", handler.FinalizeRematch)
		}
	}

	r.GET("/ws/games/:gameId", wsHandler.HandleGameWS)
}

// statusForError maps service sentinels onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, appErr.ErrInvalidMaxPlayers),
		errors.Is(err, appErr.ErrInvalidPosition),
		errors.Is(err, appErr.ErrAlreadyInGame),
		errors.Is(err, appErr.ErrHostAutoConfirmed),
		errors.Is(err, appErr.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, appErr.ErrGameNotWaiting),
		errors.Is(err, appErr.ErrGameNotStarted),
		errors.Is(err, appErr.ErrGameNotFinished),
		errors.Is(err, appErr.ErrGameNotRematchPending),
		errors.Is(err, appErr.ErrDeckExhausted),
		errors.Is(err, appErr.ErrAlreadyMarked),
		errors.Is(err, appErr.ErrGameFull),
		errors.Is(err, appErr.ErrNotEnoughPlayers),
		errors.Is(err, appErr.ErrTooManyConfirmed),
		errors.Is(err, appErr.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, appErr.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, appErr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, appErr.ErrGameNotFound),
		errors.Is(err, appErr.ErrBoardNotFound),
		errors.Is(err, appErr.ErrNotInGame),
		errors.Is(err, appErr.ErrUserNotFound),
		errors.Is(err, appErr.ErrCardNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(middleware.ContextUserIDKey)
}

func parseGameID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid game id")
		return 0, false
	}
	return id, true
}
