package api

import (
	"net/http"

	"loteria-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
}

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createGameBody struct {
	MaxPlayers int `json:"maxPlayers" binding:"required"`
}

type joinGameBody struct {
	JoinCode string `json:"joinCode" binding:"required"`
}

type markBody struct {
	Position *int `json:"position" binding:"required"`
}

type confirmRematchBody struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), body.Email, body.Password, body.Nickname)
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.services.Auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "logged out")
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.services.Auth.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, user)
}

func (h *Handler) ListCards(c *gin.Context) {
	cards, err := h.services.Catalog.ListCards(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"cards": cards, "total": len(cards)})
}

func (h *Handler) CreateGame(c *gin.Context) {
	var body createGameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.services.Game.Create(c.Request.Context(), currentUserID(c), body.MaxPlayers)
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, snap)
}

func (h *Handler) JoinGame(c *gin.Context) {
	var body joinGameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.services.Game.Join(c.Request.Context(), currentUserID(c), body.JoinCode)
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, snap)
}

func (h *Handler) GameState(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	state, err := h.services.Game.State(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, state)
}

func (h *Handler) PlayerBoards(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	boards, err := h.services.Game.PlayerBoards(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, gin.H{"boards": boards})
}

func (h *Handler) StartGame(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	snap, err := h.services.Game.Start(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, snap)
}

func (h *Handler) RevealNext(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	result, err := h.services.Game.RevealNext(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, result)
}

func (h *Handler) MarkPosition(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	var body markBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Game.MarkPosition(c.Request.Context(), gameID, currentUserID(c), *body.Position)
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, result)
}

func (h *Handler) LeaveGame(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	result, err := h.services.Game.Leave(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, result)
}

func (h *Handler) TerminateGame(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	if err := h.services.Game.Terminate(c.Request.Context(), gameID, currentUserID(c)); err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "game terminated")
}

func (h *Handler) ProposeRematch(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	snap, err := h.services.Game.ProposeRematch(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, snap)
}

func (h *Handler) ConfirmRematch(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	var body confirmRematchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Game.ConfirmRematch(c.Request.Context(), gameID, currentUserID(c), *body.Accept)
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, result)
}

func (h *Handler) FinalizeRematch(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	snap, err := h.services.Game.FinalizeRematch(c.Request.Context(), gameID, currentUserID(c))
	if err != nil {
		response.Error(c, statusForError(err), err.Error())
		return
	}
	response.Success(c, snap)
}
