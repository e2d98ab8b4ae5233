package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/app"
	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

// Handler exposes the room operations over JSON. Authorization beyond
// "who are you" (creator-only rules) lives in the app layer, not here.
type Handler struct {
	Rooms  *app.Membership
	Goals  *app.Goals
	Board  *app.Leaderboard
	Chat   *app.Chat
	Bcast  *app.Broadcaster
	Ledger core.SessionLedger
}

func httpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("module", "http").Str("path", c.FullPath()).Msg("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func roomID(c *gin.Context) domain.RoomID {
	return domain.RoomID(c.Param("id"))
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	room, err := h.Rooms.Create(c.Request.Context(), req.Name, UserFrom(c).ID)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Rooms.List(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type roomDetail struct {
	ID          domain.RoomID          `json:"id"`
	Name        string                 `json:"name"`
	CreatedBy   domain.UserID          `json:"createdBy"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"createdAt"`
	Goal        *domain.Goal           `json:"goal,omitempty"`
	Members     []domain.MemberProfile `json:"members"`
}

func (h *Handler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()
	room, err := h.Rooms.Get(ctx, roomID(c))
	if err != nil {
		httpError(c, err)
		return
	}
	detail := roomDetail{
		ID:          room.ID,
		Name:        room.Name,
		CreatedBy:   room.CreatedBy,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
		Goal:        room.Goal,
		Members:     make([]domain.MemberProfile, 0, len(room.Members)),
	}
	for _, uid := range room.Members {
		profile, err := h.Ledger.Profile(ctx, uid)
		if err != nil {
			// A member whose account record is gone still shows up.
			profile = domain.MemberProfile{ID: uid, Username: "Unknown User"}
		}
		detail.Members = append(detail.Members, profile)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id := roomID(c)
	if err := h.Rooms.Delete(c.Request.Context(), id, UserFrom(c).ID); err != nil {
		httpError(c, err)
		return
	}
	h.Bcast.DropRoom(id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) Join(c *gin.Context) {
	if err := h.Rooms.Join(c.Request.Context(), roomID(c), UserFrom(c).ID); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Leave(c *gin.Context) {
	if err := h.Rooms.Leave(c.Request.Context(), roomID(c), UserFrom(c).ID); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	err := h.Rooms.RemoveMember(c.Request.Context(), roomID(c), UserFrom(c).ID, domain.UserID(req.UserID))
	if err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateDescription(c *gin.Context) {
	// Empty description is allowed; it clears the field.
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	err := h.Rooms.UpdateDescription(c.Request.Context(), roomID(c), UserFrom(c).ID, req.Description)
	if err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetGoal(c *gin.Context) {
	var req struct {
		Amount int    `json:"amount"`
		Period string `json:"period"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	goal, err := h.Goals.SetGoal(c.Request.Context(), roomID(c), UserFrom(c).ID, req.Amount, req.Period)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *Handler) GoalProgress(c *gin.Context) {
	progress, err := h.Goals.Progress(c.Request.Context(), roomID(c))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	board, err := h.Board.Build(c.Request.Context(), roomID(c))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) Messages(c *gin.Context) {
	msgs, err := h.Chat.History(c.Request.Context(), roomID(c))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
