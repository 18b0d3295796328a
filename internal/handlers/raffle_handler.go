package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tenkey-events/raffle-backend/internal/services"
)

// RaffleHandler handles winner mapping and next-draw HTTP requests
type RaffleHandler struct {
	raffleService *services.RaffleService
	coordinator   *services.RaffleCoordinator
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService *services.RaffleService, coordinator *services.RaffleCoordinator) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
		coordinator:   coordinator,
	}
}

// GetNextDraw handles GET /raffle/next
func (h *RaffleHandler) GetNextDraw(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.NextDraw())
}

// GetMappings handles GET /mappings
func (h *RaffleHandler) GetMappings(c *gin.Context) {
	c.JSON(http.StatusOK, h.raffleService.GetMappings())
}

// DeleteMappings handles DELETE /mappings: wipes the whole table, lifting
// the roster/catalog lock.
func (h *RaffleHandler) DeleteMappings(c *gin.Context) {
	if err := h.raffleService.WipeAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "winner mappings wiped"})
}

func (h *RaffleHandler) setWinner(c *gin.Context, overwrite bool) {
	prizeID := c.PostForm("prize_id")
	winnerID := c.PostForm("winner_id")
	if prizeID == "" || winnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prize_id and winner_id are required"})
		return
	}

	err := h.raffleService.SetWinner(c.Request.Context(), prizeID, winnerID, overwrite)
	switch {
	case errors.Is(err, services.ErrUnknownPrize):
		c.JSON(http.StatusNotFound, gin.H{"error": "no prize with id " + prizeID})
	case errors.Is(err, services.ErrUnknownParticipant):
		c.JSON(http.StatusNotFound, gin.H{"error": "no participant with registration id " + winnerID})
	case errors.Is(err, services.ErrAlreadyAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "prize " + prizeID + " already has a winner"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, h.coordinator.NextDraw())
	}
}

// SetWinner handles POST /raffle/set: records a winner, refusing a prize that
// was already drawn.
func (h *RaffleHandler) SetWinner(c *gin.Context) {
	h.setWinner(c, false)
}

// OverwriteWinner handles PUT /raffle/set: replaces an earlier result, for
// fixing a mistaken draw.
func (h *RaffleHandler) OverwriteWinner(c *gin.Context) {
	h.setWinner(c, true)
}

// DeleteWinner handles DELETE /raffle/set: revokes a drawn prize.
func (h *RaffleHandler) DeleteWinner(c *gin.Context) {
	prizeID := c.PostForm("prize_id")
	if prizeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prize_id is required"})
		return
	}

	err := h.raffleService.DeleteWinner(c.Request.Context(), prizeID)
	switch {
	case errors.Is(err, services.ErrUnknownPrize):
		c.JSON(http.StatusNotFound, gin.H{"error": "no prize with id " + prizeID})
	case errors.Is(err, services.ErrNotAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "prize " + prizeID + " has not been drawn"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, h.coordinator.NextDraw())
	}
}
