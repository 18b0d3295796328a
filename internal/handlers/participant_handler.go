package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tenkey-events/raffle-backend/internal/csvparse"
	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/services"
)

// ParticipantHandler handles roster and cancellation HTTP requests
type ParticipantHandler struct {
	participantService *services.ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
	}
}

// GetParticipants handles GET /participants
func (h *ParticipantHandler) GetParticipants(c *gin.Context) {
	roster := h.participantService.GetAll()
	if roster == nil {
		roster = []models.Participant{}
	}
	c.JSON(http.StatusOK, roster)
}

// ImportParticipants handles PUT /participants: a multipart connpass CSV
// export under the "csv" field replaces the whole roster.
func (h *ParticipantHandler) ImportParticipants(c *gin.Context) {
	fileHeader, err := c.FormFile("csv")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"parsed_participants": 0, "error": "no csv file attached"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"parsed_participants": 0, "error": "could not open csv file: " + err.Error()})
		return
	}
	defer file.Close()

	roster, err := csvparse.ParseParticipants(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"parsed_participants": 0, "error": err.Error()})
		return
	}
	if err := h.participantService.ImportRoster(c.Request.Context(), roster); err != nil {
		if errors.Is(err, services.ErrLocked) {
			c.JSON(http.StatusBadRequest, gin.H{"parsed_participants": 0, "error": "cannot replace the roster while winner mappings exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"parsed_participants": 0, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"parsed_participants": len(roster), "error": nil})
}

// DeleteParticipants handles DELETE /participants
func (h *ParticipantHandler) DeleteParticipants(c *gin.Context) {
	if err := h.participantService.WipeRoster(c.Request.Context()); err != nil {
		if errors.Is(err, services.ErrLocked) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot wipe the roster while winner mappings exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "roster wiped"})
}

// GetCancellations handles GET /participants/cancels/all
func (h *ParticipantHandler) GetCancellations(c *gin.Context) {
	ids := h.participantService.GetCancellationIDs()
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

// DeleteCancellations handles DELETE /participants/cancels/all
func (h *ParticipantHandler) DeleteCancellations(c *gin.Context) {
	if err := h.participantService.WipeCancellations(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cancellation list wiped"})
}

// batchCancellationResult aggregates per-ID outcomes of a batch toggle.
type batchCancellationResult struct {
	Success        []string `json:"success"`
	Skipped        []string `json:"skipped"`
	NonexistentIDs []string `json:"nonexistent_ids"`
}

func (h *ParticipantHandler) batchToggle(c *gin.Context, toggle func(id string) (services.CancellationOutcome, error)) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON array of registration ids"})
		return
	}

	result := batchCancellationResult{
		Success:        []string{},
		Skipped:        []string{},
		NonexistentIDs: []string{},
	}
	for _, id := range ids {
		outcome, err := toggle(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		switch outcome {
		case services.CancellationApplied:
			result.Success = append(result.Success, id)
		case services.CancellationAlreadyCancelled, services.CancellationNotCancelled:
			result.Skipped = append(result.Skipped, id)
		case services.CancellationUnknownID:
			result.NonexistentIDs = append(result.NonexistentIDs, id)
		}
	}
	c.JSON(http.StatusOK, result)
}

// AddCancellations handles PUT /participants/cancels/edit with a JSON array
// of registration IDs to mark as not present.
func (h *ParticipantHandler) AddCancellations(c *gin.Context) {
	h.batchToggle(c, func(id string) (services.CancellationOutcome, error) {
		return h.participantService.AddCancellation(c.Request.Context(), id)
	})
}

// RemoveCancellations handles DELETE /participants/cancels/edit with a JSON
// array of registration IDs to mark as present again.
func (h *ParticipantHandler) RemoveCancellations(c *gin.Context) {
	h.batchToggle(c, func(id string) (services.CancellationOutcome, error) {
		return h.participantService.RemoveCancellation(c.Request.Context(), id)
	})
}
