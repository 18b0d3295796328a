package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tenkey-events/raffle-backend/internal/csvparse"
	"github.com/tenkey-events/raffle-backend/internal/models"
	"github.com/tenkey-events/raffle-backend/internal/services"
)

// PrizeHandler handles prize catalog HTTP requests
type PrizeHandler struct {
	prizeService *services.PrizeService
}

// NewPrizeHandler creates a new PrizeHandler
func NewPrizeHandler(prizeService *services.PrizeService) *PrizeHandler {
	return &PrizeHandler{
		prizeService: prizeService,
	}
}

// GetPrizes handles GET /prizes
func (h *PrizeHandler) GetPrizes(c *gin.Context) {
	catalog := h.prizeService.GetAll()
	if catalog == nil {
		catalog = []models.Prize{}
	}
	c.JSON(http.StatusOK, catalog)
}

// GetPrizeGroup handles GET /prizes/:id/group
func (h *PrizeHandler) GetPrizeGroup(c *gin.Context) {
	group := h.prizeService.GetGroup(c.Param("id"))
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such prize"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// ImportPrizes handles PUT /prizes: a multipart catalog CSV under the "csv"
// field replaces the whole catalog.
func (h *PrizeHandler) ImportPrizes(c *gin.Context) {
	fileHeader, err := c.FormFile("csv")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"parsed_prizes": 0, "error": "no csv file attached"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"parsed_prizes": 0, "error": "could not open csv file: " + err.Error()})
		return
	}
	defer file.Close()

	catalog, err := csvparse.ParsePrizes(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"parsed_prizes": 0, "error": err.Error()})
		return
	}
	if err := h.prizeService.ImportCatalog(c.Request.Context(), catalog); err != nil {
		if errors.Is(err, services.ErrLocked) {
			c.JSON(http.StatusBadRequest, gin.H{"parsed_prizes": 0, "error": "cannot replace the catalog while winner mappings exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"parsed_prizes": 0, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"parsed_prizes": len(catalog), "error": nil})
}

// DeletePrizes handles DELETE /prizes
func (h *PrizeHandler) DeletePrizes(c *gin.Context) {
	if err := h.prizeService.WipeCatalog(c.Request.Context()); err != nil {
		if errors.Is(err, services.ErrLocked) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot wipe the catalog while winner mappings exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "catalog wiped"})
}
