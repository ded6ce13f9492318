package handlers

import (
	"net/http"

	"spacify/internal/domain"
	"spacify/internal/domain/models"
	"spacify/internal/services"
	"spacify/internal/utils"

	"github.com/gin-gonic/gin"
)

// spotFilter reads maxPrice, vehicleType and features from the query.
// features may be repeated or comma separated.
func spotFilter(c *gin.Context) (models.SpotFilter, error) {
	var f models.SpotFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		return models.SpotFilter{}, domain.ValidationError{Field: "query", Msg: "invalid filter", Err: err}
	}
	features := []string{}
	for _, raw := range f.Features {
		features = append(features, utils.SplitList(raw)...)
	}
	f.Features = features
	return f, nil
}

// GET /api/parking-spots
func (h *Handler) ListSpots(c *gin.Context) {
	filter, err := spotFilter(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	spots, err := h.Spots.List(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"spots": spots, "count": len(spots)})
}

// GET /api/parking-spots/search
func (h *Handler) SearchSpots(c *gin.Context) {
	filter, err := spotFilter(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	spots, err := h.Spots.Search(c.Query("query"), filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"spots": spots, "count": len(spots)})
}

// GET /api/parking-spots/:id
func (h *Handler) GetSpot(c *gin.Context) {
	spot, err := h.Spots.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"spot":        spot,
		"reviewCount": services.ReviewCount(spot.ID),
		"similar":     h.Spots.Similar(spot.ID, 3),
	})
}
