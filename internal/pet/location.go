package pet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"PawPulse/internal/directory"
	"PawPulse/internal/geocode"
	"PawPulse/internal/utility"
)

type locationRequest struct {
	Address string `json:"address"`
}

// AnalyzeLocationHandler handles POST /locations/analyze
func (h *Handler) AnalyzeLocationHandler(c echo.Context) error {
	if h.geocoder == nil {
		return unavailable(c, "Location analysis")
	}

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	ctx := c.Request().Context()

	// 1. Resolve the address
	loc, err := h.geocoder.Geocode(ctx, req.Address)
	if errors.Is(err, geocode.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
	}
	if err != nil {
		utility.GetLogger(c).Error().Err(err).Msg("Geocoding failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to look up address. Please try again."})
	}

	// 2. Analyze the formatted address
	analysis, err := h.ai.AnalyzeLocation(ctx, loc.Address)
	if err != nil {
		return respondError(c, err, "Failed to analyze location. Please try again.")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"location": loc,
		"analysis": analysis,
	})
}

// AdoptionCentersHandler handles GET /adoption-centers
func (h *Handler) AdoptionCentersHandler(c echo.Context) error {
	if h.directory == nil {
		return unavailable(c, "Adoption center search")
	}

	params := directory.SearchParams{Location: c.QueryParam("location")}
	var err error
	if params.Distance, err = optionalInt(c.QueryParam("distance")); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "distance must be a number"})
	}
	if params.Limit, err = optionalInt(c.QueryParam("limit")); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a number"})
	}

	orgs, err := h.directory.SearchOrganizations(c.Request().Context(), params)
	if errors.Is(err, directory.ErrMissingLocation) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Location is required"})
	}
	if err != nil {
		utility.GetLogger(c).Error().Err(err).Msg("Adoption center search failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to fetch adoption centers. Please try again."})
	}

	return c.JSON(http.StatusOK, map[string]any{"organizations": orgs})
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
