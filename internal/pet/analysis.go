package pet

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"PawPulse/internal/geminiservice"
)

type symptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

type firstAidRequest struct {
	Emergency string `json:"emergency"`
}

type behaviorRequest struct {
	Behavior string `json:"behavior"`
}

type mediaRequest struct {
	Media   string `json:"media"` // data URL
	IsVideo bool   `json:"is_video"`
}

type audioRequest struct {
	Audio string `json:"audio"` // data URL
}

type plantRequest struct {
	Image string `json:"image"` // data URL
}

type recipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

type growthRequest struct {
	Age     int      `json:"age"`
	Weight  float64  `json:"weight"`
	Height  *float64 `json:"height"`
	Breed   string   `json:"breed"`
	Species string   `json:"species"`
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
}

// AnalyzeSymptomsHandler handles POST /analyze/symptoms
func (h *Handler) AnalyzeSymptomsHandler(c echo.Context) error {
	var req symptomsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	analysis, err := h.ai.AnalyzeSymptoms(c.Request().Context(), req.Symptoms)
	if err != nil {
		return respondError(c, err, analysisFailedMsg)
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// FirstAidHandler handles POST /analyze/first-aid
func (h *Handler) FirstAidHandler(c echo.Context) error {
	var req firstAidRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	analysis, err := h.ai.FirstAidGuidance(c.Request().Context(), req.Emergency)
	if err != nil {
		return respondError(c, err, "Failed to get first aid guidance. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// AnalyzeBehaviorHandler handles POST /analyze/behavior
func (h *Handler) AnalyzeBehaviorHandler(c echo.Context) error {
	var req behaviorRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	analysis, err := h.ai.AnalyzeBehavior(c.Request().Context(), req.Behavior)
	if err != nil {
		return respondError(c, err, analysisFailedMsg)
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// AnalyzeMediaHandler handles POST /analyze/media
func (h *Handler) AnalyzeMediaHandler(c echo.Context) error {
	var req mediaRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	analysis, err := h.ai.AnalyzeMedia(c.Request().Context(), req.Media, req.IsVideo)
	if err != nil {
		return respondError(c, err, analysisFailedMsg)
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// AnalyzeAudioHandler handles POST /analyze/audio
func (h *Handler) AnalyzeAudioHandler(c echo.Context) error {
	var req audioRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	analysis, err := h.ai.AnalyzeAudio(c.Request().Context(), req.Audio)
	if err != nil {
		return respondError(c, err, "Failed to analyze audio. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// AnalyzePlantHandler handles POST /analyze/plant
func (h *Handler) AnalyzePlantHandler(c echo.Context) error {
	var req plantRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	analysis, err := h.ai.AnalyzePlant(c.Request().Context(), req.Image)
	if err != nil {
		return respondError(c, err, "Failed to analyze plant. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

// TreatRecipeHandler handles POST /recipes
func (h *Handler) TreatRecipeHandler(c echo.Context) error {
	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	recipe, err := h.ai.GenerateTreatRecipe(c.Request().Context(), req.Ingredients)
	if err != nil {
		return respondError(c, err, "Failed to generate recipe. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"recipe": recipe})
}

// MemorialHandler handles POST /memorials
func (h *Handler) MemorialHandler(c echo.Context) error {
	var req geminiservice.MemorialInfo
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	memorial, err := h.ai.GenerateMemorial(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to generate memorial. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"memorial": memorial})
}

// GrowthHandler handles POST /growth
func (h *Handler) GrowthHandler(c echo.Context) error {
	var req growthRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Age < 0 || req.Weight <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Age and a positive weight are required"})
	}
	analysis, err := h.ai.AnalyzeGrowth(c.Request().Context(), geminiservice.GrowthData{
		Species: req.Species,
		Breed:   req.Breed,
		Age:     req.Age,
		Weight:  req.Weight,
		Height:  req.Height,
	})
	if err != nil {
		return respondError(c, err, "Failed to analyze growth. Please try again.")
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}
