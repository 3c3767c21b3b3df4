package pet

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the pet-care API on g. The limit middleware guards
// every route that calls the generative model.
func (h *Handler) RegisterRoutes(g *echo.Group, limit echo.MiddlewareFunc) {
	// AI analyses
	g.POST("/analyze/symptoms", h.AnalyzeSymptomsHandler, limit)
	g.POST("/analyze/first-aid", h.FirstAidHandler, limit)
	g.POST("/analyze/behavior", h.AnalyzeBehaviorHandler, limit)
	g.POST("/analyze/media", h.AnalyzeMediaHandler, limit)
	g.POST("/analyze/audio", h.AnalyzeAudioHandler, limit)
	g.POST("/analyze/plant", h.AnalyzePlantHandler, limit)
	g.POST("/recipes", h.TreatRecipeHandler, limit)
	g.POST("/memorials", h.MemorialHandler, limit)
	g.POST("/growth", h.GrowthHandler, limit)
	g.POST("/locations/analyze", h.AnalyzeLocationHandler, limit)
	g.POST("/assessments/:id/next", h.NextSectionHandler, limit)

	// Directory
	g.GET("/adoption-centers", h.AdoptionCentersHandler)

	// Health assessment wizard
	g.POST("/assessments", h.CreateAssessmentHandler)
	g.GET("/assessments/:id", h.GetAssessmentHandler)
	g.PUT("/assessments/:id/fields", h.UpdateAssessmentFieldsHandler)
	g.POST("/assessments/:id/previous", h.PreviousSectionHandler)
	g.GET("/assessments/:id/ws", h.AssessmentSocketHandler)

	// Stored results
	g.GET("/pets/:pet_id/predictions", h.PetPredictionsHandler)
}
