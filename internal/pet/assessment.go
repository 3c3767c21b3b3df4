package pet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"PawPulse/internal/database"
	"PawPulse/internal/geminiservice"
	"PawPulse/internal/utility"
	"PawPulse/internal/wizard"
)

// daysPerMonth converts an age in months to a birth date.
const daysPerMonth = 30.44

// AssessmentResult is returned, and pushed to websocket listeners, once an
// assessment is submitted.
type AssessmentResult struct {
	Submitted    bool                           `json:"submitted"`
	PetID        string                         `json:"pet_id,omitempty"`
	PhotoKey     string                         `json:"photo_key,omitempty"`
	Prediction   geminiservice.HealthPrediction `json:"prediction"`
	PredictionID string                         `json:"prediction_id,omitempty"`
}

type assessmentResponse struct {
	ID    string       `json:"id"`
	State wizard.State `json:"state"`
}

type fieldsRequest struct {
	Fields map[string]any `json:"fields"`
}

func (h *Handler) lookupWizard(c echo.Context) (string, *wizard.Controller, bool) {
	id := c.Param("id")
	ctrl, ok := h.wizards.Get(id)
	return id, ctrl, ok
}

func assessmentNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": "Assessment not found"})
}

// CreateAssessmentHandler handles POST /assessments
func (h *Handler) CreateAssessmentHandler(c echo.Context) error {
	id, ctrl, err := h.wizards.Create(wizard.HealthAssessmentSections, wizard.HealthAssessmentDefaults())
	if err != nil {
		utility.GetLogger(c).Error().Err(err).Msg("Failed to create assessment")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create assessment"})
	}

	state := ctrl.Snapshot()
	state.Sections = ctrl.Sections()
	return c.JSON(http.StatusCreated, assessmentResponse{ID: id, State: state})
}

// GetAssessmentHandler handles GET /assessments/:id
func (h *Handler) GetAssessmentHandler(c echo.Context) error {
	id, ctrl, ok := h.lookupWizard(c)
	if !ok {
		return assessmentNotFound(c)
	}
	return c.JSON(http.StatusOK, assessmentResponse{ID: id, State: ctrl.Snapshot()})
}

// UpdateAssessmentFieldsHandler handles PUT /assessments/:id/fields
func (h *Handler) UpdateAssessmentFieldsHandler(c echo.Context) error {
	id, ctrl, ok := h.lookupWizard(c)
	if !ok {
		return assessmentNotFound(c)
	}

	var req fieldsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	err := ctrl.SetAll(req.Fields)
	if errors.Is(err, wizard.ErrSubmitInProgress) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Assessment is being submitted"})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, assessmentResponse{ID: id, State: ctrl.Snapshot()})
}

// PreviousSectionHandler handles POST /assessments/:id/previous
func (h *Handler) PreviousSectionHandler(c echo.Context) error {
	id, ctrl, ok := h.lookupWizard(c)
	if !ok {
		return assessmentNotFound(c)
	}
	ctrl.Previous()
	return c.JSON(http.StatusOK, assessmentResponse{ID: id, State: ctrl.Snapshot()})
}

// NextSectionHandler handles POST /assessments/:id/next. At the last section
// it submits the assessment.
func (h *Handler) NextSectionHandler(c echo.Context) error {
	id, ctrl, ok := h.lookupWizard(c)
	if !ok {
		return assessmentNotFound(c)
	}

	var result AssessmentResult
	submitted, err := ctrl.Next(c.Request().Context(), func(ctx context.Context, f wizard.Fields) error {
		r, err := h.submitAssessment(ctx, f)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	switch {
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Assessment already submitted"})
	case errors.Is(err, wizard.ErrSubmitInProgress):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Assessment is being submitted"})
	case errors.Is(err, errPersistence):
		utility.GetLogger(c).Error().Err(err).Str("assessment_id", id).Msg("Failed to save assessment")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to submit health data. Please try again."})
	case err != nil:
		return respondError(c, err, "Failed to submit health data. Please try again.")
	}

	if !submitted {
		return c.JSON(http.StatusOK, assessmentResponse{ID: id, State: ctrl.Snapshot()})
	}

	h.hub.Notify(id, result)
	utility.GetLogger(c).Info().Str("assessment_id", id).Str("severity", string(result.Prediction.Severity)).Msg("Assessment submitted")
	return c.JSON(http.StatusOK, result)
}

// AssessmentSocketHandler handles GET /assessments/:id/ws
func (h *Handler) AssessmentSocketHandler(c echo.Context) error {
	id, _, ok := h.lookupWizard(c)
	if !ok {
		return assessmentNotFound(c)
	}
	return h.hub.Serve(c, id)
}

// PetPredictionsHandler handles GET /pets/:pet_id/predictions
func (h *Handler) PetPredictionsHandler(c echo.Context) error {
	if h.records == nil {
		return unavailable(c, "Pet records storage")
	}

	petID, err := utility.StringToPgtypeUUID(c.Param("pet_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid pet id"})
	}

	predictions, err := h.records.ListHealthPredictionsByPet(c.Request().Context(), petID)
	if err != nil {
		utility.GetLogger(c).Error().Err(err).Msg("Failed to retrieve health predictions")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve predictions"})
	}
	return c.JSON(http.StatusOK, map[string]any{"predictions": predictions})
}

/* ====================================================================
                   		Submission
==================================================================== */

// submitAssessment validates, stores and analyzes a completed assessment.
// Record inserts and the AI prediction run concurrently; the prediction row
// is written once both are done.
func (h *Handler) submitAssessment(ctx context.Context, f wizard.Fields) (AssessmentResult, error) {
	// 1. Required fields, checked before any external call
	name := strings.TrimSpace(f.String("name"))
	species := strings.TrimSpace(f.String("species"))
	if name == "" || species == "" {
		return AssessmentResult{}, fmt.Errorf("%w: name and species", ErrMissingField)
	}

	result := AssessmentResult{Submitted: true}

	// 2. Optional photo upload
	if photo := f.String("photo"); photo != "" {
		att, _, err := geminiservice.ParseDataURL(photo, "image/jpeg")
		if err != nil {
			return AssessmentResult{}, err
		}
		if h.photos != nil {
			key, err := h.photos.Upload(ctx, photoFilename(name, att.MIMEType), att.MIMEType, att.Data)
			if err != nil {
				return AssessmentResult{}, fmt.Errorf("upload photo: %w", err)
			}
			result.PhotoKey = key
		}
	}

	// 3. Records and prediction in parallel
	g, gctx := errgroup.WithContext(ctx)

	var record database.HealthRecord
	if h.records != nil {
		g.Go(func() error {
			pet, err := h.records.CreatePet(gctx, database.CreatePetParams{
				Name:      name,
				Species:   species,
				Breed:     utility.TextOrNull(f.String("breed")),
				BirthDate: birthDate(h.now(), f.Number("age_years"), f.Number("age_months")),
				Gender:    utility.TextOrNull(f.String("gender")),
				PhotoUrl:  utility.TextOrNull(result.PhotoKey),
			})
			if err != nil {
				return fmt.Errorf("%w: create pet: %v", errPersistence, err)
			}
			result.PetID, _ = utility.PgtypeUUIDToString(pet.ID)

			record, err = h.records.CreateHealthRecord(gctx, healthRecordParams(pet.ID, f))
			if err != nil {
				return fmt.Errorf("%w: create health record: %v", errPersistence, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		prediction, err := h.ai.AnalyzePetHealth(gctx, f)
		if err != nil {
			return err
		}
		result.Prediction = prediction
		return nil
	})

	if err := g.Wait(); err != nil {
		return AssessmentResult{}, err
	}

	// 4. Prediction row
	if h.records != nil {
		saved, err := h.records.CreateHealthPrediction(ctx, database.CreateHealthPredictionParams{
			HealthRecordID:  record.ID,
			PredictionText:  result.Prediction.Prediction,
			RiskFactors:     result.Prediction.Risks,
			Recommendations: result.Prediction.Recommendations,
			Severity:        string(result.Prediction.Severity),
		})
		if err != nil {
			return AssessmentResult{}, fmt.Errorf("%w: create health prediction: %v", errPersistence, err)
		}
		result.PredictionID, _ = utility.PgtypeUUIDToString(saved.ID)
	}

	return result, nil
}

func healthRecordParams(petID pgtype.UUID, f wizard.Fields) database.CreateHealthRecordParams {
	unit := f.String("weight_unit")
	if unit == "" {
		unit = "kg"
	}
	return database.CreateHealthRecordParams{
		PetID:             petID,
		Weight:            utility.FloatToNumeric(f.Number("weight")),
		WeightUnit:        unit,
		BodyCondition:     utility.TextOrNull(f.String("body_condition")),
		ActivityDuration:  int4(f.Number("activity_duration")),
		ActivityTypes:     f.Strings("activity_types"),
		FoodType:          utility.TextOrNull(f.String("food_type")),
		MealsPerDay:       int4(f.Number("meals_per_day")),
		PortionSize:       utility.TextOrNull(f.String("portion_size")),
		FoodAllergies:     f.Strings("food_allergies"),
		TreatsPerDay:      int4(f.Number("treats_per_day")),
		ChronicConditions: f.Strings("chronic_conditions"),
		Medications:       f.Bool("medications"),
		SurgeryHistory:    f.Bool("surgery_history"),
		LastCheckup:       utility.TextOrNull(f.String("last_checkup")),
		UnusualBehaviors:  f.Strings("unusual_behaviors"),
		BehavioralIssues:  f.Strings("behavioral_issues"),
		EnergyLevel:       utility.TextOrNull(f.String("energy_level")),
		Environment:       utility.TextOrNull(f.String("environment")),
		WaterAccess:       f.Bool("water_access"),
		Hazards:           f.Strings("hazards"),
		Vaccinated:        f.Bool("vaccinated"),
		PreventiveCare:    f.Bool("preventive_care"),
		LastDental:        utility.TextOrNull(f.String("last_dental")),
	}
}

// birthDate estimates a birth date from an age in years and months.
func birthDate(now time.Time, years, months float64) pgtype.Date {
	days := (years*12 + months) * daysPerMonth
	born := now.Add(-time.Duration(days * float64(24*time.Hour))).UTC()
	return pgtype.Date{
		Time:  time.Date(born.Year(), born.Month(), born.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func int4(v float64) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(v), Valid: true}
}

func photoFilename(petName, mimeType string) string {
	base := strings.ToLower(strings.Join(strings.Fields(petName), "-"))
	switch mimeType {
	case "image/png":
		return base + ".png"
	case "image/webp":
		return base + ".webp"
	case "image/gif":
		return base + ".gif"
	default:
		return base + ".jpg"
	}
}
