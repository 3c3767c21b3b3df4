// Package pet holds the HTTP handlers for the pet-care features: AI
// analyses, the health assessment wizard, location insights and adoption
// center search.
package pet

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"

	"PawPulse/internal/database"
	"PawPulse/internal/directory"
	"PawPulse/internal/geminiservice"
	"PawPulse/internal/geocode"
	"PawPulse/internal/utility"
	"PawPulse/internal/wizard"
)

const analysisFailedMsg = "Failed to analyze. Please try again."

var (
	ErrMissingField = errors.New("missing required field")
	errPersistence  = errors.New("persistence failed")
)

// RecordStore persists assessments. *database.Queries implements it.
type RecordStore interface {
	CreatePet(ctx context.Context, arg database.CreatePetParams) (database.Pet, error)
	CreateHealthRecord(ctx context.Context, arg database.CreateHealthRecordParams) (database.HealthRecord, error)
	CreateHealthPrediction(ctx context.Context, arg database.CreateHealthPredictionParams) (database.HealthPrediction, error)
	ListHealthPredictionsByPet(ctx context.Context, petID pgtype.UUID) ([]database.HealthPrediction, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (geocode.Location, error)
}

type Directory interface {
	SearchOrganizations(ctx context.Context, p directory.SearchParams) ([]directory.Organization, error)
}

type PhotoUploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Deps wires the handler. Only AI and Wizards are required; a nil optional
// collaborator disables the routes that need it.
type Deps struct {
	AI        *geminiservice.Gateway
	Wizards   *wizard.Store
	Hub       *utility.Hub
	Records   RecordStore
	Geocoder  Geocoder
	Directory Directory
	Photos    PhotoUploader
}

type Handler struct {
	ai        *geminiservice.Gateway
	wizards   *wizard.Store
	hub       *utility.Hub
	records   RecordStore
	geocoder  Geocoder
	directory Directory
	photos    PhotoUploader
	now       func() time.Time
}

func NewHandler(d Deps) *Handler {
	hub := d.Hub
	if hub == nil {
		hub = utility.NewHub()
	}
	wizards := d.Wizards
	if wizards == nil {
		wizards = wizard.NewStore(wizard.DefaultStoreSize, wizard.DefaultIdleTTL)
	}
	return &Handler{
		ai:        d.AI,
		wizards:   wizards,
		hub:       hub,
		records:   d.Records,
		geocoder:  d.Geocoder,
		directory: d.Directory,
		photos:    d.Photos,
		now:       time.Now,
	}
}

// isValidation reports errors caused by the request itself.
func isValidation(err error) bool {
	return errors.Is(err, geminiservice.ErrInvalidAttachment) ||
		errors.Is(err, geminiservice.ErrMissingInput) ||
		errors.Is(err, wizard.ErrUnknownField) ||
		errors.Is(err, wizard.ErrUnsupportedValue) ||
		errors.Is(err, ErrMissingField)
}

// respondError maps validation errors to 400 and everything else to 502 with
// a generic message. The underlying error is only logged.
func respondError(c echo.Context, err error, failMsg string) error {
	if isValidation(err) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	utility.GetLogger(c).Error().Err(err).Msg(failMsg)
	return c.JSON(http.StatusBadGateway, map[string]string{"error": failMsg})
}

func unavailable(c echo.Context, feature string) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": feature + " is not configured"})
}
