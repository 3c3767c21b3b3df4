package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

/* ====================================================================
                   		Pets
==================================================================== */

const createPet = `
INSERT INTO pets (name, species, breed, birth_date, gender, photo_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, species, breed, birth_date, gender, photo_url, created_at
`

type CreatePetParams struct {
	Name      string      `json:"name"`
	Species   string      `json:"species"`
	Breed     pgtype.Text `json:"breed"`
	BirthDate pgtype.Date `json:"birth_date"`
	Gender    pgtype.Text `json:"gender"`
	PhotoUrl  pgtype.Text `json:"photo_url"`
}

func (q *Queries) CreatePet(ctx context.Context, arg CreatePetParams) (Pet, error) {
	row := q.db.QueryRow(ctx, createPet,
		arg.Name,
		arg.Species,
		arg.Breed,
		arg.BirthDate,
		arg.Gender,
		arg.PhotoUrl,
	)
	var i Pet
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Species,
		&i.Breed,
		&i.BirthDate,
		&i.Gender,
		&i.PhotoUrl,
		&i.CreatedAt,
	)
	return i, err
}

const getPet = `
SELECT id, name, species, breed, birth_date, gender, photo_url, created_at
FROM pets
WHERE id = $1
`

func (q *Queries) GetPet(ctx context.Context, id pgtype.UUID) (Pet, error) {
	row := q.db.QueryRow(ctx, getPet, id)
	var i Pet
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Species,
		&i.Breed,
		&i.BirthDate,
		&i.Gender,
		&i.PhotoUrl,
		&i.CreatedAt,
	)
	return i, err
}

/* ====================================================================
                   		Health Records
==================================================================== */

const createHealthRecord = `
INSERT INTO health_records (
    pet_id, weight, weight_unit, body_condition, activity_duration, activity_types,
    food_type, meals_per_day, portion_size, food_allergies, treats_per_day,
    chronic_conditions, medications, surgery_history, last_checkup,
    unusual_behaviors, behavioral_issues, energy_level,
    environment, water_access, hazards,
    vaccinated, preventive_care, last_dental
) VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11,
    $12, $13, $14, $15,
    $16, $17, $18,
    $19, $20, $21,
    $22, $23, $24
)
RETURNING id, pet_id, weight, weight_unit, body_condition, activity_duration, activity_types,
    food_type, meals_per_day, portion_size, food_allergies, treats_per_day,
    chronic_conditions, medications, surgery_history, last_checkup,
    unusual_behaviors, behavioral_issues, energy_level,
    environment, water_access, hazards,
    vaccinated, preventive_care, last_dental, created_at
`

type CreateHealthRecordParams struct {
	PetID             pgtype.UUID    `json:"pet_id"`
	Weight            pgtype.Numeric `json:"weight"`
	WeightUnit        string         `json:"weight_unit"`
	BodyCondition     pgtype.Text    `json:"body_condition"`
	ActivityDuration  pgtype.Int4    `json:"activity_duration"`
	ActivityTypes     []string       `json:"activity_types"`
	FoodType          pgtype.Text    `json:"food_type"`
	MealsPerDay       pgtype.Int4    `json:"meals_per_day"`
	PortionSize       pgtype.Text    `json:"portion_size"`
	FoodAllergies     []string       `json:"food_allergies"`
	TreatsPerDay      pgtype.Int4    `json:"treats_per_day"`
	ChronicConditions []string       `json:"chronic_conditions"`
	Medications       bool           `json:"medications"`
	SurgeryHistory    bool           `json:"surgery_history"`
	LastCheckup       pgtype.Text    `json:"last_checkup"`
	UnusualBehaviors  []string       `json:"unusual_behaviors"`
	BehavioralIssues  []string       `json:"behavioral_issues"`
	EnergyLevel       pgtype.Text    `json:"energy_level"`
	Environment       pgtype.Text    `json:"environment"`
	WaterAccess       bool           `json:"water_access"`
	Hazards           []string       `json:"hazards"`
	Vaccinated        bool           `json:"vaccinated"`
	PreventiveCare    bool           `json:"preventive_care"`
	LastDental        pgtype.Text    `json:"last_dental"`
}

func (q *Queries) CreateHealthRecord(ctx context.Context, arg CreateHealthRecordParams) (HealthRecord, error) {
	row := q.db.QueryRow(ctx, createHealthRecord,
		arg.PetID,
		arg.Weight,
		arg.WeightUnit,
		arg.BodyCondition,
		arg.ActivityDuration,
		arg.ActivityTypes,
		arg.FoodType,
		arg.MealsPerDay,
		arg.PortionSize,
		arg.FoodAllergies,
		arg.TreatsPerDay,
		arg.ChronicConditions,
		arg.Medications,
		arg.SurgeryHistory,
		arg.LastCheckup,
		arg.UnusualBehaviors,
		arg.BehavioralIssues,
		arg.EnergyLevel,
		arg.Environment,
		arg.WaterAccess,
		arg.Hazards,
		arg.Vaccinated,
		arg.PreventiveCare,
		arg.LastDental,
	)
	var i HealthRecord
	err := row.Scan(
		&i.ID,
		&i.PetID,
		&i.Weight,
		&i.WeightUnit,
		&i.BodyCondition,
		&i.ActivityDuration,
		&i.ActivityTypes,
		&i.FoodType,
		&i.MealsPerDay,
		&i.PortionSize,
		&i.FoodAllergies,
		&i.TreatsPerDay,
		&i.ChronicConditions,
		&i.Medications,
		&i.SurgeryHistory,
		&i.LastCheckup,
		&i.UnusualBehaviors,
		&i.BehavioralIssues,
		&i.EnergyLevel,
		&i.Environment,
		&i.WaterAccess,
		&i.Hazards,
		&i.Vaccinated,
		&i.PreventiveCare,
		&i.LastDental,
		&i.CreatedAt,
	)
	return i, err
}

/* ====================================================================
                   		Health Predictions
==================================================================== */

const createHealthPrediction = `
INSERT INTO health_predictions (health_record_id, prediction_text, risk_factors, recommendations, severity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, health_record_id, prediction_text, risk_factors, recommendations, severity, created_at
`

type CreateHealthPredictionParams struct {
	HealthRecordID  pgtype.UUID `json:"health_record_id"`
	PredictionText  string      `json:"prediction_text"`
	RiskFactors     []string    `json:"risk_factors"`
	Recommendations []string    `json:"recommendations"`
	Severity        string      `json:"severity"`
}

func (q *Queries) CreateHealthPrediction(ctx context.Context, arg CreateHealthPredictionParams) (HealthPrediction, error) {
	row := q.db.QueryRow(ctx, createHealthPrediction,
		arg.HealthRecordID,
		arg.PredictionText,
		arg.RiskFactors,
		arg.Recommendations,
		arg.Severity,
	)
	var i HealthPrediction
	err := row.Scan(
		&i.ID,
		&i.HealthRecordID,
		&i.PredictionText,
		&i.RiskFactors,
		&i.Recommendations,
		&i.Severity,
		&i.CreatedAt,
	)
	return i, err
}

const listHealthPredictionsByPet = `
SELECT hp.id, hp.health_record_id, hp.prediction_text, hp.risk_factors, hp.recommendations, hp.severity, hp.created_at
FROM health_predictions hp
JOIN health_records hr ON hr.id = hp.health_record_id
WHERE hr.pet_id = $1
ORDER BY hp.created_at DESC
`

func (q *Queries) ListHealthPredictionsByPet(ctx context.Context, petID pgtype.UUID) ([]HealthPrediction, error) {
	rows, err := q.db.Query(ctx, listHealthPredictionsByPet, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []HealthPrediction{}
	for rows.Next() {
		var i HealthPrediction
		if err := rows.Scan(
			&i.ID,
			&i.HealthRecordID,
			&i.PredictionText,
			&i.RiskFactors,
			&i.Recommendations,
			&i.Severity,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
