package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Pet struct {
	ID        pgtype.UUID        `json:"id"`
	Name      string             `json:"name"`
	Species   string             `json:"species"`
	Breed     pgtype.Text        `json:"breed"`
	BirthDate pgtype.Date        `json:"birth_date"`
	Gender    pgtype.Text        `json:"gender"`
	PhotoUrl  pgtype.Text        `json:"photo_url"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type HealthRecord struct {
	ID                pgtype.UUID        `json:"id"`
	PetID             pgtype.UUID        `json:"pet_id"`
	Weight            pgtype.Numeric     `json:"weight"`
	WeightUnit        string             `json:"weight_unit"`
	BodyCondition     pgtype.Text        `json:"body_condition"`
	ActivityDuration  pgtype.Int4        `json:"activity_duration"`
	ActivityTypes     []string           `json:"activity_types"`
	FoodType          pgtype.Text        `json:"food_type"`
	MealsPerDay       pgtype.Int4        `json:"meals_per_day"`
	PortionSize       pgtype.Text        `json:"portion_size"`
	FoodAllergies     []string           `json:"food_allergies"`
	TreatsPerDay      pgtype.Int4        `json:"treats_per_day"`
	ChronicConditions []string           `json:"chronic_conditions"`
	Medications       bool               `json:"medications"`
	SurgeryHistory    bool               `json:"surgery_history"`
	LastCheckup       pgtype.Text        `json:"last_checkup"`
	UnusualBehaviors  []string           `json:"unusual_behaviors"`
	BehavioralIssues  []string           `json:"behavioral_issues"`
	EnergyLevel       pgtype.Text        `json:"energy_level"`
	Environment       pgtype.Text        `json:"environment"`
	WaterAccess       bool               `json:"water_access"`
	Hazards           []string           `json:"hazards"`
	Vaccinated        bool               `json:"vaccinated"`
	PreventiveCare    bool               `json:"preventive_care"`
	LastDental        pgtype.Text        `json:"last_dental"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}

type HealthPrediction struct {
	ID              pgtype.UUID        `json:"id"`
	HealthRecordID  pgtype.UUID        `json:"health_record_id"`
	PredictionText  string             `json:"prediction_text"`
	RiskFactors     []string           `json:"risk_factors"`
	Recommendations []string           `json:"recommendations"`
	Severity        string             `json:"severity"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}
