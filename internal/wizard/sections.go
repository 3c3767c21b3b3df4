package wizard

// HealthAssessmentSections is the eight-section pet health questionnaire.
var HealthAssessmentSections = []Section{
	{
		Title:  "Basic Information",
		Fields: []string{"name", "species", "breed", "age_years", "age_months", "gender", "photo"},
	},
	{
		Title:  "Weight and Body Condition",
		Fields: []string{"weight", "weight_unit", "weight_changed", "body_condition"},
	},
	{
		Title:  "Activity Levels",
		Fields: []string{"activity_duration", "activity_types", "activity_changed"},
	},
	{
		Title:  "Diet and Nutrition",
		Fields: []string{"food_type", "meals_per_day", "portion_size", "food_allergies", "treats_per_day"},
	},
	{
		Title:  "Health History",
		Fields: []string{"chronic_conditions", "medications", "surgery_history", "last_checkup"},
	},
	{
		Title:  "Behavioral Observations",
		Fields: []string{"unusual_behaviors", "behavioral_issues", "energy_level"},
	},
	{
		Title:  "Environmental Factors",
		Fields: []string{"environment", "water_access", "hazards"},
	},
	{
		Title:  "Vaccination and Preventive Care",
		Fields: []string{"vaccinated", "preventive_care", "last_dental"},
	},
}

// HealthAssessmentDefaults returns a fresh copy of the questionnaire's
// initial values. The photo field starts unset.
func HealthAssessmentDefaults() Fields {
	return Fields{
		"name":               "",
		"species":            "",
		"breed":              "",
		"age_years":          0.0,
		"age_months":         0.0,
		"gender":             "",
		"weight":             0.0,
		"weight_unit":        "kg",
		"weight_changed":     false,
		"body_condition":     "",
		"activity_duration":  0.0,
		"activity_types":     []string{},
		"activity_changed":   false,
		"food_type":          "",
		"meals_per_day":      2.0,
		"portion_size":       "",
		"food_allergies":     []string{},
		"treats_per_day":     0.0,
		"chronic_conditions": []string{},
		"medications":        false,
		"surgery_history":    false,
		"last_checkup":       "",
		"unusual_behaviors":  []string{},
		"behavioral_issues":  []string{},
		"energy_level":       "",
		"environment":        "",
		"water_access":       true,
		"hazards":            []string{},
		"vaccinated":         false,
		"preventive_care":    false,
		"last_dental":        "",
	}
}
