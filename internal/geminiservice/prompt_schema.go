package geminiservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TemplateID names one fixed prompt template.
type TemplateID string

const (
	TemplateSymptoms TemplateID = "symptoms"
	TemplateFirstAid TemplateID = "firstaid"
	TemplateBehavior TemplateID = "behavior"
	TemplateLocation TemplateID = "location"
	TemplateMedia    TemplateID = "media"
	TemplateAudio    TemplateID = "audio"
	TemplatePlant    TemplateID = "plant"
	TemplateRecipe   TemplateID = "recipe"
	TemplateMemorial TemplateID = "memorial"
	TemplateGrowth   TemplateID = "growth"
	TemplateHealth   TemplateID = "health"
)

var (
	ErrUnknownTemplate = errors.New("unknown prompt template")
	ErrMissingInput    = errors.New("missing required input")
)

// PromptInputs carries every value a template may interpolate. Each template
// reads only the fields it needs.
type PromptInputs struct {
	Text        string         `json:"text,omitempty"`
	IsVideo     bool           `json:"is_video,omitempty"`
	Ingredients []string       `json:"ingredients,omitempty"`
	Memorial    *MemorialInfo  `json:"memorial,omitempty"`
	Growth      *GrowthData    `json:"growth,omitempty"`
	Health      map[string]any `json:"health,omitempty"`
}

// MemorialInfo describes the pet a tribute is written for.
type MemorialInfo struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Years       int    `json:"years"`
	Description string `json:"description"`
}

// GrowthData is one growth measurement compared against breed standards.
type GrowthData struct {
	Species string   `json:"species"` // "dog" or "cat"
	Breed   string   `json:"breed"`
	Age     int      `json:"age"`    // months
	Weight  float64  `json:"weight"` // kg
	Height  *float64 `json:"height,omitempty"`
}

type modelTier int

const (
	tierPro modelTier = iota
	tierFast
)

type promptTemplate struct {
	tier   modelTier
	schema *genai.Schema
	render func(in PromptInputs) (string, error)
}

var templates = map[TemplateID]promptTemplate{
	TemplateSymptoms: {tier: tierPro, render: textTemplate(SymptomsPrompt)},
	TemplateFirstAid: {tier: tierPro, render: textTemplate(FirstAidPrompt)},
	TemplateBehavior: {tier: tierPro, render: textTemplate(BehaviorPrompt)},
	TemplateLocation: {tier: tierPro, render: textTemplate(LocationPrompt)},
	TemplateMedia:    {tier: tierFast, render: renderMedia},
	TemplateAudio:    {tier: tierPro, render: func(PromptInputs) (string, error) { return AudioPrompt, nil }},
	TemplatePlant:    {tier: tierPro, render: func(PromptInputs) (string, error) { return PlantPrompt, nil }},
	TemplateRecipe:   {tier: tierPro, render: renderRecipe},
	TemplateMemorial: {tier: tierPro, render: renderMemorial},
	TemplateGrowth:   {tier: tierPro, render: renderGrowth},
	TemplateHealth:   {tier: tierPro, render: renderHealth, schema: HealthPredictionSchema},
}

// BuildPrompt renders the template named by id. Inputs are inserted verbatim;
// the only check is that required inputs are present.
func BuildPrompt(id TemplateID, in PromptInputs) (string, error) {
	t, ok := templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t.render(in)
}

func textTemplate(format string) func(PromptInputs) (string, error) {
	return func(in PromptInputs) (string, error) {
		if strings.TrimSpace(in.Text) == "" {
			return "", fmt.Errorf("%w: text", ErrMissingInput)
		}
		return fmt.Sprintf(format, in.Text), nil
	}
}

func renderMedia(in PromptInputs) (string, error) {
	subject := "photo"
	var emotional, physical, environment, recommendations string
	if in.IsVideo {
		subject = "video"
		emotional = "\n   - Changes in behavior over time\n   - Vocalizations and sounds"
		physical = "\n   - Movement patterns and gait\n   - Energy levels"
		environment = "\n   - Response to environmental changes\n   - Social interactions if present"
		recommendations = "\n   - Behavioral training suggestions if applicable"
	}
	return fmt.Sprintf(MediaPrompt, subject, emotional, physical, environment, recommendations), nil
}

func renderRecipe(in PromptInputs) (string, error) {
	var ingredients []string
	for _, ing := range in.Ingredients {
		if s := strings.TrimSpace(ing); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	if len(ingredients) == 0 {
		return "", fmt.Errorf("%w: ingredients", ErrMissingInput)
	}
	return fmt.Sprintf(RecipePrompt, strings.Join(ingredients, ", ")), nil
}

func renderMemorial(in PromptInputs) (string, error) {
	m := in.Memorial
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return "", fmt.Errorf("%w: memorial name", ErrMissingInput)
	}
	return fmt.Sprintf(MemorialPrompt, m.Name, m.Species, m.Years, m.Description), nil
}

func renderGrowth(in PromptInputs) (string, error) {
	g := in.Growth
	if g == nil || strings.TrimSpace(g.Breed) == "" {
		return "", fmt.Errorf("%w: growth breed", ErrMissingInput)
	}
	height := ""
	if g.Height != nil {
		height = fmt.Sprintf("\n- Height: %.1f cm", *g.Height)
	}
	return fmt.Sprintf(GrowthPrompt, g.Species, g.Breed, g.Age, g.Weight, height), nil
}

func renderHealth(in PromptInputs) (string, error) {
	if len(in.Health) == 0 {
		return "", fmt.Errorf("%w: health assessment", ErrMissingInput)
	}
	data, err := json.MarshalIndent(in.Health, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode health assessment: %w", err)
	}
	return fmt.Sprintf(HealthPrompt, string(data)), nil
}

/* =================================================================================
							PROMPT TEMPLATES
=================================================================================*/

const SymptomsPrompt = `As a veterinary AI assistant, analyze these pet symptoms and provide a preliminary assessment. The response should be structured as follows:

1. Possible Conditions
   - List potential conditions that match the symptoms
   - Order from most to least likely
   - Include brief explanations for each

2. Severity Assessment
   - Indicate urgency level (Emergency, Urgent, Non-urgent)
   - Explain why this urgency level was chosen
   - List any red flags that require immediate attention

3. Recommendations
   - Immediate care steps owners can take
   - Whether veterinary care is needed and how soon
   - Preventive measures to avoid worsening

4. Important Notes
   - Any crucial warnings or considerations
   - Symptoms to watch for that would indicate worsening
   - When to seek emergency care

Remember this is a preliminary assessment only. Always recommend consulting with a veterinarian for proper diagnosis and treatment.

Analyze these symptoms: %s`

const FirstAidPrompt = `As a veterinary first aid expert, provide clear, step-by-step emergency guidance for the following pet emergency situation. Structure the response as follows:

1. Initial Assessment
   - Immediate danger signs to check
   - Quick vital signs to monitor
   - Signs that indicate severity

2. Emergency Steps
   - Numbered, clear steps to take immediately
   - What to do while waiting for veterinary care
   - What NOT to do (common mistakes)

3. When to Seek Emergency Care
   - Clear indicators for emergency vet visit
   - Signs of worsening condition
   - Maximum wait time before professional care

4. Prevention Tips
   - How to prevent similar situations
   - Warning signs to watch for
   - Preparation recommendations

IMPORTANT: Always emphasize that this is first aid guidance only and does not replace professional veterinary care.

Emergency situation: %s`

const BehaviorPrompt = `As a professional pet behaviorist, analyze this behavioral issue and provide detailed training guidance. Structure the response as follows:

1. Behavior Analysis
   - Root causes of the behavior
   - Common triggers and patterns
   - Impact on pet's well-being
   - Environmental factors

2. Training Plan
   - Step-by-step training exercises
   - Positive reinforcement techniques
   - Timeline for improvement
   - Required tools or resources

3. Prevention Strategies
   - Environmental modifications
   - Daily routine adjustments
   - Alternative behaviors to encourage
   - Management techniques

4. Progress Tracking
   - Success indicators
   - Milestones to monitor
   - When to adjust the approach
   - Signs of improvement

Remember to emphasize positive reinforcement and force-free training methods. For serious behavioral issues, always recommend consulting with a professional trainer or behaviorist.

Analyze this behavior: %s`

const LocationPrompt = `As a pet-friendly location expert, analyze this area and provide detailed insights for pet owners. Structure the response as follows:

1. Pet-Friendly Overview
   - General assessment of pet-friendliness
   - Notable features for pets
   - Climate considerations for pets
   - Common pet restrictions or regulations

2. Outdoor Activities
   - Best parks and walking trails
   - Pet-friendly beaches or nature areas
   - Exercise opportunities
   - Seasonal considerations

3. Pet Services
   - Veterinary care availability
   - Pet supply stores
   - Grooming services
   - Pet daycare and boarding options

4. Local Tips
   - Pet-friendly restaurants and cafes
   - Indoor activities for bad weather
   - Local pet communities or groups
   - Special events or meetups

Provide practical, actionable information that helps pet owners make the most of the area with their pets.

Analyze this location: %s`

// MediaPrompt takes the subject ("photo" or "video") followed by the four
// video-only clauses, which are empty for photos.
const MediaPrompt = `Analyze this pet %s and provide a comprehensive analysis in clear, plain text without any special formatting or markdown characters. Focus on:

1. Emotional State & Mood
   - Facial expressions (relaxed vs. tense)
   - Body posture and positioning
   - Eye contact and blinking patterns
   - Overall emotional indicators
   - Stress or comfort signals%s

2. Physical Health Assessment
   - Visible health issues or concerns
   - Coat and skin condition
   - Weight and body condition
   - Any visible injuries or abnormalities%s

3. Environmental Analysis
   - Potential hazards or stressors in the environment
   - Comfort level in current surroundings
   - Interaction with environment%s

4. Recommendations
   - Suggestions for improving emotional well-being
   - Health-related recommendations
   - Environmental adjustments if needed%s

Format the response in clear sections with descriptive headings. Provide specific observations and actionable recommendations. Keep the tone informative but approachable.`

const AudioPrompt = `As an expert in pet vocalization analysis, provide a detailed breakdown of this pet audio recording. Structure your analysis as follows:

1. Sound Analysis
   - Describe the specific sounds heard (type, pitch, duration, intensity)
   - Note any patterns or changes in the vocalizations
   - Identify distinct vocal elements (e.g., barks, growls, whines)

2. Emotional Assessment
   - Primary emotion(s) indicated by the sounds
   - Secondary emotional indicators
   - Level of arousal or intensity
   - Signs of stress or contentment

3. Behavioral Context
   - Likely triggers for these vocalizations
   - Whether this is normal or concerning behavior
   - What the pet might be trying to communicate

4. Recommendations
   - Specific steps owners can take to address any concerns
   - Environmental modifications if needed
   - When to seek professional help
   - Training or behavioral suggestions

For reference, here's how to interpret common pet vocalizations:

Dogs:
- Short, high-pitched barks: Excitement, playfulness, attention-seeking
- Deep, continuous barking: Warning, territorial behavior, threat detection
- Growling: Warning, discomfort, resource guarding, or play (context-dependent)
- Whining: Stress, anxiety, pain, or seeking attention
- Howling: Communication with others, response to sounds, separation anxiety

Cats:
- Short meows: Greetings, acknowledgment
- Long meows: Demands, complaints
- Purring: Usually contentment (but can indicate stress/pain)
- Growling/hissing: Fear, aggression, defensive behavior
- Chirping/trilling: Excitement, greeting, attention-seeking

Provide a clear, actionable analysis that helps owners understand and respond to their pet's vocalizations.`

const PlantPrompt = `As a botanist specializing in pet safety, identify the plant in this photo and assess its risk to household pets. Structure the response as follows:

1. Plant Identification
   - Common and scientific name
   - Confidence in the identification
   - Look-alike plants that could be confused with it

2. Toxicity Assessment
   - Toxicity level for dogs and for cats (Non-toxic, Mildly toxic, Toxic, Highly toxic)
   - Toxic parts of the plant and the compounds involved
   - Symptoms of ingestion or contact

3. Emergency Response
   - What to do if a pet has eaten or chewed the plant
   - Signs that require an immediate veterinary visit

4. Safety Recommendations
   - Whether to keep, relocate, or remove the plant
   - Pet-safe alternatives with a similar look

If the image does not clearly show a plant, say so and explain what photo would help. Always recommend contacting a veterinarian or poison control line when ingestion is suspected.`

const RecipePrompt = `As a veterinary nutritionist, create a healthy homemade pet treat recipe using only pet-safe ingredients from this list: %s

Structure the response as follows:

1. Recipe Name and Overview
   - Suitable for dogs, cats, or both
   - Preparation and cooking time
   - Number of treats produced

2. Ingredients
   - Exact quantities for each ingredient used
   - Any listed ingredient left out because it is unsafe, and why

3. Instructions
   - Numbered preparation and cooking steps
   - Storage instructions and shelf life

4. Nutrition and Safety
   - Approximate calories per treat
   - Recommended daily treat allowance by pet size
   - Allergy warnings and ingredients to avoid

Never include ingredients that are toxic to pets such as chocolate, grapes, raisins, onions, garlic, xylitol, or macadamia nuts.`

const MemorialPrompt = `Write a warm, heartfelt memorial tribute for a beloved pet who has passed away.

Pet details:
- Name: %s
- Species/Breed: %s
- Years together: %d
- Memories shared by the owner: %s

Write three to four short paragraphs that celebrate the pet's personality and the bond they shared with their family, weaving in the memories above. Close with a gentle message of comfort for the grieving owner. Use plain text without markdown.`

const GrowthPrompt = `As a veterinary growth and development specialist, compare this pet's measurements against breed standards.

Pet details:
- Species: %s
- Breed: %s
- Age: %d months
- Weight: %.1f kg%s

Structure the response as follows:

1. Growth Assessment
   - Expected weight range for this breed and age
   - Whether the pet is under, within, or above the expected range

2. Development Milestones
   - Milestones expected at this age
   - What to watch for in the coming months

3. Nutrition Recommendations
   - Daily calorie and feeding guidance
   - Adjustments if the pet is outside the expected range

4. Health Considerations
   - Breed-specific growth concerns
   - When to consult a veterinarian`

const HealthPrompt = `As a veterinary health analyst, review this pet health assessment and predict potential health risks.

Assessment data (JSON):
%s

Return ONLY the JSON structure defined in the schema:
- "prediction": a concise overall health prediction in two to four sentences.
- "risks": the specific risk factors found in the data, one per item.
- "recommendations": actionable care recommendations, one per item.
- "severity": exactly one of "Low", "Moderate", or "High".

Base every statement on the supplied data. Always recommend consulting a veterinarian for a professional diagnosis.`

/* =================================================================================
							RESPONSE SCHEMA
=================================================================================*/

// HealthPredictionSchema is the structured output requested for health
// assessments. It mirrors HealthPrediction.
var HealthPredictionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"prediction": {
			Type:        genai.TypeString,
			Description: "Overall health prediction in two to four sentences.",
		},
		"risks": {
			Type:        genai.TypeArray,
			Description: "Risk factors identified in the assessment.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"recommendations": {
			Type:        genai.TypeArray,
			Description: "Actionable care recommendations.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"severity": {
			Type:        genai.TypeString,
			Format:      "enum",
			Description: "Overall severity of the identified risks.",
			Enum:        []string{string(SeverityLow), string(SeverityModerate), string(SeverityHigh)},
		},
	},
	Required: []string{"prediction", "risks", "recommendations", "severity"},
}
