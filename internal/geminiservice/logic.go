package geminiservice

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// Severity is the overall risk level of a health prediction.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
)

// Prediction formats report which parser produced a HealthPrediction.
const (
	FormatStructured = "structured"
	FormatText       = "text"
)

// HealthPrediction is the parsed outcome of a health assessment.
type HealthPrediction struct {
	Prediction      string   `json:"prediction"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Severity        Severity `json:"severity"`
	Format          string   `json:"format"`
	Raw             string   `json:"-"`
}

/* =================================================================================
							FREE-TEXT ANALYSES
=================================================================================*/

func (g *Gateway) AnalyzeSymptoms(ctx context.Context, symptoms string) (string, error) {
	return g.Invoke(ctx, TextRequest{Template: TemplateSymptoms, Text: symptoms})
}

func (g *Gateway) FirstAidGuidance(ctx context.Context, situation string) (string, error) {
	return g.Invoke(ctx, TextRequest{Template: TemplateFirstAid, Text: situation})
}

func (g *Gateway) AnalyzeBehavior(ctx context.Context, behavior string) (string, error) {
	return g.Invoke(ctx, TextRequest{Template: TemplateBehavior, Text: behavior})
}

// AnalyzeLocation describes how pet-friendly an area is. The location is
// usually a formatted address produced by the geocoder.
func (g *Gateway) AnalyzeLocation(ctx context.Context, location string) (string, error) {
	return g.Invoke(ctx, TextRequest{Template: TemplateLocation, Text: location})
}

/* =================================================================================
							MEDIA ANALYSES
=================================================================================*/

func (g *Gateway) AnalyzeMedia(ctx context.Context, dataURL string, isVideo bool) (string, error) {
	return g.Invoke(ctx, MediaRequest{Template: TemplateMedia, DataURL: dataURL, IsVideo: isVideo})
}

func (g *Gateway) AnalyzeAudio(ctx context.Context, dataURL string) (string, error) {
	return g.Invoke(ctx, AudioRequest{DataURL: dataURL})
}

func (g *Gateway) AnalyzePlant(ctx context.Context, dataURL string) (string, error) {
	return g.Invoke(ctx, MediaRequest{Template: TemplatePlant, DataURL: dataURL})
}

/* =================================================================================
							STRUCTURED ANALYSES
=================================================================================*/

func (g *Gateway) GenerateTreatRecipe(ctx context.Context, ingredients []string) (string, error) {
	return g.Invoke(ctx, StructuredRequest{Template: TemplateRecipe, Inputs: PromptInputs{Ingredients: ingredients}})
}

func (g *Gateway) GenerateMemorial(ctx context.Context, info MemorialInfo) (string, error) {
	return g.Invoke(ctx, StructuredRequest{Template: TemplateMemorial, Inputs: PromptInputs{Memorial: &info}})
}

func (g *Gateway) AnalyzeGrowth(ctx context.Context, data GrowthData) (string, error) {
	return g.Invoke(ctx, StructuredRequest{Template: TemplateGrowth, Inputs: PromptInputs{Growth: &data}})
}

// AnalyzePetHealth runs the health prediction for a submitted assessment.
// The photo field is excluded from the prompt.
func (g *Gateway) AnalyzePetHealth(ctx context.Context, fields map[string]any) (HealthPrediction, error) {
	payload := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "photo" {
			continue
		}
		payload[k] = v
	}

	raw, err := g.Invoke(ctx, StructuredRequest{Template: TemplateHealth, Inputs: PromptInputs{Health: payload}})
	if err != nil {
		return HealthPrediction{}, err
	}
	return ParseHealthPrediction(raw), nil
}

/* =================================================================================
							PREDICTION PARSING
=================================================================================*/

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\n`)
	listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)
)

// ParseHealthPrediction reads the structured JSON reply when possible and
// falls back to the blank-line separated text layout otherwise.
func ParseHealthPrediction(raw string) HealthPrediction {
	var structured struct {
		Prediction      string   `json:"prediction"`
		Risks           []string `json:"risks"`
		Recommendations []string `json:"recommendations"`
		Severity        string   `json:"severity"`
	}
	body := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(body), &structured); err == nil && strings.TrimSpace(structured.Prediction) != "" {
		return HealthPrediction{
			Prediction:      strings.TrimSpace(structured.Prediction),
			Risks:           nonEmpty(structured.Risks),
			Recommendations: nonEmpty(structured.Recommendations),
			Severity:        InferSeverity(structured.Severity),
			Format:          FormatStructured,
			Raw:             raw,
		}
	}
	return parseHealthText(raw)
}

// parseHealthText expects four sections separated by blank lines:
// prediction, risks, recommendations, severity.
func parseHealthText(raw string) HealthPrediction {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	sections := blankLine.Split(text, -1)
	section := func(i int) string {
		if i < len(sections) {
			return strings.TrimSpace(sections[i])
		}
		return ""
	}

	return HealthPrediction{
		Prediction:      section(0),
		Risks:           listItems(section(1)),
		Recommendations: listItems(section(2)),
		Severity:        InferSeverity(section(3)),
		Format:          FormatText,
		Raw:             raw,
	}
}

// listItems keeps only lines that begin with a list marker.
func listItems(section string) []string {
	items := []string{}
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		loc := listMarker.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if item := strings.TrimSpace(line[loc[1]:]); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// InferSeverity maps free text to a severity: "high" wins over "moderate",
// anything else is Low.
func InferSeverity(s string) Severity {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "high"):
		return SeverityHigh
	case strings.Contains(lower, "moderate"):
		return SeverityModerate
	default:
		return SeverityLow
	}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
