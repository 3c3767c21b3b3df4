package geminiservice

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"PawPulse/internal/responsecache"
)

var ErrInvalidAttachment = errors.New("invalid media data URL")

// Request is one analysis request. The variants differ in how the cache key
// is derived and whether binary content is attached.
type Request interface {
	TemplateID() TemplateID
	prepare() (prepared, error)
}

type prepared struct {
	template   TemplateID
	key        string
	inputs     PromptInputs
	attachment *Attachment
}

// TextRequest analyses free text: symptoms, first aid, behavior, location.
type TextRequest struct {
	Template TemplateID
	Text     string
}

func (r TextRequest) TemplateID() TemplateID { return r.Template }

func (r TextRequest) prepare() (prepared, error) {
	if strings.TrimSpace(r.Text) == "" {
		return prepared{}, fmt.Errorf("%w: text", ErrMissingInput)
	}
	return prepared{
		template: r.Template,
		key:      responsecache.TextKey(string(r.Template), r.Text),
		inputs:   PromptInputs{Text: r.Text},
	}, nil
}

// MediaRequest analyses a photo or video given as a data URL. Template
// defaults to TemplateMedia; TemplatePlant reuses the same path.
type MediaRequest struct {
	Template TemplateID
	DataURL  string
	IsVideo  bool
}

func (r MediaRequest) TemplateID() TemplateID {
	if r.Template == "" {
		return TemplateMedia
	}
	return r.Template
}

func (r MediaRequest) prepare() (prepared, error) {
	fallback := "image/jpeg"
	if r.IsVideo {
		fallback = "video/webm"
	}
	att, payload, err := ParseDataURL(r.DataURL, fallback)
	if err != nil {
		return prepared{}, err
	}
	id := r.TemplateID()
	return prepared{
		template:   id,
		key:        responsecache.PayloadKey(string(id), payload),
		inputs:     PromptInputs{IsVideo: r.IsVideo},
		attachment: att,
	}, nil
}

// AudioRequest analyses a pet vocalization recording.
type AudioRequest struct {
	DataURL string
}

func (r AudioRequest) TemplateID() TemplateID { return TemplateAudio }

func (r AudioRequest) prepare() (prepared, error) {
	att, payload, err := ParseDataURL(r.DataURL, "audio/wav")
	if err != nil {
		return prepared{}, err
	}
	return prepared{
		template:   TemplateAudio,
		key:        responsecache.PayloadKey(string(TemplateAudio), payload),
		attachment: att,
	}, nil
}

// StructuredRequest renders a template from structured inputs. The key is
// derived from the JSON encoding of the inputs.
type StructuredRequest struct {
	Template TemplateID
	Inputs   PromptInputs
}

func (r StructuredRequest) TemplateID() TemplateID { return r.Template }

func (r StructuredRequest) prepare() (prepared, error) {
	key, err := responsecache.StructuredKey(string(r.Template), r.Inputs)
	if err != nil {
		return prepared{}, err
	}
	return prepared{
		template: r.Template,
		key:      key,
		inputs:   r.Inputs,
	}, nil
}

// ParseDataURL splits "data:<mime>;base64,<payload>" and decodes the payload.
// The declared mime type wins over fallback. The raw payload text is
// returned for key derivation.
func ParseDataURL(dataURL, fallback string) (*Attachment, string, error) {
	header, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok || payload == "" {
		return nil, "", fmt.Errorf("%w: missing base64 payload", ErrInvalidAttachment)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}

	mime := strings.TrimSpace(strings.TrimPrefix(header, "data:"))
	if mime == "" || strings.Contains(mime, ",") {
		mime = fallback
	}

	return &Attachment{MIMEType: mime, Data: data}, payload, nil
}
