package geminiservice

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"PawPulse/internal/metrics"
	"PawPulse/internal/responsecache"
)

// sharedCallTimeout bounds a deduplicated provider call, which no longer
// follows any caller's cancellation.
const sharedCallTimeout = 2 * time.Minute

// Models maps the two model tiers to concrete model names.
type Models struct {
	Fast string
	Pro  string
}

func (m Models) forTier(t modelTier) string {
	if t == tierFast {
		return m.Fast
	}
	return m.Pro
}

// Gateway is the single entry point for model calls. Every request passes
// through the response cache; identical concurrent misses share one
// provider call unless deduplication is disabled.
type Gateway struct {
	provider Provider
	cache    *responsecache.Cache
	models   Models
	dedupe   bool
	group    singleflight.Group
}

type GatewayOption func(*Gateway)

// WithModels overrides the model names. Blank names keep the defaults.
func WithModels(m Models) GatewayOption {
	return func(g *Gateway) {
		if m.Fast != "" {
			g.models.Fast = m.Fast
		}
		if m.Pro != "" {
			g.models.Pro = m.Pro
		}
	}
}

// WithDedupe toggles sharing of in-flight provider calls.
func WithDedupe(enabled bool) GatewayOption {
	return func(g *Gateway) {
		g.dedupe = enabled
	}
}

func NewGateway(provider Provider, cache *responsecache.Cache, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider: provider,
		cache:    cache,
		models:   Models{Fast: DefaultFastModel, Pro: DefaultProModel},
		dedupe:   true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Invoke returns the analysis for req, from cache when a fresh entry exists.
// Only successful responses are cached.
func (g *Gateway) Invoke(ctx context.Context, req Request) (string, error) {
	if _, ok := templates[req.TemplateID()]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, req.TemplateID())
	}

	p, err := req.prepare()
	if err != nil {
		return "", err
	}
	name := string(p.template)
	log := zerolog.Ctx(ctx)

	if cached, ok := g.cache.Get(ctx, p.key); ok {
		metrics.CacheLookups.WithLabelValues(name, metrics.ResultHit).Inc()
		log.Debug().Str("template", name).Msg("Serving analysis from cache")
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues(name, metrics.ResultMiss).Inc()

	if !g.dedupe {
		return g.generate(ctx, p)
	}

	// The shared call outlives any single caller; each caller stops waiting
	// when its own ctx is done.
	ch := g.group.DoChan(p.key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		return g.generate(sharedCtx, p)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.DedupedRequests.WithLabelValues(name).Inc()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (g *Gateway) generate(ctx context.Context, p prepared) (string, error) {
	tmpl := templates[p.template]
	name := string(p.template)

	prompt, err := BuildPrompt(p.template, p.inputs)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := g.provider.Generate(ctx, GenerateRequest{
		Model:          g.models.forTier(tmpl.tier),
		Prompt:         prompt,
		Attachment:     p.attachment,
		ResponseSchema: tmpl.schema,
	})
	metrics.ProviderLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(name, metrics.StatusError).Inc()
		zerolog.Ctx(ctx).Error().Err(err).Str("template", name).Msg("Gemini analysis failed")
		return "", fmt.Errorf("%s analysis: %w", name, err)
	}
	metrics.ProviderRequests.WithLabelValues(name, metrics.StatusOK).Inc()

	g.cache.Put(ctx, p.key, text)
	return text, nil
}
