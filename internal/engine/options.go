package engine

import (
	"time"

	"github.com/angelmondragon/packfinderz-variations/internal/corrector"
	"github.com/angelmondragon/packfinderz-variations/internal/detail"
	"github.com/angelmondragon/packfinderz-variations/internal/notify"
	"github.com/angelmondragon/packfinderz-variations/internal/pricing"
	"github.com/angelmondragon/packfinderz-variations/pkg/logger"
	"github.com/angelmondragon/packfinderz-variations/pkg/metrics"
)

const (
	defaultAutoClose = 5 * time.Second
	defaultSeparator = "\n"
	defaultLanguage  = "de"
)

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logg *logger.Logger) Option {
	return func(e *Engine) {
		if logg != nil {
			e.logg = logg
		}
	}
}

func WithMetrics(m *metrics.VariationMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithDetails sets the cache variation details are fetched through.
func WithDetails(cache *detail.Cache) Option {
	return func(e *Engine) {
		if cache != nil {
			e.details = cache
		}
	}
}

// WithTranslator sets the provider for correction messages and labels.
func WithTranslator(t corrector.Translator) Option {
	return func(e *Engine) {
		if t != nil {
			e.translator = t
		}
	}
}

// WithNotifier sets where batched correction messages are shown.
func WithNotifier(sink notify.Sink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.notifier = sink
		}
	}
}

// WithSpecialOffer replaces the default special offer transform.
func WithSpecialOffer(offer pricing.SpecialOffer) Option {
	return func(e *Engine) {
		if offer != nil {
			e.offer = offer
		}
	}
}

// WithRequireOrderProperties toggles missing order property reporting.
func WithRequireOrderProperties(require bool) Option {
	return func(e *Engine) {
		e.requireProperties = require
	}
}

// WithAutoClose sets how long correction notifications stay visible.
func WithAutoClose(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.autoClose = d
		}
	}
}

// WithMessageSeparator sets how batched correction messages are joined.
func WithMessageSeparator(sep string) Option {
	return func(e *Engine) {
		if sep != "" {
			e.separator = sep
		}
	}
}

// WithMemoSize bounds the resolver's filter memo.
func WithMemoSize(size int) Option {
	return func(e *Engine) {
		e.memoSize = size
	}
}
