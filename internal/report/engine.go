package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrCompose is returned when every document engine failed.
var ErrCompose = errors.New("document composition failed")

// ReportMeta carries the descriptive fields embedded in the document.
type ReportMeta struct {
	Location string
	Start    time.Time
	End      time.Time
}

// DocumentEngine renders a report document from the same inputs. The
// primary and fallback engines are independent implementations of this
// contract and share no code path.
type DocumentEngine interface {
	// Name identifies the engine for logging.
	Name() string

	// Render produces the document bytes for the given metadata and
	// chart image.
	Render(ctx context.Context, meta ReportMeta, chartPNG []byte) ([]byte, error)
}

// ComposerConfig holds configuration for the document composer.
type ComposerConfig struct {
	// Logger for composition attempts.
	Logger zerolog.Logger

	// Engines returns the engines to try, in order. If nil, the HTML
	// engine followed by the canvas engine is used. Called fresh on
	// every Compose so availability is never cached.
	Engines func() []DocumentEngine
}

// Composer tries each document engine in fixed order and returns the
// first successful result.
type Composer struct {
	logger  zerolog.Logger
	engines func() []DocumentEngine
}

// NewComposer creates a new document composer.
func NewComposer(cfg ComposerConfig) *Composer {
	engines := cfg.Engines
	if engines == nil {
		engines = func() []DocumentEngine {
			return []DocumentEngine{NewHTMLEngine(), NewCanvasEngine()}
		}
	}
	return &Composer{
		logger:  cfg.Logger,
		engines: engines,
	}
}

// Compose renders the report document, falling back to the next engine
// when one fails for any reason. Fails only when all engines fail.
func (c *Composer) Compose(ctx context.Context, meta ReportMeta, chartPNG []byte) ([]byte, error) {
	var failures []error

	for _, engine := range c.engines() {
		doc, err := engine.Render(ctx, meta, chartPNG)
		if err == nil {
			return doc, nil
		}

		c.logger.Warn().
			Str("engine", engine.Name()).
			Err(err).
			Msg("document engine failed")
		failures = append(failures, fmt.Errorf("%s: %w", engine.Name(), err))
	}

	return nil, fmt.Errorf("%w: %w", ErrCompose, errors.Join(failures...))
}
