package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/docscan/internal/model"
)

var (
	// ErrUnknownMode is returned by Run for a mode that was never registered.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrDuplicateMode is returned by Register when a name is taken.
	ErrDuplicateMode = errors.New("mode already registered")
)

// Mode defines the interface every report mode implements.
type Mode interface {
	// Extract runs the mode. A nil table with a nil error means there is
	// nothing to render.
	Extract(ctx context.Context) (*model.Table, error)

	// Name returns the mode name used on the command line.
	Name() string
}

// Sink receives the table produced by a mode.
type Sink interface {
	Write(table *model.Table) (int, error)
}

// Pipeline holds the registered modes.
type Pipeline struct {
	// modes maps names to modes.
	modes map[string]Mode

	// order keeps registration order for listing.
	order []string

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		modes: make(map[string]Mode),
		order: make([]string, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Register adds modes. Names must be unique.
func (p *Pipeline) Register(modes ...Mode) error {
	for _, m := range modes {
		if _, ok := p.modes[m.Name()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMode, m.Name())
		}
		p.modes[m.Name()] = m
		p.order = append(p.order, m.Name())
	}
	return nil
}

// Modes returns the registered mode names in registration order.
func (p *Pipeline) Modes() []string {
	return append([]string(nil), p.order...)
}

// Lookup returns the mode registered under name.
func (p *Pipeline) Lookup(name string) (Mode, error) {
	m, ok := p.modes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (choose from %v)", ErrUnknownMode, name, p.order)
	}
	return m, nil
}

// Run executes the named mode and writes its table to sink.
// It returns the table, which is nil when nothing was rendered.
func (p *Pipeline) Run(ctx context.Context, name string, sink Sink) (*model.Table, error) {
	mode, err := p.Lookup(name)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		p.logger.Warn("pipeline cancelled", "mode", name, "reason", err)
		return nil, err
	}

	p.logger.Info("executing mode", "mode", name)

	table, err := mode.Extract(ctx)
	if err != nil {
		p.logger.Error("mode failed", "mode", name, "error", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if table == nil {
		p.logger.Debug("mode produced no table", "mode", name)
		return nil, nil
	}

	if sink != nil {
		if _, err := sink.Write(table); err != nil {
			return table, fmt.Errorf("failed to write results: %w", err)
		}
	}

	p.logger.Debug("mode completed", "mode", name, "rows", table.Len())

	return table, nil
}
