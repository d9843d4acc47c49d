// Package comment generates the infracost pull request comment: it locates the
// cost documents, resolves totals, renders Markdown and writes it out.
package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/finops-claw-gang/infracost-comment/internal/compare"
	"github.com/finops-claw-gang/infracost-comment/internal/costdoc"
	"github.com/finops-claw-gang/infracost-comment/internal/currency"
	"github.com/finops-claw-gang/infracost-comment/internal/observability"
	"github.com/finops-claw-gang/infracost-comment/internal/report"
	"github.com/finops-claw-gang/infracost-comment/internal/storage"
	"github.com/finops-claw-gang/infracost-comment/internal/totals"
)

// DefaultOutputName is the comment file written next to the first located
// input when no output location is configured.
const DefaultOutputName = "infracost_comment.md"

// Document roles.
const (
	RoleDiff = "diff"
	RoleBase = "base"
	RolePR   = "pr"
)

// ErrNoInput is matched by NoInputError.
var ErrNoInput = errors.New("comment: no input document found")

// NoInputError lists every location that was tried.
type NoInputError struct {
	Attempted []storage.Location
}

func (e *NoInputError) Error() string {
	paths := make([]string, len(e.Attempted))
	for i, loc := range e.Attempted {
		paths[i] = loc.String()
	}
	return fmt.Sprintf("%s; attempted: %s", ErrNoInput, strings.Join(paths, ", "))
}

// Is makes errors.Is(err, ErrNoInput) true.
func (e *NoInputError) Is(target error) bool { return target == ErrNoInput }

// Request describes one comment generation run.
type Request struct {
	// Candidate locations per document role, in priority order.
	Diff []storage.Location
	Base []storage.Location
	PR   []storage.Location

	// Output is where the comment is written. Zero means next to the first
	// located input.
	Output storage.Location

	// Currency overrides the currency carried by the documents. Empty means
	// use the document currency, then USD.
	Currency     string
	CurrencyFlag string

	Options report.Options
}

// Input is one located and parsed document.
type Input struct {
	Role     string            `json:"role"`
	Location storage.Location  `json:"location"`
	Document *costdoc.Document `json:"-"`
}

// Outcome is the result of a generation run.
type Outcome struct {
	Inputs   []Input                   `json:"inputs"`
	Totals   totals.Totals             `json:"totals"`
	Strategy string                    `json:"strategy"`
	Currency currency.Info             `json:"currency"`
	Markdown string                    `json:"markdown"`
	Output   storage.Location          `json:"output"`
	Change   *compare.ComparisonResult `json:"change,omitempty"`
}

// Generator ties the pipeline stages together.
type Generator struct {
	store   storage.Store
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMetrics records run metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New returns a Generator reading and writing through store.
func New(store storage.Store, opts ...Option) *Generator {
	g := &Generator{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load locates and parses the documents named by req. It returns a
// *NoInputError when no role has any existing candidate.
func (g *Generator) Load(ctx context.Context, req Request) ([]Input, error) {
	roles := []struct {
		name       string
		candidates []storage.Location
	}{
		{RoleDiff, req.Diff},
		{RoleBase, req.Base},
		{RolePR, req.PR},
	}

	var (
		inputs    []Input
		attempted []storage.Location
	)
	for _, r := range roles {
		attempted = append(attempted, r.candidates...)
		loc, data, err := storage.FindFirst(ctx, g.store, r.candidates)
		if errors.Is(err, storage.ErrNotFound) {
			g.logger.Debug("no document for role", "role", r.name, "candidates", len(r.candidates))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("comment: load %s: %w", r.name, err)
		}
		doc, err := costdoc.Parse(loc.String(), data)
		if err != nil {
			return nil, fmt.Errorf("comment: load %s: %w", r.name, err)
		}
		g.logger.Info("cost document loaded", "role", r.name, "location", loc.String(), "projects", len(doc.Projects()))
		g.metrics.RecordDocument(ctx, r.name)
		inputs = append(inputs, Input{Role: r.name, Location: loc, Document: doc})
	}

	if len(inputs) == 0 {
		return nil, &NoInputError{Attempted: attempted}
	}
	return inputs, nil
}

// Build resolves totals and renders the comment for already loaded inputs.
// It performs no I/O.
func Build(inputs []Input, req Request) Outcome {
	var in totals.Inputs
	docCurrency := ""
	for _, input := range inputs {
		switch input.Role {
		case RoleDiff:
			in.Diff = input.Document
		case RoleBase:
			in.Base = input.Document
		case RolePR:
			in.Target = input.Document
		}
		if docCurrency == "" {
			docCurrency = input.Document.Currency()
		}
	}

	res := totals.Resolve(in)

	code := req.Currency
	if code == "" {
		code = docCurrency
	}
	cur := currency.Resolve(code).WithFlag(req.CurrencyFlag)

	out := Outcome{
		Inputs:   inputs,
		Totals:   res.Totals,
		Strategy: res.Strategy,
		Currency: cur,
		Markdown: report.Render(res.Totals, cur, req.Options),
		Output:   req.Output,
	}
	if out.Output.IsZero() && len(inputs) > 0 {
		out.Output = inputs[0].Location.Sibling(DefaultOutputName)
	}
	return out
}

// Run loads the inputs, builds the comment and writes it to the output
// location, replacing any previous content.
func (g *Generator) Run(ctx context.Context, req Request) (Outcome, error) {
	ctx, span := observability.Tracer().Start(ctx, "comment.Run")
	defer span.End()

	inputs, err := g.Load(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return Outcome{}, err
	}

	out := Build(inputs, req)
	span.SetAttributes(
		attribute.String("infracost.strategy", out.Strategy),
		attribute.String("infracost.currency", out.Currency.Code),
		attribute.Float64("infracost.monthly_delta", out.Totals.Delta),
	)

	previous, err := g.store.Read(ctx, out.Output)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		previous = nil
	case err != nil:
		// The previous comment only feeds change detection.
		g.logger.Warn("previous comment unreadable", "location", out.Output.String(), "error", err)
		previous = nil
	}
	out.Change = compare.Compare(string(previous), out.Markdown, report.HeadlineStarts(), req.Options.EffectiveMarker())

	if err := g.store.Write(ctx, out.Output, []byte(out.Markdown)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return Outcome{}, fmt.Errorf("comment: write %s: %w", out.Output, err)
	}

	g.metrics.RecordReport(ctx, out.Strategy, out.Currency.Code, out.Totals.Delta)
	g.logger.Info("comment written",
		"location", out.Output.String(),
		"strategy", out.Strategy,
		"currency", out.Currency.Code,
		"past", out.Totals.Past,
		"future", out.Totals.Future,
		"delta", out.Totals.Delta,
		"change", out.Change.Status,
	)
	return out, nil
}
