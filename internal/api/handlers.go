package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/finops-claw-gang/infracost-comment/internal/comment"
	"github.com/finops-claw-gang/infracost-comment/internal/costdoc"
	"github.com/finops-claw-gang/infracost-comment/internal/currency"
	"github.com/finops-claw-gang/infracost-comment/internal/period"
	"github.com/finops-claw-gang/infracost-comment/internal/report"
	"github.com/finops-claw-gang/infracost-comment/internal/totals"
)

// RenderRequest is the body of POST /api/v1/render. Each document is the raw
// infracost JSON output; at least one is required.
type RenderRequest struct {
	Diff         json.RawMessage `json:"diff,omitempty"`
	Base         json.RawMessage `json:"base,omitempty"`
	PR           json.RawMessage `json:"pr,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	CurrencyFlag string          `json:"currency_flag,omitempty"`
	Options      *report.Options `json:"options,omitempty"`
}

// RenderResponse is the rendered comment and the figures behind it.
type RenderResponse struct {
	Totals   totals.Totals `json:"totals"`
	Strategy string        `json:"strategy"`
	Currency currency.Info `json:"currency"`
	Periods  period.Table  `json:"periods"`
	Markdown string        `json:"markdown"`
}

// CurrencyResponse describes how a currency code is displayed.
type CurrencyResponse struct {
	currency.Info
	Known bool `json:"known"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "currency code required")
		return
	}
	writeJSON(w, http.StatusOK, CurrencyResponse{
		Info:  currency.Resolve(code).WithFlag(r.URL.Query().Get("flag")),
		Known: currency.Known(code),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var body RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	docs := []struct {
		role string
		raw  json.RawMessage
	}{
		{comment.RoleDiff, body.Diff},
		{comment.RoleBase, body.Base},
		{comment.RolePR, body.PR},
	}
	var inputs []comment.Input
	for _, d := range docs {
		if len(d.raw) == 0 || string(d.raw) == "null" {
			continue
		}
		doc, err := costdoc.Parse("request:"+d.role, d.raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, d.role+": "+err.Error())
			return
		}
		inputs = append(inputs, comment.Input{Role: d.role, Document: doc})
	}
	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one of diff, base or pr is required")
		return
	}

	opts := report.DefaultOptions()
	if body.Options != nil {
		opts = *body.Options
	}
	out := comment.Build(inputs, comment.Request{
		Currency:     body.Currency,
		CurrencyFlag: body.CurrencyFlag,
		Options:      opts,
	})

	s.opts.Metrics.RecordReport(r.Context(), out.Strategy, out.Currency.Code, out.Totals.Delta)
	slog.Info("comment rendered",
		"strategy", out.Strategy,
		"currency", out.Currency.Code,
		"delta", out.Totals.Delta,
		"repository", RepositoryFromContext(r.Context()),
	)

	writeJSON(w, http.StatusOK, RenderResponse{
		Totals:   out.Totals,
		Strategy: out.Strategy,
		Currency: out.Currency,
		Periods:  period.ProjectTotals(out.Totals),
		Markdown: out.Markdown,
	})
}
