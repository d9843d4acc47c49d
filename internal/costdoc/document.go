// Package costdoc wraps parsed cost-estimation JSON documents (infracost diff
// and breakdown output) and exposes their project entries as loosely-typed records.
package costdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field names shared by the diff, summary, and breakdown records.
const (
	FieldPast   = "pastTotalMonthlyCost"
	FieldFuture = "totalMonthlyCost"
	FieldDelta  = "diffTotalMonthlyCost"
)

// Sub-record keys found on a project entry or at document level.
const (
	KeyProjects      = "projects"
	KeyDiff          = "diff"
	KeySummary       = "summary"
	KeyBreakdown     = "breakdown"
	KeyPastBreakdown = "pastBreakdown"
	KeyCurrency      = "currency"
)

// Document is one parsed cost-estimation output. It is immutable once parsed.
type Document struct {
	Source string
	root   Record
}

// Parse decodes raw JSON into a Document. source is only used for diagnostics.
// Numbers are kept as json.Number so the normalizer sees their exact text.
func Parse(source string, data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("costdoc: parse %s: %w", source, err)
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("costdoc: parse %s: top-level value is %T, want object", source, v)
	}
	return &Document{Source: source, root: root}, nil
}

// New wraps an already-decoded JSON object.
func New(source string, root map[string]any) *Document {
	if root == nil {
		root = map[string]any{}
	}
	return &Document{Source: source, root: root}
}

// Root returns the document-level record.
func (d *Document) Root() Record {
	if d == nil {
		return nil
	}
	return d.root
}

// Summary returns the document-level summary record, if any.
func (d *Document) Summary() (Record, bool) {
	return d.Root().Sub(KeySummary)
}

// Currency returns the upper-cased currency code carried by the document, or "".
func (d *Document) Currency() string {
	s, _ := d.Root()[KeyCurrency].(string)
	return strings.ToUpper(strings.TrimSpace(s))
}

// Projects returns the project entries in document order. Entries that are
// not JSON objects are dropped.
func (d *Document) Projects() []Project {
	raw, ok := d.Root()[KeyProjects].([]any)
	if !ok {
		return nil
	}
	projects := make([]Project, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			name = fmt.Sprintf("project[%d]", i)
		}
		projects = append(projects, Project{Name: name, rec: m})
	}
	return projects
}

// Project is one entry of a document's project list.
type Project struct {
	Name string
	rec  Record
}

// Record returns the raw project record.
func (p Project) Record() Record { return p.rec }

// Diff returns the project's diff sub-record.
func (p Project) Diff() (Record, bool) { return p.rec.Sub(KeyDiff) }

// Summary returns the project's summary sub-record.
func (p Project) Summary() (Record, bool) { return p.rec.Sub(KeySummary) }

// Breakdown returns the project's breakdown sub-record.
func (p Project) Breakdown() (Record, bool) { return p.rec.Sub(KeyBreakdown) }

// PastBreakdown returns the project's pastBreakdown sub-record.
func (p Project) PastBreakdown() (Record, bool) { return p.rec.Sub(KeyPastBreakdown) }

// Record is a JSON object read leniently: missing or malformed values read as zero.
type Record map[string]any

// Has reports whether key is present, even if its value is null.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// HasAny reports whether any of keys is present.
func (r Record) HasAny(keys ...string) bool {
	for _, k := range keys {
		if r.Has(k) {
			return true
		}
	}
	return false
}

// Float returns Normalize(r[key]).
func (r Record) Float(key string) float64 {
	return Normalize(r[key])
}

// Sub returns the object stored under key.
func (r Record) Sub(key string) (Record, bool) {
	m, ok := r[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return m, true
}
