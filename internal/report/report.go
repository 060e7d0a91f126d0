// Package report turns a consultation table into the analysis results shown
// in the dashboard, the HTTP API and the spreadsheet summary tab.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/saladlab/consult-tags/internal/analyzer"
	"github.com/saladlab/consult-tags/internal/model"
)

// Options selects the columns and the counting policy used for an analysis.
type Options struct {
	TagField    string
	EntityField string
	IDField     string
	Policy      model.CountingPolicy
	TopN        int
}

// DefaultOptions returns the column names used by the consultation sheets.
func DefaultOptions() Options {
	return Options{
		TagField:    "tags",
		EntityField: "name",
		IDField:     "id",
		Policy:      model.PerRowUnique,
		TopN:        50,
	}
}

// Analysis is the complete result for one sheet.
type Analysis struct {
	GeneratedAt        time.Time              `json:"generated_at" yaml:"generated_at"`
	TagCounts          model.FrequencyMapping `json:"tag_counts" yaml:"tag_counts"`
	Categories         model.CategoryMapping  `json:"category_counts" yaml:"category_counts"`
	Membership         model.MembershipCounts `json:"company_stats" yaml:"company_stats"`
	ID                 string                 `json:"id" yaml:"id"`
	Sheet              string                 `json:"sheet" yaml:"sheet"`
	Policy             model.CountingPolicy   `json:"counting_policy" yaml:"counting_policy"`
	Rows               int                    `json:"rows" yaml:"rows"`
	TotalConsultations int                    `json:"total_consultations" yaml:"total_consultations"`
}

// Build runs the full analysis over table.
//
// The tag and entity columns are required. The id column is optional: when
// it is absent every row counts as a consultation.
func Build(sheet string, table *model.Table, opts Options) (*Analysis, error) {
	freq, err := analyzer.Aggregate(table, opts.TagField, opts.Policy)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", sheet, err)
	}

	membership, err := analyzer.AnalyzeMembership(table, opts.TagField, opts.EntityField)
	if err != nil {
		return nil, fmt.Errorf("membership %s: %w", sheet, err)
	}

	return &Analysis{
		ID:                 ulid.Make().String(),
		Sheet:              sheet,
		GeneratedAt:        time.Now().UTC(),
		Policy:             opts.Policy,
		Rows:               table.Len(),
		TotalConsultations: CountConsultations(table, opts.IDField),
		TagCounts:          freq,
		Categories:         analyzer.Classify(freq),
		Membership:         membership,
	}, nil
}

// CountConsultations counts rows with a non-blank id. Without an id column
// every row is counted.
func CountConsultations(table *model.Table, idField string) int {
	if idField == "" || !table.HasColumn(idField) {
		return table.Len()
	}

	n := 0
	for _, row := range table.Rows() {
		if strings.TrimSpace(row.Value(idField)) != "" {
			n++
		}
	}
	return n
}

// NonEmptyCategories returns the categories that hold at least one tag, in display order.
func (a *Analysis) NonEmptyCategories() []model.Category {
	var out []model.Category
	for _, c := range model.Categories() {
		if len(a.Categories[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}
