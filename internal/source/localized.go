package source

import (
	"context"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

// BrazilianHeaders maps the Portuguese column names used by Brazilian job
// exports to the canonical names.
var BrazilianHeaders = map[string]string{
	"titulo":  "title",
	"salario": "salary",
	"tipo":    "type",
}

// Localized renames record keys read from Source using Headers.
// Lookups are case-insensitive; unknown keys and all values pass through.
type Localized struct {
	Source  jobs.Source
	Headers map[string]string
}

var _ jobs.Source = Localized{}

// Brazilian wraps src with the Brazilian header translation.
func Brazilian(src jobs.Source) Localized {
	return Localized{Source: src, Headers: BrazilianHeaders}
}

// Read reads from the wrapped source and translates each record's keys.
func (l Localized) Read(ctx context.Context, path string) ([]jobs.Record, error) {
	records, err := l.Source.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]jobs.Record, len(records))
	for i, rec := range records {
		translated := make(jobs.Record, len(rec))
		for key, value := range rec {
			if to, ok := l.Headers[strings.ToLower(key)]; ok {
				key = to
			}
			translated[key] = value
		}
		out[i] = translated
	}
	return out, nil
}
