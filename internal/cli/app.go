// Package cli implements the jobinsights command-line operations. Commands in
// cmd/jobinsights parse flags and delegate here.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/JonMunkholm/jobinsights/internal/config"
	"github.com/JonMunkholm/jobinsights/internal/insights"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/source"
)

// Params are the source settings shared by every command.
type Params struct {
	Source config.SourceConfig
	JSON   bool
}

// App holds the resolved source and output stream.
type App struct {
	Params *Params
	Out    io.Writer

	// Source is resolved from Params by Init when nil.
	Source jobs.Source
	close  func()
}

// New returns an App writing to stdout.
func New() *App {
	return &App{Params: &Params{}, Out: os.Stdout}
}

// Init validates the source settings and opens the source unless one is
// already set.
func (a *App) Init(ctx context.Context) error {
	if a.Source != nil {
		return nil
	}
	if err := a.Params.Source.Validate(); err != nil {
		return err
	}
	src, closeFn, err := source.Open(ctx, a.Params.Source)
	if err != nil {
		return err
	}
	a.Source, a.close = src, closeFn
	return nil
}

// Close releases the source.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// path falls back to the configured dataset.
func (a *App) path(p string) string {
	if p != "" {
		return p
	}
	return a.Params.Source.Path
}

// Industries prints the sorted unique industries, one per line.
func (a *App) Industries(ctx context.Context, path string) error {
	industries, err := insights.UniqueIndustries(ctx, a.Source, a.path(path))
	if err != nil {
		return err
	}
	if a.Params.JSON {
		return a.writeJSON(industries)
	}
	for _, industry := range industries {
		fmt.Fprintln(a.Out, industry)
	}
	return nil
}

// MaxSalary prints the highest max_salary.
func (a *App) MaxSalary(ctx context.Context, path string) error {
	v, err := insights.MaxSalary(ctx, a.Source, a.path(path))
	if err != nil {
		return err
	}
	return a.writeNumber("max_salary", v)
}

// MinSalary prints the lowest min_salary.
func (a *App) MinSalary(ctx context.Context, path string) error {
	v, err := insights.MinSalary(ctx, a.Source, a.path(path))
	if err != nil {
		return err
	}
	return a.writeNumber("min_salary", v)
}

// FilterOptions narrow the records printed by Filter. Empty strings disable
// the corresponding filter.
type FilterOptions struct {
	Industry string
	Salary   string
}

// Filter prints the records matching opts. Records skipped by the salary
// filter are reported on the same stream after the matches.
func (a *App) Filter(ctx context.Context, path string, opts FilterOptions) error {
	path = a.path(path)

	var salary int
	if opts.Salary != "" {
		var err error
		if salary, err = insights.ParseSalary(opts.Salary); err != nil {
			return err
		}
	}

	records, err := a.Source.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if opts.Industry != "" {
		records = insights.FilterByIndustry(records, opts.Industry)
	}

	var skipped []insights.SkippedRecord
	if opts.Salary != "" {
		result := insights.FilterBySalaryRange(ctx, records, salary)
		records, skipped = result.Matches, result.Skipped
	}

	if a.Params.JSON {
		out := struct {
			Jobs    []jobs.Record `json:"jobs"`
			Skipped []skippedJSON `json:"skipped"`
		}{Jobs: records, Skipped: make([]skippedJSON, 0, len(skipped))}
		for _, sk := range skipped {
			out.Skipped = append(out.Skipped, skippedJSON{Index: sk.Index, Error: sk.Err.Error()})
		}
		return a.writeJSON(out)
	}

	w := tabwriter.NewWriter(a.Out, 1, 1, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tINDUSTRY\tMIN SALARY\tMAX SALARY")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.Get("title"), r.Industry(), r.Get(jobs.FieldMinSalary), r.Get(jobs.FieldMaxSalary))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(skipped) > 0 {
		fmt.Fprintf(a.Out, "\n%d record(s) skipped:\n", len(skipped))
		for _, sk := range skipped {
			fmt.Fprintf(a.Out, "  #%d: %v\n", sk.Index, sk.Err)
		}
	}
	return nil
}

type skippedJSON struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

func (a *App) writeNumber(key string, v int) error {
	if a.Params.JSON {
		return a.writeJSON(map[string]int{key: v})
	}
	_, err := fmt.Fprintln(a.Out, v)
	return err
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
