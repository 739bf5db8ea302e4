package web

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/jobinsights/internal/insights"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

// Summary is the data shown on the dashboard.
type Summary struct {
	Path       string
	Industries []string
	MaxSalary  int
	MinSalary  int
}

// layout wraps body in the shared HTML shell.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title>`+
			`<style>body{font-family:sans-serif;margin:2rem}dt{font-weight:bold}.alert{color:#b00}</style>`+
			`</head><body>`, templ.EscapeString(title))
		if err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, `</body></html>`)
		return err
	})
}

func dashboardPage(sum Summary) templ.Component {
	return layout("Job insights: "+sum.Path, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		path := templ.EscapeString(sum.Path)
		if _, err := fmt.Fprintf(w, `<h1>%s</h1><dl><dt>Highest salary</dt><dd>%d</dd><dt>Lowest salary</dt><dd>%d</dd></dl>`,
			path, sum.MaxSalary, sum.MinSalary); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `<h2>Industries (%d)</h2><ul>`, len(sum.Industries)); err != nil {
			return err
		}
		for _, industry := range sum.Industries {
			q := url.Values{"path": {sum.Path}, "industry": {industry}}
			if _, err := fmt.Fprintf(w, `<li><a href="/jobs?%s">%s</a></li>`,
				templ.EscapeString(q.Encode()), templ.EscapeString(industry)); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, `</ul><form action="/jobs" method="get">`+
			`<input type="hidden" name="path" value="%s">`+
			`<label>Salary <input type="number" name="salary" required></label> `+
			`<button type="submit">Find jobs</button></form>`, path)
		return err
	}))
}

func jobsPage(resp JobsResponse) templ.Component {
	return layout("Jobs: "+resp.Path, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1><p>%d job(s)</p>`+
			`<table><thead><tr><th>Title</th><th>Industry</th><th>Min</th><th>Max</th></tr></thead><tbody>`,
			templ.EscapeString(resp.Path), resp.Count); err != nil {
			return err
		}
		for _, job := range resp.Jobs {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(job["title"]),
				templ.EscapeString(job.Industry()),
				templ.EscapeString(job[jobs.FieldMinSalary]),
				templ.EscapeString(job[jobs.FieldMaxSalary])); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody></table>`); err != nil {
			return err
		}

		if len(resp.Skipped) == 0 {
			return nil
		}
		if _, err := fmt.Fprintf(w, `<h2>Skipped (%d)</h2><ul>`, len(resp.Skipped)); err != nil {
			return err
		}
		for _, sk := range resp.Skipped {
			if _, err := fmt.Fprintf(w, `<li>#%d: %s</li>`, sk.Index, templ.EscapeString(sk.Error)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	}))
}

func errorPage(msg insights.UserMessage) templ.Component {
	return layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert" role="alert"><p>%s</p><p>%s</p><small>%s</small></div>`,
			templ.EscapeString(msg.Message), templ.EscapeString(msg.Action), templ.EscapeString(msg.Code))
		return err
	}))
}
