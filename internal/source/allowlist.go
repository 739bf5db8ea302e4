package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/config"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

// AllowList limits Read to named datasets. An entry ending in "/" admits
// every path below that prefix, which suits S3 key prefixes.
type AllowList struct {
	Source jobs.Source
	Paths  []string
}

var _ jobs.Source = AllowList{}

// Read returns jobs.ErrPathNotAllowed for any path not on the list.
func (a AllowList) Read(ctx context.Context, path string) ([]jobs.Record, error) {
	if !a.Allows(path) {
		return nil, fmt.Errorf("%w: %q", jobs.ErrPathNotAllowed, path)
	}
	return a.Source.Read(ctx, path)
}

// Allows reports whether path is listed exactly or sits under a listed prefix.
func (a AllowList) Allows(path string) bool {
	for _, p := range a.Paths {
		if p == "" {
			continue
		}
		if path == p {
			return true
		}
		if strings.HasSuffix(p, "/") && len(path) > len(p) && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Restrict wraps src in an AllowList for kinds that read by name from a
// shared store. File sources are already confined to their root and are
// returned unchanged.
func Restrict(src jobs.Source, cfg config.SourceConfig) jobs.Source {
	switch strings.ToLower(cfg.Kind) {
	case config.SourceFile, "":
		return src
	}
	paths := append([]string{cfg.Path}, cfg.AllowedPaths...)
	return AllowList{Source: src, Paths: paths}
}
