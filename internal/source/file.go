package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/text/encoding"
)

// CSVFile reads CSV datasets from the local filesystem.
type CSVFile struct {
	// Root confines reads to this directory. Empty means paths are used as given.
	Root string

	// Encoding of the files; nil means UTF-8.
	Encoding encoding.Encoding
}

var _ jobs.Source = CSVFile{}

// Read opens path (relative to Root when set) and decodes every row.
func (f CSVFile) Read(ctx context.Context, path string) ([]jobs.Record, error) {
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx, "read_id", uuid.NewString(), "source", "file", "path", path)

	file, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	counter := &countingReader{r: file}
	records, err := decodeCSV(ctx, counter, f.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("read finished", "records", len(records), "bytes", counter.n)
	return records, nil
}

func (f CSVFile) resolve(path string) (string, error) {
	if f.Root == "" {
		return path, nil
	}
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%w %q: must stay inside the dataset root", jobs.ErrInvalidPath, path)
	}
	return filepath.Join(f.Root, path), nil
}
