// Package source provides the record sources behind jobs.Source: CSV files on
// disk, CSV objects in S3, PostgreSQL tables, and header-translating adapters
// for localized datasets.
package source

// csv.go decodes a CSV stream into records.
//
// The stream is wrapped so that a leading byte order mark is dropped and
// invalid UTF-8 becomes U+FFFD before encoding/csv sees it. Legacy exports
// can be decoded from a single-byte charset instead (see EncodingByName).

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ContextCheckInterval is how often (in rows) decoding checks for
// cancellation. Values below 1 check every row.
var ContextCheckInterval = 1000

// ErrMissingHeader is returned for a stream with no header row.
var ErrMissingHeader = errors.New("missing header row")

// EncodingByName resolves a charset name to a decoder.
// "" and "utf-8" select UTF-8 with BOM detection.
func EncodingByName(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// textReader wraps r so it yields clean UTF-8.
func textReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc != nil {
		return transform.NewReader(r, enc.NewDecoder())
	}
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// countingReader tracks bytes consumed for read diagnostics.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// decodeCSV reads a header row followed by data rows. Header cells are
// cleaned; data cells are kept verbatim. Short rows are padded with empty
// values and extra cells are ignored.
func decodeCSV(ctx context.Context, r io.Reader, enc encoding.Encoding) ([]jobs.Record, error) {
	cr := csv.NewReader(textReader(r, enc))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = CleanHeader(h)
	}

	interval := max(ContextCheckInterval, 1)
	records := make([]jobs.Record, 0)
	for line := 2; ; line++ {
		if line%interval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read cancelled at line %d: %w", line, err)
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}

		rec := make(jobs.Record, len(keys))
		for i, key := range keys {
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// CleanHeader removes common spreadsheet artifacts from a header cell:
// surrounding whitespace, an Excel formula prefix (="..."), and quotes.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
