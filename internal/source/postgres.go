package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads datasets from tables. The path passed to Read is a table
// name, optionally schema-qualified ("public.jobs"). Every column becomes a
// record key and SQL NULL becomes the empty string.
type Postgres struct {
	DB Querier
}

var _ jobs.Source = Postgres{}

// OpenPool connects to PostgreSQL and verifies the connection.
func OpenPool(ctx context.Context, url string, maxConns int) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Read selects every row of the table named by path.
func (p Postgres) Read(ctx context.Context, path string) ([]jobs.Record, error) {
	table, err := tableIdentifier(path)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx, "read_id", uuid.NewString(), "source", "postgres", "table", path)

	rows, err := p.DB.Query(ctx, "SELECT * FROM "+table.Sanitize())
	if err != nil {
		return nil, queryError(path, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	records := make([]jobs.Record, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}

		rec := make(jobs.Record, len(fields))
		for i, fd := range fields {
			if i < len(values) {
				rec[fd.Name] = textValue(values[i])
			} else {
				rec[fd.Name] = ""
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(path, err)
	}

	logger.Debug("read finished", "records", len(records))
	return records, nil
}

// queryError marks a missing relation with jobs.ErrTableNotFound.
func queryError(path string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("query %s: %w: %w", path, jobs.ErrTableNotFound, err)
	}
	return fmt.Errorf("query %s: %w", path, err)
}

func tableIdentifier(path string) (pgx.Identifier, error) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w %q: expected table or schema.table", jobs.ErrInvalidPath, path)
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w %q: empty identifier", jobs.ErrInvalidPath, path)
		}
	}
	return pgx.Identifier(parts), nil
}

// textValue renders a decoded column value the way it would appear in a CSV
// export.
func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		dv, err := val.Value()
		if err != nil || dv == nil {
			return ""
		}
		return fmt.Sprint(dv)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
