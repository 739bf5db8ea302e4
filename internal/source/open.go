package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/jobinsights/internal/config"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
)

// Open builds the source selected by cfg.Kind. The returned close function
// releases any held connections and is never nil.
func Open(ctx context.Context, cfg config.SourceConfig) (jobs.Source, func(), error) {
	noop := func() {}

	enc, err := EncodingByName(cfg.Encoding)
	if err != nil {
		return nil, noop, err
	}

	var src jobs.Source
	closeFn := noop

	switch strings.ToLower(cfg.Kind) {
	case config.SourceFile, "":
		src = CSVFile{Root: cfg.Root, Encoding: enc}

	case config.SourcePostgres:
		pool, err := OpenPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, noop, err
		}
		src = Postgres{DB: pool}
		closeFn = pool.Close

	case config.SourceS3:
		s, err := NewS3(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
		if err != nil {
			return nil, noop, err
		}
		s.Encoding = enc
		src = s

	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}

	if strings.EqualFold(cfg.Locale, "br") {
		src = Brazilian(src)
	}

	return src, closeFn, nil
}
