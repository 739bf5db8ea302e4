package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"golang.org/x/text/encoding"
)

// ErrInvalidS3Config is returned when bucket or region is missing.
var ErrInvalidS3Config = errors.New("s3: bucket and region are required")

// S3Client is the subset of the S3 API used by S3.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config contains connection settings for an S3 or S3-compatible store.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	ForcePathStyle bool   // For S3-compatible services like MinIO
}

// S3 reads CSV datasets stored as objects. The path passed to Read is the
// object key.
type S3 struct {
	Client   S3Client
	Bucket   string
	Encoding encoding.Encoding
}

var _ jobs.Source = (*S3)(nil)

// NewS3 builds an S3 source from cfg. Static credentials are used when both
// keys are set; otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidS3Config
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3{Client: client, Bucket: cfg.Bucket}, nil
}

// Read fetches the object at key and decodes it as CSV.
func (s *S3) Read(ctx context.Context, key string) ([]jobs.Record, error) {
	logger := logging.WithFields(ctx, "read_id", uuid.NewString(), "source", "s3", "bucket", s.Bucket, "key", key)

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("get s3://%s/%s: %w: %w", s.Bucket, key, jobs.ErrObjectNotFound, err)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer out.Body.Close()

	counter := &countingReader{r: out.Body}
	records, err := decodeCSV(ctx, counter, s.Encoding)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.Bucket, key, err)
	}

	logger.Debug("read finished", "records", len(records), "bytes", counter.n)
	return records, nil
}
