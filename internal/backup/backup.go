// Package backup ships consistent copies of the SQLite database to
// S3-compatible object storage.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/config"
	"github.com/ndewijer/stock-ledger-backend/internal/database"
)

// keyTimeLayout keeps object keys sortable and free of ':'.
const keyTimeLayout = "20060102T150405Z"

// Uploader puts one object into a bucket. *manager.Uploader satisfies it.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Service copies the database with VACUUM INTO into a staging file and
// uploads that file.
type Service struct {
	db         *sql.DB
	uploader   Uploader
	bucket     string
	prefix     string
	stagingDir string
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new backup Service.
func NewService(db *sql.DB, uploader Uploader, cfg config.BackupConfig, log zerolog.Logger) *Service {
	stagingDir := cfg.StagingDir
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	return &Service{
		db:         db,
		uploader:   uploader,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		stagingDir: stagingDir,
		log:        log.With().Str("service", "backup").Logger(),
		now:        time.Now,
	}
}

// NewS3Uploader builds an uploader from cfg. Static credentials are used when
// an access key is configured, the default AWS chain otherwise. A custom
// endpoint (MinIO, R2, ...) switches to path-style addressing.
func NewS3Uploader(ctx context.Context, cfg config.BackupConfig) (*manager.Uploader, error) {
	if !cfg.Enabled() {
		return nil, apperrors.ErrBackupNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return manager.NewUploader(client), nil
}

// ObjectKey names the backup taken at t.
func ObjectKey(prefix string, t time.Time) string {
	name := fmt.Sprintf("stock-ledger-%s.db", t.UTC().Format(keyTimeLayout))
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Run takes a backup and returns its s3:// location. The staging file is
// removed whether or not the upload succeeds.
func (s *Service) Run(ctx context.Context) (string, error) {
	if s.uploader == nil || s.bucket == "" {
		return "", apperrors.ErrBackupNotConfigured
	}

	key := ObjectKey(s.prefix, s.now())
	staging := filepath.Join(s.stagingDir, path.Base(key))

	if err := database.BackupTo(ctx, s.db, staging); err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(staging); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("file", staging).Msg("failed to remove staging file")
		}
	}()

	f, err := os.Open(staging)
	if err != nil {
		return "", fmt.Errorf("failed to open staging file: %w", err)
	}
	defer f.Close()

	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/vnd.sqlite3"),
	}); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.log.Debug().Str("location", location).Msg("backup uploaded")
	return location, nil
}
