package blob

import (
	"fmt"
	"strings"

	appcfg "github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore builds the report object store for the configured mode. In
// local mode the returned Store is nil and report bytes stay in the database
// row. Auto mode upgrades to S3 only when the full S3 config is present,
// falling back to local otherwise; forced s3 mode treats an incomplete
// config as a startup error.
func NewBlobStore(cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))

	switch mode {
	case "", appcfg.BlobModeLocal:
		logf(logger, "INFO blob: mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil
	case appcfg.BlobModeAuto:
		return autoStore(cfg.S3, logger)
	case appcfg.BlobModeS3:
		return s3Store(cfg.S3, logger)
	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func autoStore(s3cfg appcfg.S3Config, logger Logger) (Store, string, error) {
	if !s3cfg.IsConfigured() {
		logf(logger, "INFO blob.s3: %s", s3cfg.DiagnosticsSummary())
		logf(logger, "INFO blob: mode=local (auto, S3 not configured)")
		return nil, appcfg.BlobModeLocal, nil
	}

	store, err := newConfiguredS3(s3cfg, logger)
	if err != nil {
		logf(logger, "WARN blob.s3: init_failed=%q, fallback=local", err.Error())
		return nil, appcfg.BlobModeLocal, nil
	}

	logf(logger, "INFO blob: mode=s3 (auto, configured)")
	return store, appcfg.BlobModeS3, nil
}

func s3Store(s3cfg appcfg.S3Config, logger Logger) (Store, string, error) {
	if missing := s3cfg.MissingRequired(); len(missing) > 0 {
		logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
		logf(logger, "FATAL blob.s3: %s", s3cfg.DiagnosticsSummary())
		return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
	}

	store, err := newConfiguredS3(s3cfg, logger)
	if err != nil {
		logf(logger, "FATAL blob.s3: init_failed=%v", err)
		return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
	}

	logf(logger, "INFO blob: mode=s3 (forced)")
	return store, appcfg.BlobModeS3, nil
}

func newConfiguredS3(s3cfg appcfg.S3Config, logger Logger) (Store, error) {
	logf(logger, "INFO blob.s3: code=s3_ready %s", s3cfg.DiagnosticsSummary())
	return NewS3Store(s3cfg.Endpoint, s3cfg.Region, s3cfg.Bucket, s3cfg.AccessKeyID, s3cfg.SecretAccessKey)
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
