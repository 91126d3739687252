package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/procuremind-backend/internal/platform/gcp"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

var newArchive = gcp.NewArchive

type ArchiveBootstrapErrorCode string

const (
	ArchiveBootstrapErrorInvalidMode         ArchiveBootstrapErrorCode = "invalid_mode"
	ArchiveBootstrapErrorMissingEmulatorHost ArchiveBootstrapErrorCode = "missing_emulator_host"
	ArchiveBootstrapErrorInvalidEmulatorHost ArchiveBootstrapErrorCode = "invalid_emulator_host"
	ArchiveBootstrapErrorConnectFailed       ArchiveBootstrapErrorCode = "connect_failed"
)

type ArchiveBootstrapError struct {
	Code         ArchiveBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ArchiveBootstrapError) Error() string {
	if e == nil {
		return "export archive bootstrap failed"
	}
	return fmt.Sprintf(
		"export archive bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *ArchiveBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveExportArchive returns nil when no bucket is configured.
func resolveExportArchive(ctx context.Context, log *logger.Logger, cfg ExportConfig) (*gcp.Archive, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		log.Info("Export archive disabled", "reason", "EXPORT_GCS_BUCKET not set")
		return nil, nil
	}

	storageCfg, err := gcp.ResolveObjectStorageConfig(cfg.StorageMode, cfg.EmulatorHost)
	if err != nil {
		classified := classifyArchiveBootstrapError(storageCfg, err)
		log.Error(
			"Export archive selection failed",
			"mode", cfg.StorageMode,
			"emulator_host", cfg.EmulatorHost,
			"error_code", archiveBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}

	log.Info(
		"Selecting export archive",
		"bucket", bucket,
		"mode", storageCfg.Mode,
		"emulator_host", storageCfg.EmulatorHost,
	)

	archive, err := newArchive(ctx, gcp.ArchiveConfig{
		Bucket:      bucket,
		Prefix:      cfg.Prefix,
		Credentials: cfg.Credentials,
		Storage:     storageCfg,
		Timeout:     cfg.Timeout,
	}, log)
	if err != nil {
		classified := classifyArchiveBootstrapError(storageCfg, err)
		log.Error(
			"Export archive bootstrap failed",
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", archiveBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return archive, nil
}

func classifyArchiveBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	wrap := func(code ArchiveBootstrapErrorCode) error {
		return &ArchiveBootstrapError{
			Code:         code,
			Mode:         string(storageCfg.Mode),
			EmulatorHost: storageCfg.EmulatorHost,
			Cause:        err,
		}
	}
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ObjectStorageConfigErrorInvalidMode:
			return wrap(ArchiveBootstrapErrorInvalidMode)
		case gcp.ObjectStorageConfigErrorMissingEmulatorHost:
			return wrap(ArchiveBootstrapErrorMissingEmulatorHost)
		case gcp.ObjectStorageConfigErrorInvalidEmulatorHost:
			return wrap(ArchiveBootstrapErrorInvalidEmulatorHost)
		}
	}
	return wrap(ArchiveBootstrapErrorConnectFailed)
}

func archiveBootstrapErrorCode(err error) ArchiveBootstrapErrorCode {
	var bootstrapErr *ArchiveBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return ArchiveBootstrapErrorConnectFailed
}
