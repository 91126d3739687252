package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/procuremind-backend/internal/platform/gcp"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

func TestResolveExportArchiveDisabledWithoutBucket(t *testing.T) {
	archive, err := resolveExportArchive(context.Background(), logger.Nop(), ExportConfig{})
	if err != nil {
		t.Fatalf("resolveExportArchive: %v", err)
	}
	if archive != nil {
		t.Fatalf("expected no archive")
	}
}

func TestResolveExportArchiveInvalidMode(t *testing.T) {
	_, err := resolveExportArchive(context.Background(), logger.Nop(), ExportConfig{Bucket: "b", StorageMode: "s3"})
	var got *ArchiveBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected ArchiveBootstrapError, got=%T (%v)", err, err)
	}
	if got.Code != ArchiveBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", ArchiveBootstrapErrorInvalidMode, got.Code)
	}
}

func TestResolveExportArchiveConnectFailed(t *testing.T) {
	orig := newArchive
	t.Cleanup(func() { newArchive = orig })
	newArchive = func(context.Context, gcp.ArchiveConfig, *logger.Logger) (*gcp.Archive, error) {
		return nil, errors.New("dial failed")
	}

	_, err := resolveExportArchive(context.Background(), logger.Nop(), ExportConfig{Bucket: "b"})
	if code := archiveBootstrapErrorCode(err); code != ArchiveBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", ArchiveBootstrapErrorConnectFailed, code)
	}
}

func TestClassifyArchiveBootstrapErrorEmulatorHost(t *testing.T) {
	storageCfg := gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator}
	cases := map[gcp.ObjectStorageConfigErrorCode]ArchiveBootstrapErrorCode{
		gcp.ObjectStorageConfigErrorMissingEmulatorHost: ArchiveBootstrapErrorMissingEmulatorHost,
		gcp.ObjectStorageConfigErrorInvalidEmulatorHost: ArchiveBootstrapErrorInvalidEmulatorHost,
	}
	for src, want := range cases {
		err := classifyArchiveBootstrapError(storageCfg, &gcp.ObjectStorageConfigError{Code: src})
		if got := archiveBootstrapErrorCode(err); got != want {
			t.Fatalf("%s: want=%q got=%q", src, want, got)
		}
	}
}
