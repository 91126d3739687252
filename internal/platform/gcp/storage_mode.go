package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

// ObjectStorageMode selects where export archives are written.
type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
)

// ObjectStorageConfigError reports a storage config that cannot be used.
// Code is stable; the message names the offending env var.
type ObjectStorageConfigError struct {
	Code         ObjectStorageConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	var msg string
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		msg = fmt.Sprintf("object storage mode %q is not one of %q, %q", e.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		msg = fmt.Sprintf("object storage mode %q needs STORAGE_EMULATOR_HOST", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		msg = fmt.Sprintf("STORAGE_EMULATOR_HOST %q is not an absolute URL (e.g. http://fake-gcs:4443)", e.EmulatorHost)
	default:
		return "invalid object storage config"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfig picks the storage mode. An empty mode means the
// emulator when an emulator host is given, real GCS otherwise.
func ResolveObjectStorageConfig(rawMode, emulatorHost string) (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		Mode:         ObjectStorageMode(strings.ToLower(strings.TrimSpace(rawMode))),
		EmulatorHost: strings.TrimRight(strings.TrimSpace(emulatorHost), "/"),
	}
	if cfg.Mode == "" {
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		}
	}
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		if cerr, ok := err.(*ObjectStorageConfigError); ok && cerr.Code == ObjectStorageConfigErrorInvalidMode {
			cerr.Mode = rawMode
		}
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	fail := func(code ObjectStorageConfigErrorCode, cause error) error {
		return &ObjectStorageConfigError{Code: code, Mode: string(cfg.Mode), EmulatorHost: cfg.EmulatorHost, Cause: cause}
	}
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		return nil
	case ObjectStorageModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return fail(ObjectStorageConfigErrorMissingEmulatorHost, nil)
		}
		u, err := url.Parse(cfg.EmulatorHost)
		if err != nil {
			return fail(ObjectStorageConfigErrorInvalidEmulatorHost, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fail(ObjectStorageConfigErrorInvalidEmulatorHost, nil)
		}
		return nil
	default:
		return fail(ObjectStorageConfigErrorInvalidMode, nil)
	}
}
