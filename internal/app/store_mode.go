package app

import (
	"fmt"
	"net/url"
	"strings"
)

type StoreMode string

const (
	StoreModeGorm StoreMode = "gorm"
	StoreModeREST StoreMode = "rest"
)

type StoreConfigErrorCode string

const (
	StoreConfigErrorInvalidMode    StoreConfigErrorCode = "invalid_mode"
	StoreConfigErrorInvalidDSN     StoreConfigErrorCode = "invalid_database_url"
	StoreConfigErrorMissingRESTURL StoreConfigErrorCode = "missing_rest_url"
	StoreConfigErrorInvalidRESTURL StoreConfigErrorCode = "invalid_rest_url"
	StoreConfigErrorMissingRESTKey StoreConfigErrorCode = "missing_rest_key"
)

type StoreConfigError struct {
	Code  StoreConfigErrorCode
	Mode  string
	Cause error
}

func (e *StoreConfigError) Error() string {
	if e == nil {
		return "invalid catalog store config"
	}
	return fmt.Sprintf("invalid catalog store config (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StoreConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveStoreMode picks the catalog backend. The mode is fixed for the life
// of the process; only the gorm DSN may change at runtime.
func resolveStoreMode(cfg StoreConfig) (StoreMode, error) {
	mode := StoreMode(strings.ToLower(strings.TrimSpace(cfg.Mode)))
	if mode == "" {
		mode = StoreModeGorm
	}
	switch mode {
	case StoreModeGorm:
		if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" && !strings.HasPrefix(dsn, "postgres") {
			return "", &StoreConfigError{
				Code:  StoreConfigErrorInvalidDSN,
				Mode:  string(mode),
				Cause: fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://"),
			}
		}
		return mode, nil
	case StoreModeREST:
		raw := strings.TrimSpace(cfg.RESTURL)
		if raw == "" {
			return "", &StoreConfigError{Code: StoreConfigErrorMissingRESTURL, Mode: string(mode), Cause: fmt.Errorf("SUPABASE_URL is required")}
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			if err == nil {
				err = fmt.Errorf("SUPABASE_URL %q is not an absolute url", raw)
			}
			return "", &StoreConfigError{Code: StoreConfigErrorInvalidRESTURL, Mode: string(mode), Cause: err}
		}
		if strings.TrimSpace(cfg.RESTKey) == "" {
			return "", &StoreConfigError{Code: StoreConfigErrorMissingRESTKey, Mode: string(mode), Cause: fmt.Errorf("SUPABASE_KEY is required")}
		}
		return mode, nil
	default:
		return "", &StoreConfigError{
			Code:  StoreConfigErrorInvalidMode,
			Mode:  string(mode),
			Cause: fmt.Errorf("unsupported store mode %q", mode),
		}
	}
}
