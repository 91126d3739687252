package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/httpx"
)

// mapError classifies a backend failure into an apierr kind.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound("%s: not found", op)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23503":
			return apierr.Validation("%s: referenced row does not exist", op)
		case "23502", "23514", "22P02":
			return apierr.Validation("%s: %s", op, pgErr.Message)
		}
	}

	if code := httpx.StatusCode(err); code != 0 && !httpx.IsServerStatus(code) {
		if code == 404 {
			return apierr.NotFound("%s: not found", op)
		}
		return apierr.Validation("%s: rejected by store (%d)", op, code)
	}
	return apierr.StoreUnavailable(fmt.Errorf("%s: %w", op, err))
}

// isConnectError reports a failure to reach Postgres at all.
func isConnectError(err error) bool {
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
