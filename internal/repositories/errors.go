package repositories

import (
	"context"
	"errors"

	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// classifyDBError переводит ошибки драйвера в доменную таксономию:
// отсутствие строки - NotFound, таймаут или обрыв соединения -
// TransientError (можно ретраить), остальное уходит как есть.
func classifyDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return apperrors.NewTransientError(err)
	}
	var pgErr *pgconn.ConnectError
	if errors.As(err, &pgErr) {
		return apperrors.NewTransientError(err)
	}
	return err
}
