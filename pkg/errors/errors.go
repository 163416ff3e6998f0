package errors

import "fmt"

var (
	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Сущности. Оборачивают ErrNotFound, чтобы HTTP-слой одинаково
	// отдавал 404 по errors.Is.
	ErrTeamNotFound       = fmt.Errorf("команда: %w", ErrNotFound)
	ErrEquipmentNotFound  = fmt.Errorf("оборудование: %w", ErrNotFound)
	ErrRequestNotFound    = fmt.Errorf("заявка: %w", ErrNotFound)
	ErrTechnicianNotFound = fmt.Errorf("техник: %w", ErrNotFound)

	// Статусы
	ErrUnknownRequestStatus = fmt.Errorf("недопустимый статус заявки")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// TransientError помечает сбой транспорта персистентности (таймаут,
// недоступность БД). Такую операцию можно повторить с тем же
// идемпотентным ключом.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("временный сбой хранилища: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func NewTransientError(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}
