package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
)

// AppError — ошибка хранилища снапшотов или очереди обновлений с кодом,
// который транспорт переводит в HTTP-статус или текст для бота.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}

	return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.cause)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WrapError сохраняет исходную ошибку, errors.Is по ней продолжает работать.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, cause: err}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode возвращает код ближайшей AppError в цепочке.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "", false
	}

	return appErr.Code, true
}

// HasCode проверяет код ближайшей AppError.
func HasCode(err error, code failure.ErrorCode) bool {
	got, ok := GetCode(err)
	return ok && got == code
}
