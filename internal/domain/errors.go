package domain

import "errors"

// Виды ошибок. Ошибки usecase и сервисов оборачивают один из них,
// обработчики HTTP выбирают код ответа через errors.Is.
var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrNotFound                  = errors.New("not found")
	ErrForbidden                 = errors.New("forbidden")
	ErrConflict                  = errors.New("conflict")
	ErrInsufficientWalletBalance = errors.New("insufficient wallet balance")
	ErrDataAccess                = errors.New("data access error")
)
