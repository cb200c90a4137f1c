package business

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business.repository: business not found")

	// ErrInsufficientBalance возвращается, когда на кошельке не хватает средств для списания
	ErrInsufficientBalance = errors.New("business.repository: insufficient wallet balance")

	// ErrSerialization возвращается при конфликте сериализации
	ErrSerialization = errors.New("business.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("business.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("business.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("business.repository: failed to scan row")
)
