package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда интервал пересекается с активным бронированием (EXCLUDE constraint)
	ErrSlotTaken = errors.New("booking.repository: slot is already taken")

	// ErrStatusMismatch возвращается, когда статус бронирования изменился параллельно
	ErrStatusMismatch = errors.New("booking.repository: booking status changed concurrently")

	// ErrSerialization возвращается, когда PostgreSQL откатил запрос из-за конфликта сериализации
	ErrSerialization = errors.New("booking.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
