package settlement

import "errors"

var (
	// ErrSlotTaken возвращается, когда интервал пересекается с активным бронированием
	ErrSlotTaken = errors.New("settlement.repository: slot is already taken")

	// ErrInsufficientBalance возвращается, когда на кошельке бизнеса не хватает средств на комиссию
	ErrInsufficientBalance = errors.New("settlement.repository: insufficient wallet balance")

	// ErrStatusChanged возвращается, когда статус бронирования изменился параллельно
	ErrStatusChanged = errors.New("settlement.repository: booking status changed concurrently")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("settlement.repository: business not found")

	// ErrConcurrentUpdate возвращается, когда транзакция откатилась из-за параллельного изменения
	ErrConcurrentUpdate = errors.New("settlement.repository: concurrent update")

	// ErrInvalidAmount возвращается при неположительной сумме движения
	ErrInvalidAmount = errors.New("settlement.repository: amount must be positive")

	// ErrStorage возвращается при остальных ошибках хранилища
	ErrStorage = errors.New("settlement.repository: storage error")
)
