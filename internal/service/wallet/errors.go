package wallet

import (
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("wallet: business not found: %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не администратор
	ErrAccessDenied = fmt.Errorf("wallet: access denied: %w", domain.ErrForbidden)

	// ErrInvalidAmount возвращается при неположительной сумме пополнения
	ErrInvalidAmount = fmt.Errorf("wallet: amount must be positive: %w", domain.ErrInvalidInput)

	// ErrConcurrentUpdate возвращается, когда кошелек изменился параллельно
	ErrConcurrentUpdate = fmt.Errorf("wallet: concurrent update, retry: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("wallet: %w", domain.ErrDataAccess)
)
