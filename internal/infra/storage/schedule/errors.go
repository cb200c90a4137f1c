package schedule

import "errors"

var (
	// ErrHoursNotFound возвращается, когда для дня недели нет записи о часах работы
	ErrHoursNotFound = errors.New("schedule.repository: weekly hours not found")

	// ErrExceptionNotFound возвращается, когда исключение расписания не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: date exception not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
