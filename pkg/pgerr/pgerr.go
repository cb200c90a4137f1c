package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые сервис обрабатывает отдельно
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeExclusionViolation   = "23P01"
	CodeCheckViolation       = "23514"
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
)

// Code возвращает SQLSTATE ошибки драйвера или пустую строку
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// Constraint возвращает имя нарушенного ограничения
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// IsSerializationFailure транзакция не может быть сериализована и должна быть повторена
func IsSerializationFailure(err error) bool {
	code := Code(err)
	return code == CodeSerializationFailure || code == CodeDeadlockDetected
}

// IsExclusionViolation нарушение EXCLUDE ограничения (пересечение интервалов)
func IsExclusionViolation(err error) bool {
	return Code(err) == CodeExclusionViolation
}

// IsCheckViolation нарушение CHECK ограничения с указанным именем.
// Пустое имя совпадает с любым ограничением.
func IsCheckViolation(err error, constraint string) bool {
	if Code(err) != CodeCheckViolation {
		return false
	}
	return constraint == "" || Constraint(err) == constraint
}

// IsForeignKeyViolation нарушение внешнего ключа
func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}
