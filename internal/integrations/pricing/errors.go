package pricing

import "errors"

var (
	// ErrUnknownProcedure возвращается, когда процедуры нет в прайс-листе.
	// Это предупреждение: бронирование продолжается с пустыми ценами.
	ErrUnknownProcedure = errors.New("pricing: unknown procedure")
)
