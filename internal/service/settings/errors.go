package settings

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("settings: provider not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден или принадлежит другому провайдеру
	ErrResourceNotFound = errors.New("settings: resource not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
