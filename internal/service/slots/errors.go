package slots

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("slots: provider not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден или принадлежит другому провайдеру
	ErrResourceNotFound = errors.New("slots: resource not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slots: slot not found")

	// ErrOverlap возвращается, когда слот пересекается с существующим слотом ресурса
	ErrOverlap = errors.New("slots: slot overlaps an existing slot")

	// ErrImmutableBookedSlot возвращается при попытке изменить или удалить забронированный слот
	ErrImmutableBookedSlot = errors.New("slots: booked slot cannot be modified")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
