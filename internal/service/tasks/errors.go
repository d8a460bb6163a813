package tasks

import "errors"

var (
	// ErrPartialTaskCreation возвращается, когда создана только часть задач бронирования
	ErrPartialTaskCreation = errors.New("tasks: partial task creation")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tasks: internal error")
)
