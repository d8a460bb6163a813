package reserve_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrSlotNotFound возвращается, когда выбранный слот не найден у провайдера
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotAlreadyTaken возвращается проигравшему в гонке за один слот
	ErrSlotAlreadyTaken = errors.New("this time was just taken, please choose another")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
