package reserve_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	slotRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ConciergeService/internal/integrations/pricing"
	"github.com/m04kA/SMC-ConciergeService/pkg/metrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// UseCase use case бронирования процедуры
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	providerRepo ProviderRepository
	prices       PriceTable
	settings     SettingsProvider
	tasks        TaskCreator
	availability AvailabilityNotifier
	txManager    TransactionManager
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	providerRepo ProviderRepository,
	prices PriceTable,
	settings SettingsProvider,
	tasks TaskCreator,
	availability AvailabilityNotifier,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		providerRepo: providerRepo,
		prices:       prices,
		settings:     settings,
		tasks:        tasks,
		availability: availability,
		txManager:    txManager,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// reservation результат транзакционной части
type reservation struct {
	booking     *domain.Booking
	bookedStart *time.Time
	bookedEnd   *time.Time
}

// Execute выполняет бронирование.
// Бронирование и перевод слота в booked выполняются в одной сериализуемой транзакции:
// проигравший гонку получает ErrSlotAlreadyTaken, его бронирование откатывается.
// Задачи создаются после коммита и не влияют на успех бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveBooking: user=%d, provider=%d, procedure=%s, date=%s, slot=%v",
		req.UserID, req.ProviderID, req.ProcedureSlug, req.PreferredDate.Format(domain.DateFormat), req.SlotID)
	state := StateSelecting

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, uc.fail(state, err)
	}

	now := uc.timeProvider.Now()

	// 2. Провайдер (часовой пояс для даты и времени)
	provider, err := uc.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("ReserveBooking: provider id=%d not found", req.ProviderID)
			return nil, uc.fail(state, ErrProviderNotFound)
		}
		uc.logger.Error("ReserveBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, uc.fail(state, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err))
	}
	loc := provider.Location()

	if err := validateDate(req.PreferredDate, now, loc); err != nil {
		uc.logger.Warn("ReserveBooking: %v", err)
		return nil, uc.fail(state, err)
	}

	// 3. Цены из прайс-листа; неизвестная процедура не мешает бронированию
	booking := uc.newBooking(req, provider)

	// 4. Сериализуемая транзакция: бронирование + compare-and-set слота
	state = StateReserving
	uc.logger.Info("ReserveBooking: %s -> %s for user=%d", StateSelecting, state, req.UserID)

	var result *reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Повтор транзакции начинается с чистой копии
		attempt := *booking
		r, err := uc.reserve(txCtx, req, &attempt, loc, now)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, uc.fail(state, uc.translate(err))
	}

	created := result.booking
	uc.metrics.IncReservation(metrics.ResultSuccess)

	// 5. Задачи после коммита (best effort, недостающие досоздаст reconcile-tasks)
	tasksCreated, err := uc.tasks.CreateForBooking(ctx, created, now)
	if err != nil {
		uc.logger.Warn("ReserveBooking: booking id=%d stands, %d of 2 tasks created: %v", created.ID, tasksCreated, err)
	}

	// 6. Слот израсходован - пересчитываем ближайший свободный
	if created.HasSlot() {
		uc.availability.SlotsChanged(ctx, created.ProviderID)
	}

	state = StateSucceeded
	uc.logger.Info("ReserveBooking: %s -> %s, booking id=%d for user=%d", StateReserving, state, created.ID, req.UserID)

	return &Response{
		State:        state,
		BookingID:    created.ID,
		UserID:       created.UserID,
		ProviderID:   created.ProviderID,
		Status:       string(created.Status),
		SlotID:       created.SlotID,
		BookedStart:  result.bookedStart,
		BookedEnd:    result.bookedEnd,
		MarketPrice:  created.MarketPrice,
		OfferedPrice: created.OfferedPrice,
		TasksCreated: tasksCreated,
		CreatedAt:    created.CreatedAt,
	}, nil
}

// reserve выполняется внутри транзакции
func (uc *UseCase) reserve(
	ctx context.Context,
	req *Request,
	booking *domain.Booking,
	loc *time.Location,
	now time.Time,
) (*reservation, error) {
	if req.SlotID == nil {
		created, err := uc.bookingRepo.Create(ctx, booking)
		if err != nil {
			return nil, fmt.Errorf("create booking: %w", err)
		}
		return &reservation{booking: created}, nil
	}

	// Слот читается с блокировкой строки до конца транзакции
	slot, err := uc.slotRepo.GetByID(ctx, *req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.ProviderID != req.ProviderID {
		return nil, ErrSlotNotFound
	}
	if slot.Kind != domain.SlotAvailable {
		return nil, ErrSlotAlreadyTaken
	}

	start := slot.StartAt
	if req.PreferredTime != nil {
		start = req.PreferredTime.On(req.PreferredDate, loc)
	}
	if start.Before(now) {
		return nil, fmt.Errorf("%w: chosen time has already passed", ErrInvalidDate)
	}

	resolver, err := uc.settings.Resolver(ctx, slot.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	increment := time.Duration(resolver.For(slot.ResourceID).OfferIncrementMinutes) * time.Minute

	split, ok := domain.SplitForReservation(*slot, start, increment)
	if !ok {
		return nil, fmt.Errorf("%w: chosen time %s is not offered by slot id=%d",
			ErrInvalidInput, start.In(loc).Format(time.RFC3339), slot.ID)
	}

	// Дата и время бронирования совпадают с забронированным отрезком
	local := split.BookedStart.In(loc)
	y, m, d := local.Date()
	bookedTime := types.NewTimeString(local)
	booking.PreferredDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	booking.PreferredTime = &bookedTime
	booking.SlotID = &slot.ID

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := uc.slotRepo.MarkBooked(ctx, slot.ID, created.ID, split.BookedStart, split.BookedEnd); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
			return nil, ErrSlotAlreadyTaken
		}
		return nil, fmt.Errorf("mark slot booked: %w", err)
	}

	for _, rest := range split.Remainders {
		piece := rest
		if _, err := uc.slotRepo.Create(ctx, &piece); err != nil {
			return nil, fmt.Errorf("re-create remainder %s - %s: %w",
				piece.StartAt.Format(time.RFC3339), piece.EndAt.Format(time.RFC3339), err)
		}
	}

	uc.logger.Info("ReserveBooking: slot id=%d booked %s - %s for booking id=%d, %d remainders",
		slot.ID, split.BookedStart.Format(time.RFC3339), split.BookedEnd.Format(time.RFC3339),
		created.ID, len(split.Remainders))

	return &reservation{
		booking:     created,
		bookedStart: &split.BookedStart,
		bookedEnd:   &split.BookedEnd,
	}, nil
}

// newBooking строит бронирование со статусом pending и ценами из прайс-листа
func (uc *UseCase) newBooking(req *Request, provider *domain.Provider) *domain.Booking {
	slug := strings.ToLower(strings.TrimSpace(req.ProcedureSlug))
	name := strings.TrimSpace(req.ProcedureName)

	booking := &domain.Booking{
		UserID:              req.UserID,
		ProviderID:          provider.ID,
		ProcedureSlug:       slug,
		PreferredDate:       calendarDate(req.PreferredDate),
		PreferredTime:       req.PreferredTime,
		WantsVirtualConsult: req.WantsVirtualConsult,
		ConsultTime:         req.ConsultTime,
		InvestmentLevel:     req.InvestmentLevel,
		Status:              domain.StatusPending,
	}
	if req.ConsultDate != nil {
		d := calendarDate(*req.ConsultDate)
		booking.ConsultDate = &d
	}

	procedure, err := uc.prices.Lookup(slug)
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownProcedure) {
			uc.metrics.IncUnknownPricing()
			uc.logger.Warn("ReserveBooking: procedure %q is not in the price table, booking without prices", slug)
		} else {
			uc.logger.Error("ReserveBooking: price lookup failed for %q: %v", slug, err)
		}
	} else {
		booking.MarketPrice = procedure.MarketPrice
		booking.OfferedPrice = procedure.OfferedPrice
		if name == "" {
			name = procedure.Name
		}
	}

	if name == "" {
		name = slug
	}
	booking.ProcedureName = name

	if booking.MarketPrice != nil && booking.OfferedPrice != nil && *booking.OfferedPrice > *booking.MarketPrice {
		uc.logger.Warn("ReserveBooking: offered price %.2f exceeds market price %.2f for %q",
			*booking.OfferedPrice, *booking.MarketPrice, slug)
	}

	return booking
}

// translate приводит ошибки транзакции к ошибкам usecase
func (uc *UseCase) translate(err error) error {
	switch {
	case errors.Is(err, ErrSlotAlreadyTaken):
		uc.logger.Warn("ReserveBooking: slot already taken: %v", err)
		return ErrSlotAlreadyTaken
	case errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidDate):
		uc.logger.Warn("ReserveBooking: %v", err)
		return err
	default:
		uc.logger.Error("ReserveBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// fail фиксирует переход в Failed и метрику результата
func (uc *UseCase) fail(from State, err error) error {
	switch {
	case errors.Is(err, ErrSlotAlreadyTaken):
		uc.metrics.IncReservation(metrics.ResultConflict)
	case errors.Is(err, ErrInternal):
		uc.metrics.IncReservation(metrics.ResultError)
	default:
		uc.metrics.IncReservation(metrics.ResultRejected)
	}
	uc.logger.Info("ReserveBooking: %s -> %s", from, StateFailed)
	return err
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
