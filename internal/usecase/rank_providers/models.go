package rank_providers

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// Request модель запроса рейтинга провайдеров для процедуры
type Request struct {
	UserID        int64
	ProcedureSlug string
}

// Response провайдеры в исходном порядке и победители бейджей
type Response struct {
	ProcedureSlug string
	Candidates    []Candidate
	Badges        Badges
}

// Candidate провайдер с данными для отображения карточки
type Candidate struct {
	ProviderID        int64
	Name              string
	Rating            *float64
	BasePrice         *float64
	NextAvailableDate *time.Time // nil = свободных слотов нет
	NextAvailableTime *types.TimeString
}

// Badges ID провайдеров-победителей; nil = бейдж не показывается
type Badges struct {
	BestValue        *int64
	ConciergePick    *int64
	SoonestAvailable *int64
}

// Config параметры ранжирования
type Config struct {
	BandPercent        float64 // Ширина "бюджетного" кластера от цены Best Value, в процентах
	MaxParallelLookups int     // Сколько провайдеров опрашивается одновременно
}
