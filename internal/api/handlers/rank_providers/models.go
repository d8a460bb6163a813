package rank_providers

import (
	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	rankProviders "github.com/m04kA/SMC-ConciergeService/internal/usecase/rank_providers"
)

// Названия бейджей в ответе
const (
	BadgeBestValue        = "best_value"
	BadgeConciergePick    = "concierge_pick"
	BadgeSoonestAvailable = "soonest_available"
)

// RankingResponse HTTP response model
type RankingResponse struct {
	Procedure string         `json:"procedure"`
	Providers []ProviderCard `json:"providers"`
	Badges    BadgesResponse `json:"badges"`
}

// ProviderCard карточка провайдера со списком его бейджей
type ProviderCard struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Rating            *float64 `json:"rating,omitempty"`
	BasePrice         *float64 `json:"basePrice,omitempty"`
	NextAvailableDate *string  `json:"nextAvailableDate,omitempty"`
	NextAvailableTime *string  `json:"nextAvailableTime,omitempty"`
	Badges            []string `json:"badges"`
}

// BadgesResponse ID победителей; отсутствует, если бейдж никому не присвоен
type BadgesResponse struct {
	BestValue        *int64 `json:"bestValue,omitempty"`
	ConciergePick    *int64 `json:"conciergePick,omitempty"`
	SoonestAvailable *int64 `json:"soonestAvailable,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rankProviders.Response) *RankingResponse {
	cards := make([]ProviderCard, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		card := ProviderCard{
			ID:        c.ProviderID,
			Name:      c.Name,
			Rating:    c.Rating,
			BasePrice: c.BasePrice,
			Badges:    badgesOf(c.ProviderID, resp.Badges),
		}
		if c.NextAvailableDate != nil {
			date := c.NextAvailableDate.Format(domain.DateFormat)
			card.NextAvailableDate = &date
		}
		if c.NextAvailableTime != nil {
			label := c.NextAvailableTime.Label()
			card.NextAvailableTime = &label
		}
		cards = append(cards, card)
	}

	return &RankingResponse{
		Procedure: resp.ProcedureSlug,
		Providers: cards,
		Badges: BadgesResponse{
			BestValue:        resp.Badges.BestValue,
			ConciergePick:    resp.Badges.ConciergePick,
			SoonestAvailable: resp.Badges.SoonestAvailable,
		},
	}
}

func badgesOf(providerID int64, b rankProviders.Badges) []string {
	badges := []string{}
	if b.BestValue != nil && *b.BestValue == providerID {
		badges = append(badges, BadgeBestValue)
	}
	if b.ConciergePick != nil && *b.ConciergePick == providerID {
		badges = append(badges, BadgeConciergePick)
	}
	if b.SoonestAvailable != nil && *b.SoonestAvailable == providerID {
		badges = append(badges, BadgeSoonestAvailable)
	}
	return badges
}
