package rank_providers

import (
	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// ComputeBadges выбирает по одному победителю на каждый бейдж.
// Бейджи вычисляются независимо, один провайдер может получить несколько.
// При равенстве побеждает кандидат, встретившийся первым.
func ComputeBadges(candidates []domain.RankingCandidate, bandPercent float64) Badges {
	var badges Badges

	best := bestValue(candidates)
	if best != nil {
		badges.BestValue = &best.ProviderID
	}

	if pick := conciergePick(candidates, best, bandPercent); pick != nil {
		badges.ConciergePick = &pick.ProviderID
	}

	if soonest := soonestAvailable(candidates); soonest != nil {
		badges.SoonestAvailable = &soonest.ProviderID
	}

	return badges
}

// bestValue минимальная известная цена; кандидаты без цены не участвуют
func bestValue(candidates []domain.RankingCandidate) *domain.RankingCandidate {
	var best *domain.RankingCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.BasePrice == nil {
			continue
		}
		if best == nil || *c.BasePrice < *best.BasePrice {
			best = c
		}
	}
	return best
}

// conciergePick лучший рейтинг среди цен в пределах bandPercent от Best Value.
// Без цен совпадает с Best Value (то есть тоже nil).
func conciergePick(candidates []domain.RankingCandidate, best *domain.RankingCandidate, bandPercent float64) *domain.RankingCandidate {
	if best == nil {
		return nil
	}

	ceiling := *best.BasePrice * (1 + bandPercent/100)

	var pick *domain.RankingCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.BasePrice == nil || *c.BasePrice > ceiling {
			continue
		}
		if pick == nil || c.Rating > pick.Rating {
			pick = c
		}
	}

	if pick == nil {
		return best
	}
	return pick
}

// soonestAvailable самая ранняя дата; кандидаты без даты не участвуют
func soonestAvailable(candidates []domain.RankingCandidate) *domain.RankingCandidate {
	var soonest *domain.RankingCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.NextAvailableDate == nil {
			continue
		}
		if soonest == nil || c.NextAvailableDate.Before(*soonest.NextAvailableDate) {
			soonest = c
		}
	}
	return soonest
}
