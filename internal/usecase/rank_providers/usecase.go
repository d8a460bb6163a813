package rank_providers

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/ptr"
)

// UseCase use case ранжирования провайдеров процедуры
type UseCase struct {
	providerRepo ProviderRepository
	availability AvailabilityReader
	config       Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(providerRepo ProviderRepository, availability AvailabilityReader, cfg Config, logger Logger) *UseCase {
	if cfg.BandPercent < 0 {
		cfg.BandPercent = domain.DefaultConciergeBandPercent
	}
	if cfg.MaxParallelLookups <= 0 {
		cfg.MaxParallelLookups = 1
	}
	return &UseCase{
		providerRepo: providerRepo,
		availability: availability,
		config:       cfg,
		logger:       logger,
	}
}

// Execute возвращает провайдеров процедуры в исходном порядке и победителей бейджей.
// Ближайший свободный слот вычисляется по текущим слотам; если вычислить не удалось,
// используется сохранённое у провайдера значение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	slug := strings.ToLower(strings.TrimSpace(req.ProcedureSlug))
	if slug == "" {
		uc.logger.Warn("RankProviders: empty procedure slug")
		return nil, fmt.Errorf("%w: procedure slug is required", ErrInvalidInput)
	}

	uc.logger.Info("RankProviders: user=%d, procedure=%s", req.UserID, slug)

	providers, err := uc.providerRepo.ListByProcedure(ctx, slug)
	if err != nil {
		uc.logger.Error("RankProviders: failed to list providers for procedure=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	candidates := make([]Candidate, len(providers))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(uc.config.MaxParallelLookups)

	for i, p := range providers {
		i, p := i, p
		candidates[i] = Candidate{
			ProviderID:        p.ID,
			Name:              p.Name,
			Rating:            p.Rating,
			BasePrice:         p.BasePrice,
			NextAvailableDate: p.NextAvailableDate,
			NextAvailableTime: p.NextAvailableTime,
		}

		g.Go(func() error {
			next, err := uc.availability.Peek(gCtx, p.ID)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				uc.logger.Warn("RankProviders: failed to compute availability for provider=%d, using stored value: %v", p.ID, err)
				return nil
			}

			// Каждая горутина пишет только в свой элемент
			if next == nil {
				candidates[i].NextAvailableDate = nil
				candidates[i].NextAvailableTime = nil
				return nil
			}
			candidates[i].NextAvailableDate = ptr.Ptr(next.Date)
			candidates[i].NextAvailableTime = ptr.Ptr(next.Time)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("RankProviders: availability lookup aborted for procedure=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: availability lookup: %v", ErrInternal, err)
	}

	badges := ComputeBadges(toRankingCandidates(candidates), uc.config.BandPercent)

	uc.logger.Info("RankProviders: procedure=%s, %d candidates, bestValue=%v, conciergePick=%v, soonest=%v",
		slug, len(candidates), ptr.Deref(badges.BestValue, 0), ptr.Deref(badges.ConciergePick, 0),
		ptr.Deref(badges.SoonestAvailable, 0))

	return &Response{
		ProcedureSlug: slug,
		Candidates:    candidates,
		Badges:        badges,
	}, nil
}

func toRankingCandidates(candidates []Candidate) []domain.RankingCandidate {
	result := make([]domain.RankingCandidate, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, domain.RankingCandidate{
			ProviderID:        c.ProviderID,
			Name:              c.Name,
			Rating:            ptr.Deref(c.Rating, 0),
			BasePrice:         c.BasePrice,
			NextAvailableDate: c.NextAvailableDate,
		})
	}
	return result
}
