package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/solarprices/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Sweep resolves every catalog product on source with at most concurrency
// resolutions in flight. Results follow catalog order. The only error is the
// caller's context being done before every product was started.
func (s *PriceService) Sweep(ctx context.Context, source domain.SourceID, concurrency int) ([]domain.ResolvedPrice, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	products := s.catalog.Products()
	results := make([]domain.ResolvedPrice, len(products))
	start := time.Now()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, product := range products {
		i, product := i, product
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = s.Resolve(gCtx, source, product.Key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	scraped := 0
	for _, r := range results {
		if r.Method == domain.MethodScraped {
			scraped++
		}
	}
	log.Info().
		Str("source", string(source)).
		Int("products", len(results)).
		Int("scraped", scraped).
		Dur("duration", time.Since(start)).
		Msg("sweep finished")

	return results, nil
}
