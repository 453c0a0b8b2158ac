package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"acadrepo/internal/model"
)

const recentPerKind = 3

// Summarizer is the read side StatsService needs from each collection.
type Summarizer interface {
	Summary(ctx context.Context, recent int) (*model.KindSummary, error)
}

// Stats is the dashboard rollup.
type Stats struct {
	TotalProducts  int                `json:"total_products"`
	TotalNews      int                `json:"total_news"`
	TotalEnsino    int                `json:"total_ensino"`
	TotalExtensao  int                `json:"total_extensao"`
	ProductTypes   map[string]int     `json:"product_types"`
	NewsCategories map[string]int     `json:"news_categories"`
	EnsinoTypes    map[string]int     `json:"ensino_types"`
	ExtensaoTypes  map[string]int     `json:"extensao_types"`
	RecentProducts []model.RecentItem `json:"recent_products"`
	RecentNews     []model.RecentItem `json:"recent_news"`
	RecentEnsino   []model.RecentItem `json:"recent_ensino"`
	RecentExtensao []model.RecentItem `json:"recent_extensao"`
}

// StatsService defines the read-only rollup across all collections.
type StatsService interface {
	Snapshot(ctx context.Context) (*Stats, error)
}

type statsService struct {
	products, news, ensino, extensao Summarizer
}

func NewStatsService(products, news, ensino, extensao Summarizer) StatsService {
	return &statsService{products: products, news: news, ensino: ensino, extensao: extensao}
}

// Snapshot queries the four collections concurrently. No cross-collection
// consistency is attempted.
func (s *statsService) Snapshot(ctx context.Context) (*Stats, error) {
	sources := []Summarizer{s.products, s.news, s.ensino, s.extensao}
	sums := make([]*model.KindSummary, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			sum, err := src.Summary(gctx, recentPerKind)
			if err != nil {
				return err
			}
			sums[i] = normalizeSummary(sum)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translate(err, "failed to compute stats")
	}

	return &Stats{
		TotalProducts:  sums[0].Total,
		TotalNews:      sums[1].Total,
		TotalEnsino:    sums[2].Total,
		TotalExtensao:  sums[3].Total,
		ProductTypes:   sums[0].ByType,
		NewsCategories: sums[1].ByType,
		EnsinoTypes:    sums[2].ByType,
		ExtensaoTypes:  sums[3].ByType,
		RecentProducts: sums[0].Recent,
		RecentNews:     sums[1].Recent,
		RecentEnsino:   sums[2].Recent,
		RecentExtensao: sums[3].Recent,
	}, nil
}

func normalizeSummary(sum *model.KindSummary) *model.KindSummary {
	if sum == nil {
		sum = &model.KindSummary{}
	}
	if sum.ByType == nil {
		sum.ByType = map[string]int{}
	}
	if sum.Recent == nil {
		sum.Recent = []model.RecentItem{}
	}
	return sum
}
