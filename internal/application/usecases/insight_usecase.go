package usecases

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
	"github.com/upkook/cx-metrics/internal/infrastructure/cache"
	"golang.org/x/sync/errgroup"
)

// ContraOption is the number of times an option text was chosen
type ContraOption struct {
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

type NPSInsight struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Promoters     int64          `json:"promoters"`
	Passives      int64          `json:"passives"`
	Detractors    int64          `json:"detractors"`
	ContraOptions []ContraOption `json:"contra_options"`
}

// RateInsight is the insight of CSAT and CES surveys
type RateInsight struct {
	ID            uuid.UUID                `json:"id"`
	Name          string                   `json:"name"`
	Scale         entities.Scale           `json:"scale"`
	Rates         []repositories.RateCount `json:"rates"`
	Total         int64                    `json:"total"`
	ContraOptions []ContraOption           `json:"contra_options"`
}

var rateResponses = map[string]func() entities.SurveyResponse{
	entities.TypeCSAT: func() entities.SurveyResponse { return &entities.CSATResponse{} },
	entities.TypeCES:  func() entities.SurveyResponse { return &entities.CESResponse{} },
}

// InsightUseCase serves the cached aggregate projection of a survey
type InsightUseCase struct {
	store    *repositories.Store
	insights *cache.InsightCache
}

func NewInsightUseCase(store *repositories.Store, insights *cache.InsightCache) *InsightUseCase {
	return &InsightUseCase{store: store, insights: insights}
}

// Insights returns the projection of a survey owned by the business, recomputing it on a cache miss
func (u *InsightUseCase) Insights(ctx context.Context, businessID uint, surveyType string, id uuid.UUID) (interface{}, error) {
	repo, err := u.store.Details(surveyType)
	if err != nil {
		return nil, fmt.Errorf("survey type %s: %w", surveyType, errs.ErrNotFound)
	}
	d, err := repo.FindByBusinessAndUUID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	if projection, ok := u.insights.Get(surveyType, id); ok {
		return projection, nil
	}

	projection, err := u.compute(ctx, d)
	if err != nil {
		return nil, err
	}
	u.insights.Set(surveyType, id, projection)
	log.Printf("[CACHE] populated %s", cache.InsightKey(surveyType, id))
	return projection, nil
}

func (u *InsightUseCase) compute(ctx context.Context, d entities.SurveyDetail) (interface{}, error) {
	g, gctx := errgroup.WithContext(ctx)

	contraOptions := []ContraOption{}
	if id := d.Content().ContraID; id != nil {
		g.Go(func() error {
			texts, err := u.store.MultipleChoices().OptionTexts(gctx, *id)
			if err != nil {
				return err
			}
			for _, t := range texts {
				contraOptions = append(contraOptions, ContraOption{Text: t.Text, Count: t.Count})
			}
			return nil
		})
	}

	m := d.Model()
	switch s := d.(type) {
	case *entities.NPSSurvey:
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &NPSInsight{
			ID:            m.UUID,
			Name:          m.Name,
			Promoters:     s.Promoters,
			Passives:      s.Passives,
			Detractors:    s.Detractors,
			ContraOptions: contraOptions,
		}, nil
	}

	newResponse, ok := rateResponses[d.SurveyType()]
	scaled, isScaled := d.(entities.Scaled)
	if !ok || !isScaled {
		return nil, fmt.Errorf("no insight projection for survey type %s", d.SurveyType())
	}

	var counts []repositories.RateCount
	g.Go(func() error {
		var err error
		counts, err = u.store.Responses().RateCounts(gctx, newResponse(), m.UUID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// every rate of the scale is listed, unanswered ones with a zero count
	scale := scaled.GetScale()
	rates := make([]repositories.RateCount, scale.Max())
	for i := range rates {
		rates[i].Rate = i + 1
	}
	var total int64
	for _, c := range counts {
		if c.Rate >= 1 && c.Rate <= len(rates) {
			rates[c.Rate-1].Count = c.Count
		}
		total += c.Count
	}

	return &RateInsight{
		ID:            m.UUID,
		Name:          m.Name,
		Scale:         scale,
		Rates:         rates,
		Total:         total,
		ContraOptions: contraOptions,
	}, nil
}
