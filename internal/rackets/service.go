package rackets

import (
	"context"

	"racket-backend/internal/catalog"
	"racket-backend/internal/explain"
	"racket-backend/internal/recommend"
)

// Explainer produces the explanation for a recommendation result.
type Explainer interface {
	Run(ctx context.Context, q recommend.Query, recs []catalog.Racket) explain.Result
}

// Service composes the filter and the explanation step.
type Service struct {
	Catalog   *catalog.Catalog
	Explainer Explainer
}

// NewService constructs a Service over a loaded catalog.
func NewService(cat *catalog.Catalog, explainer Explainer) *Service {
	return &Service{Catalog: cat, Explainer: explainer}
}

// Recommend filters the catalog for q and explains the result. It cannot fail.
func (s *Service) Recommend(ctx context.Context, q recommend.Query) (Envelope, explain.Outcome) {
	recs := recommend.Recommend(q, s.Catalog.Items())
	res := s.Explainer.Run(ctx, q, recs)
	return Envelope{Recommendations: recs, Explanation: res.Text}, res.Outcome
}
