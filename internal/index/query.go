package index

import (
	"context"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/model"
)

// Hit is one scored search result, hydrated with its persisted record.
type Hit struct {
	ID     string
	Score  float64
	Record model.CompanyRecord
}

// FieldBoost pairs a field with its relative weight in a multi-field
// query.
type FieldBoost struct {
	Field string
	Boost float64
}

// TermQuery runs an exact match over a non-analyzed key field.
func (s *Store) TermQuery(ctx context.Context, field, value string, size int) ([]Hit, error) {
	q := bleve.NewTermQuery(value)
	q.SetField(field)
	return s.search(ctx, q, size)
}

// MatchQuery runs an analyzed match over a single field. On keyword
// fields the analysis yields a single token, making this an exact
// comparison with relevance scoring.
func (s *Store) MatchQuery(ctx context.Context, field, value string, size int) ([]Hit, error) {
	q := bleve.NewMatchQuery(value)
	q.SetField(field)
	return s.search(ctx, q, size)
}

// FuzzyBoolShould runs a disjunction of per-field fuzzy matches with
// automatic edit-distance tolerance; a document matching any field
// qualifies.
func (s *Store) FuzzyBoolShould(ctx context.Context, fields []string, value string, size int) ([]Hit, error) {
	sub := make([]query.Query, 0, len(fields))
	for _, field := range fields {
		q := bleve.NewMatchQuery(value)
		q.SetField(field)
		q.SetAutoFuzziness(true)
		sub = append(sub, q)
	}
	return s.search(ctx, bleve.NewDisjunctionQuery(sub...), size)
}

// FuzzyMultiMatch runs a boosted fuzzy match across multiple fields,
// taking the best field score per document.
func (s *Store) FuzzyMultiMatch(ctx context.Context, fields []FieldBoost, value string, size int) ([]Hit, error) {
	sub := make([]query.Query, 0, len(fields))
	for _, fb := range fields {
		q := bleve.NewMatchQuery(value)
		q.SetField(fb.Field)
		q.SetAutoFuzziness(true)
		if fb.Boost > 0 {
			q.SetBoost(fb.Boost)
		}
		sub = append(sub, q)
	}
	return s.search(ctx, bleve.NewDisjunctionQuery(sub...), size)
}

func (s *Store) search(ctx context.Context, q query.Query, size int) ([]Hit, error) {
	if size <= 0 {
		size = 10
	}
	req := bleve.NewSearchRequestOptions(q, size, 0, false)

	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "index: search")
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		rec, err := s.GetRecord(h.ID)
		if err != nil {
			// Indexed but not persisted: skip rather than fail the query.
			zap.L().Warn("index: hit without stored record",
				zap.String("company_id", h.ID),
				zap.Error(err),
			)
			continue
		}
		hits = append(hits, Hit{ID: h.ID, Score: h.Score, Record: rec})
	}
	return hits, nil
}
