// Package matcher scores index candidates against caller-supplied query
// signals and picks the best company record.
package matcher

import (
	"context"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/index"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/normalize"
)

// Evidence weights. Exact signals dominate: a domain hit alone outranks
// a perfect name match.
const (
	domainWeight   = 10.0
	phoneWeight    = 8.0
	facebookWeight = 6.0
	nameWeight     = 5.0

	exactProbeSize = 5
	nameProbeSize  = 10

	// fallbackDivisor rescales raw relevance scores into the same range
	// as the weighted evidence so thresholds stay comparable.
	fallbackDivisor = 10.0
)

// Searcher is the slice of the index the matcher needs.
type Searcher interface {
	TermQuery(ctx context.Context, field, value string, size int) ([]index.Hit, error)
	MatchQuery(ctx context.Context, field, value string, size int) ([]index.Hit, error)
	FuzzyBoolShould(ctx context.Context, fields []string, value string, size int) ([]index.Hit, error)
	FuzzyMultiMatch(ctx context.Context, fields []index.FieldBoost, value string, size int) ([]index.Hit, error)
}

// Matcher resolves queries against a company index.
type Matcher struct {
	idx Searcher
}

func New(idx Searcher) *Matcher {
	return &Matcher{idx: idx}
}

// candidate accumulates evidence for one company across probes. seq is
// the insertion order, used to break score ties in favor of the company
// surfaced first.
type candidate struct {
	record model.CompanyRecord
	score  float64
	seq    int
}

// Match runs every probe the query has a signal for, sums the evidence
// per company, and returns the top candidate. A nil result means no
// candidate matched any signal.
func (m *Matcher) Match(ctx context.Context, q model.Query) (*model.MatchResult, error) {
	if q.Empty() {
		return nil, eris.New("matcher: empty query")
	}

	candidates := map[string]*candidate{}
	add := func(rec model.CompanyRecord, points float64) {
		c, ok := candidates[rec.CompanyID]
		if !ok {
			c = &candidate{record: rec, seq: len(candidates)}
			candidates[rec.CompanyID] = c
		}
		c.score += points
	}

	if q.Website != "" {
		if domain := normalize.Domain(q.Website); domain != "" {
			hits, err := m.idx.TermQuery(ctx, "domain", domain, exactProbeSize)
			if err != nil {
				return nil, err
			}
			for _, h := range hits {
				add(h.Record, domainWeight)
			}
		}
	}

	if q.Phone != "" {
		if phone := normalize.Phone(q.Phone); phone != "" {
			hits, err := m.idx.MatchQuery(ctx, "phones_normalized", phone, exactProbeSize)
			if err != nil {
				return nil, err
			}
			for _, h := range hits {
				add(h.Record, phoneWeight)
			}
		}
	}

	if q.Facebook != "" {
		if fb := normalize.Facebook(q.Facebook); fb != "" {
			hits, err := m.idx.MatchQuery(ctx, "facebook_links_normalized", fb, exactProbeSize)
			if err != nil {
				return nil, err
			}
			for _, h := range hits {
				add(h.Record, facebookWeight)
			}
		}
	}

	if q.Name != "" {
		folded := normalize.FoldName(q.Name)
		hits, err := m.idx.FuzzyBoolShould(ctx,
			[]string{"company_commercial_name", "company_legal_name", "company_all_names"},
			folded, nameProbeSize)
		if err != nil {
			return nil, err
		}
		// Hits count as candidates even at zero similarity; registering
		// them keeps the fallback from firing on name evidence.
		for _, h := range hits {
			add(h.Record, nameSimilarity(folded, h.Record)*nameWeight)
		}
	}

	// Fallback: only when the weighted probes produced nothing at all.
	if len(candidates) == 0 {
		hits, err := m.idx.FuzzyMultiMatch(ctx, []index.FieldBoost{
			{Field: "company_commercial_name", Boost: 3},
			{Field: "company_legal_name", Boost: 2},
			{Field: "company_all_names", Boost: 1},
			{Field: "website"},
			{Field: "phones"},
			{Field: "facebook_links"},
		}, fallbackQuery(q), nameProbeSize)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			add(h.Record, h.Score/fallbackDivisor)
		}
	}

	best := bestCandidate(candidates)
	if best == nil {
		zap.L().Debug("matcher: no candidates", zap.String("name", q.Name))
		return nil, nil
	}
	return &model.MatchResult{CompanyRecord: best.record, MatchScore: best.score}, nil
}

// fallbackQuery space-joins every present query field into one string
// for the last-resort multi-match.
func fallbackQuery(q model.Query) string {
	parts := make([]string, 0, 4)
	if q.Name != "" {
		parts = append(parts, normalize.FoldName(q.Name))
	}
	if q.Website != "" {
		parts = append(parts, q.Website)
	}
	if q.Phone != "" {
		parts = append(parts, q.Phone)
	}
	if q.Facebook != "" {
		parts = append(parts, q.Facebook)
	}
	return strings.Join(parts, " ")
}

func bestCandidate(candidates map[string]*candidate) *candidate {
	var best *candidate
	for _, c := range candidates {
		if best == nil || c.score > best.score ||
			(c.score == best.score && c.seq < best.seq) {
			best = c
		}
	}
	return best
}

// nameSimilarity is the best Levenshtein similarity of the query name
// against the record's commercial and legal names, all compared in
// folded lowercase form.
func nameSimilarity(folded string, rec model.CompanyRecord) float64 {
	best := 0.0
	for _, name := range []string{rec.CommercialName, rec.LegalName} {
		if name == "" {
			continue
		}
		if sim := similarity(folded, normalize.FoldName(name)); sim > best {
			best = sim
		}
	}
	return best
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	if a == b {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(longest)
}
