package index

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/model"
)

// DefaultChunkSize is the bulk-load batch size.
const DefaultChunkSize = 100

// LoadReport summarizes a bulk load.
type LoadReport struct {
	Indexed int
	Failed  int
}

// BulkLoad indexes records in chunks. Per-document failures are logged,
// counted, and skipped; a chunk whose batch commit fails is retried
// document by document. Only a load with zero successes is an error.
func (s *Store) BulkLoad(records []model.CompanyRecord, chunkSize int) (LoadReport, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var report LoadReport
	for start := 0; start < len(records); start += chunkSize {
		end := min(start+chunkSize, len(records))
		chunk := records[start:end]

		batch := s.idx.NewBatch()
		staged := make([]model.CompanyRecord, 0, len(chunk))
		for _, rec := range chunk {
			if err := batch.Index(rec.CompanyID, indexDoc(rec)); err != nil {
				report.Failed++
				zap.L().Warn("index: skipping document",
					zap.String("company_id", rec.CompanyID),
					zap.Error(err),
				)
				continue
			}
			staged = append(staged, rec)
		}

		if err := s.idx.Batch(batch); err != nil {
			// Batch-level failure: retry the chunk one document at a
			// time so a single poison document cannot sink the rest.
			zap.L().Warn("index: batch failed, inserting individually", zap.Error(err))
			for _, rec := range staged {
				if err := s.idx.Index(rec.CompanyID, indexDoc(rec)); err != nil {
					report.Failed++
					zap.L().Warn("index: skipping document",
						zap.String("company_id", rec.CompanyID),
						zap.Error(err),
					)
					continue
				}
				if err := s.putRecord(rec); err != nil {
					report.Failed++
					zap.L().Warn("index: store record failed",
						zap.String("company_id", rec.CompanyID),
						zap.Error(err),
					)
					continue
				}
				report.Indexed++
			}
			continue
		}

		for _, rec := range staged {
			if err := s.putRecord(rec); err != nil {
				report.Failed++
				zap.L().Warn("index: store record failed",
					zap.String("company_id", rec.CompanyID),
					zap.Error(err),
				)
				continue
			}
			report.Indexed++
		}
	}

	if len(records) > 0 && report.Indexed == 0 {
		return report, eris.New("index: bulk load indexed zero documents")
	}

	zap.L().Info("index: bulk load complete",
		zap.String("name", s.name),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Store) putRecord(rec model.CompanyRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "index: marshal record")
	}
	_, err = s.db.Exec(
		`INSERT INTO records (id, record) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET record = excluded.record`,
		rec.CompanyID, string(blob),
	)
	return eris.Wrap(err, "index: store record")
}

// GetRecord fetches one persisted record by company id.
func (s *Store) GetRecord(id string) (model.CompanyRecord, error) {
	var blob string
	err := s.db.QueryRow(`SELECT record FROM records WHERE id = ?`, id).Scan(&blob)
	if err != nil {
		return model.CompanyRecord{}, eris.Wrapf(err, "index: get record %s", id)
	}
	var rec model.CompanyRecord
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return model.CompanyRecord{}, eris.Wrapf(err, "index: decode record %s", id)
	}
	return rec, nil
}
