// Package index provides the searchable store of company records: an
// embedded inverted index for querying plus a sqlite table owning the
// persisted record copies.
package index

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultIndexName is the index used unless configured otherwise.
const DefaultIndexName = "company_profiles"

// Store is the index adapter: bleve answers queries, sqlite owns the
// record copies hydrated into hits. Reads are safe for concurrent use;
// writes happen only during setup.
type Store struct {
	path string // root directory; "" means in-memory
	name string
	idx  bleve.Index
	db   *sql.DB
}

func (s *Store) indexPath() string {
	return filepath.Join(s.path, s.name+".bleve")
}

func (s *Store) dbPath() string {
	return filepath.Join(s.path, s.name+".db")
}

// Exists reports whether a persisted index of this name is present
// under path. An in-memory store (empty path) never pre-exists.
func Exists(path, name string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(path, name+".bleve"))
	return err == nil
}

// Open opens the store at path, creating an empty one when absent. An
// empty path yields a transient in-memory store (used by tests and
// one-off runs).
func Open(path, name string) (*Store, error) {
	if name == "" {
		name = DefaultIndexName
	}
	s := &Store{path: path, name: name}

	if path == "" {
		idx, err := bleve.NewMemOnly(buildMapping())
		if err != nil {
			return nil, eris.Wrap(err, "index: create in-memory index")
		}
		s.idx = idx
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, eris.Wrapf(err, "index: create dir %s", path)
		}
		idx, err := bleve.Open(s.indexPath())
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(s.indexPath(), buildMapping())
		}
		if err != nil {
			return nil, eris.Wrapf(err, "index: open %s", s.indexPath())
		}
		s.idx = idx
	}

	if err := s.openDB(); err != nil {
		_ = s.idx.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) openDB() error {
	dsn := ":memory:"
	if s.path != "" {
		dsn = s.dbPath()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return eris.Wrap(err, "index: open record store")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		record TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return eris.Wrap(err, "index: create records table")
	}
	s.db = db
	return nil
}

// CreateOrReplace drops any existing contents and recreates the index
// and record table empty. Idempotent.
func (s *Store) CreateOrReplace() error {
	if err := s.idx.Close(); err != nil {
		return eris.Wrap(err, "index: close for replace")
	}

	if s.path == "" {
		idx, err := bleve.NewMemOnly(buildMapping())
		if err != nil {
			return eris.Wrap(err, "index: recreate in-memory index")
		}
		s.idx = idx
	} else {
		if err := os.RemoveAll(s.indexPath()); err != nil {
			return eris.Wrapf(err, "index: remove %s", s.indexPath())
		}
		idx, err := bleve.New(s.indexPath(), buildMapping())
		if err != nil {
			return eris.Wrapf(err, "index: recreate %s", s.indexPath())
		}
		s.idx = idx
	}

	if _, err := s.db.Exec(`DELETE FROM records`); err != nil {
		return eris.Wrap(err, "index: clear records")
	}

	zap.L().Info("index: created", zap.String("name", s.name))
	return nil
}

// Refresh makes loaded documents searchable. The embedded index is
// consistent after every batch, so this only logs the document count
// for parity with network-attached stores.
func (s *Store) Refresh() error {
	count, err := s.Count()
	if err != nil {
		return err
	}
	zap.L().Debug("index: refreshed", zap.String("name", s.name), zap.Uint64("docs", count))
	return nil
}

// Count returns the number of indexed documents.
func (s *Store) Count() (uint64, error) {
	count, err := s.idx.DocCount()
	if err != nil {
		return 0, eris.Wrap(err, "index: doc count")
	}
	return count, nil
}

// Close releases the index and the record store.
func (s *Store) Close() error {
	idxErr := s.idx.Close()
	dbErr := s.db.Close()
	if idxErr != nil {
		return eris.Wrap(idxErr, "index: close index")
	}
	return eris.Wrap(dbErr, "index: close record store")
}
