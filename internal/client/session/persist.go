package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/flashcards/internal/dbx"
)

// StorageKey is the metadata key holding the persisted session.
const StorageKey = "flashcards.session"

// ErrCorruptSession is returned by Load when the stored entry could not be
// decoded or was only partially populated. The entry has already been
// discarded when it is returned.
var ErrCorruptSession = errors.New("persisted session is corrupt")

// Persister stores the session between runs.
type Persister interface {
	// Load returns the stored session, or an empty one if nothing is stored.
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

// SQLitePersister keeps the session as a JSON document under StorageKey in
// the metadata table.
type SQLitePersister struct {
	db *sql.DB
}

var _ Persister = (*SQLitePersister)(nil)

func NewSQLitePersister(db *sql.DB) *SQLitePersister {
	return &SQLitePersister{db: db}
}

// Load reads and validates the entry in one transaction, deleting it when it
// is unusable.
func (p *SQLitePersister) Load(ctx context.Context) (models.Session, error) {
	var (
		out     models.Session
		corrupt bool
	)

	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		e, err := repo.Get(ctx, StorageKey)
		if errors.Is(err, metadata.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var s models.Session
		if err := json.Unmarshal(e.Value, &s); err != nil || !s.Complete() {
			corrupt = true
			_, err := repo.Delete(ctx, StorageKey)
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if corrupt {
		return models.Session{}, ErrCorruptSession
	}
	return out, nil
}

// Save stores s; an empty session is the same as Clear.
func (p *SQLitePersister) Save(ctx context.Context, s models.Session) error {
	if !s.Authenticated() {
		return p.Clear(ctx)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := metadata.NewSQLiteRepository(p.db).Put(ctx, StorageKey, b); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *SQLitePersister) Clear(ctx context.Context) error {
	if _, err := metadata.NewSQLiteRepository(p.db).Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
