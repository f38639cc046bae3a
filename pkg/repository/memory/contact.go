package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

// contactRepository mirrors the sheet sink: rows are appended in order and
// no uniqueness is enforced at write time.
type contactRepository struct {
	mu   sync.RWMutex
	rows []model.ContactRecord
}

var _ interfaces.ContactRepository = &contactRepository{}

func newContactRepository() *contactRepository {
	return &contactRepository{}
}

func (r *contactRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.rows))
	for i, row := range r.rows {
		ids[i] = row.UserID
	}
	return ids, nil
}

func (r *contactRepository) Append(ctx context.Context, record *model.ContactRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	r.rows = append(r.rows, *record)
	return nil
}

func (r *contactRepository) records() []model.ContactRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.ContactRecord, len(r.rows))
	copy(out, r.rows)
	return out
}
