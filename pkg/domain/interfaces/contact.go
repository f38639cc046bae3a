package interfaces

import (
	"context"

	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

// ContactRepository is the append-only contact log.
//
// Implementations never update or delete rows. Uniqueness of user IDs is the
// caller's responsibility (check with ListUserIDs before Append); a sink that
// can reject duplicates at write time returns model.ErrContactExists.
type ContactRepository interface {
	// ListUserIDs returns every value of the user ID column, in sink order
	ListUserIDs(ctx context.Context) ([]string, error)

	// Append adds one record at the end of the log
	Append(ctx context.Context, record *model.ContactRecord) error
}
