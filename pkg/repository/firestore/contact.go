package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const contactsCollection = "contacts"

// contactRepository keeps one document per user ID. Append uses Create, so a
// second write for the same user is rejected by Firestore itself.
type contactRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ContactRepository = &contactRepository{}

func newContactRepository(client *firestore.Client) *contactRepository {
	return &contactRepository{
		client: client,
	}
}

// contactDoc is the Firestore persistence model
type contactDoc struct {
	DisplayName string    `firestore:"display_name"`
	RecordedAt  time.Time `firestore:"recorded_at"`
	MessageText string    `firestore:"message_text"`
	UserID      string    `firestore:"user_id"`
	Email       string    `firestore:"email"`
}

func (r *contactRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + contactsCollection)
	}
	return r.client.Collection(contactsCollection)
}

func (r *contactRepository) toDoc(record *model.ContactRecord) *contactDoc {
	return &contactDoc{
		DisplayName: record.DisplayName,
		RecordedAt:  record.RecordedAt,
		MessageText: record.MessageText,
		UserID:      record.UserID,
		Email:       record.Email,
	}
}

// ListUserIDs returns recorded user IDs ordered by recorded_at
func (r *contactRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	iter := r.collection().OrderBy("recorded_at", firestore.Asc).Select("user_id").Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate contacts")
		}
		ids = append(ids, doc.Ref.ID)
	}

	return ids, nil
}

// Append creates the contact document. An existing document for the same
// user yields model.ErrContactExists.
func (r *contactRepository) Append(ctx context.Context, record *model.ContactRecord) error {
	if record == nil {
		return goerr.New("record is nil")
	}
	if record.UserID == "" {
		return goerr.New("user ID is required")
	}

	_, err := r.collection().Doc(record.UserID).Create(ctx, r.toDoc(record))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrContactExists, "contact already exists", goerr.V("user_id", record.UserID))
		}
		return goerr.Wrap(err, "failed to create contact", goerr.V("user_id", record.UserID))
	}

	return nil
}
