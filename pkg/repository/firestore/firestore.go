package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

type Firestore struct {
	client  *firestore.Client
	contact *contactRepository

	collectionPrefix string
	clientOpts       []option.ClientOption
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. for test isolation
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

// WithClientOptions passes options such as credentials to the Firestore client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(f *Firestore) {
		f.clientOpts = append(f.clientOpts, opts...)
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	f := &Firestore{}
	for _, opt := range opts {
		opt(f)
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, f.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f.client = client
	f.contact = newContactRepository(client)
	f.contact.collectionPrefix = f.collectionPrefix

	return f, nil
}

func (f *Firestore) Contact() interfaces.ContactRepository {
	return f.contact
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
