package mock

import (
	"context"

	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

// ContactRepositoryMock wraps another ContactRepository and lets tests
// replace individual operations, e.g. to inject sink failures.
type ContactRepositoryMock struct {
	interfaces.ContactRepository

	ListUserIDsFunc func(ctx context.Context) ([]string, error)
	AppendFunc      func(ctx context.Context, record *model.ContactRecord) error
}

func (m *ContactRepositoryMock) ListUserIDs(ctx context.Context) ([]string, error) {
	if m.ListUserIDsFunc != nil {
		return m.ListUserIDsFunc(ctx)
	}
	return m.ContactRepository.ListUserIDs(ctx)
}

func (m *ContactRepositoryMock) Append(ctx context.Context, record *model.ContactRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, record)
	}
	return m.ContactRepository.Append(ctx, record)
}

// RepositoryMock serves a ContactRepository through interfaces.Repository
type RepositoryMock struct {
	ContactRepo interfaces.ContactRepository
}

var _ interfaces.Repository = &RepositoryMock{}

func (m *RepositoryMock) Contact() interfaces.ContactRepository {
	return m.ContactRepo
}

func (m *RepositoryMock) Close() error {
	return nil
}
