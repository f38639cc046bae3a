package memory

import (
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

// Memory is an in-process contact log for development and tests
type Memory struct {
	contact *contactRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		contact: newContactRepository(),
	}
}

func (m *Memory) Contact() interfaces.ContactRepository {
	return m.contact
}

// Records returns a copy of every appended record in append order
func (m *Memory) Records() []model.ContactRecord {
	return m.contact.records()
}

func (m *Memory) Close() error {
	return nil
}
