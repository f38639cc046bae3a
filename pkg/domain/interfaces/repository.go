package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Contact() ContactRepository
	Close() error
}
