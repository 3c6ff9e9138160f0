package interfaces

// Repository defines the interface for data persistence.
// Lookups that miss return an error wrapping model.ErrNotFound.
type Repository interface {
	Project() ProjectRepository
	Credential() CredentialRepository
	Chat() ChatRepository
	User() UserRepository

	Close() error
}
