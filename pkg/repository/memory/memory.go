package memory

import (
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
)

// Memory is an in-process Repository used for development and tests
type Memory struct {
	project    *projectRepository
	credential *credentialRepository
	chat       *chatRepository
	user       *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		project:    newProjectRepository(),
		credential: newCredentialRepository(),
		chat:       newChatRepository(),
		user:       newUserRepository(),
	}
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Credential() interfaces.CredentialRepository {
	return m.credential
}

func (m *Memory) Chat() interfaces.ChatRepository {
	return m.chat
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
