package usecase

import "time"

// SystemPrompt is exported for testing
var SystemPrompt = (*QueryUseCase).systemPrompt

// TrimCodeFence is exported for testing
var TrimCodeFence = trimCodeFence

// SetIntegrationClock replaces the clock used for OAuth state
func SetIntegrationClock(uc *IntegrationUseCase, now func() time.Time) {
	uc.now = now
}

// SetAuthClock replaces the clock used for token issue and verification
func SetAuthClock(uc *AuthUseCase, now func() time.Time) {
	uc.now = now
}
