package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string) *Repository {
	return &Repository{backend: backend, sqlitePath: sqlitePath}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, configPath string) *LLM {
	return &LLM{provider: provider, configPath: configPath}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(secret string, ttl time.Duration) *Auth {
	return &Auth{jwtSecret: secret, tokenTTL: ttl}
}
