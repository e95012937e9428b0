package domain

// Role defines the author of a transcript turn.
type Role string

const (
	// RoleUser indicates a message from the user.
	RoleUser Role = "user"
	// RoleAssistant indicates a message from the model/assistant.
	RoleAssistant Role = "assistant"
)
