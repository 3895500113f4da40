package domain

// Role identifies the author of a text message.
type Role string

const (
	// RoleUser indicates a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant indicates a message produced by the pipeline.
	RoleAssistant Role = "assistant"
	// RoleSystem indicates an out-of-band notice.
	RoleSystem Role = "system"
)
