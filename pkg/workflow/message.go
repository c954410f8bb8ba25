package workflow

// Role identifies the author of a conversation message.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// Message is one turn of a conversation carried in graph state.
type Message struct {
	Role    Role                   `json:"role"`
	Content string                 `json:"content"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Human builds a user-authored message.
func Human(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// AI builds an assistant-authored message.
func AI(content string) Message {
	return Message{Role: RoleAI, Content: content}
}

// AIWithMeta builds an assistant message carrying structured metadata,
// such as question type or answer options.
func AIWithMeta(content string, meta map[string]interface{}) Message {
	return Message{Role: RoleAI, Content: content, Meta: meta}
}

// LastOfRole returns the most recent message with the given role and
// whether one was found.
func LastOfRole(messages []Message, role Role) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == role {
			return messages[i], true
		}
	}
	return Message{}, false
}
