package core

const (
	AppName          = "RideVoice"
	AppUserAgent     = "RideVoice-Agent/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/ridevoice"
	AppVersion       = "0.1.0"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchanged between the user and the assistant. The
// system role only appears in prompts and is never stored.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// Exchange is what one processed utterance returns to a transport.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	// Failed is set when Assistant carries a completion error description.
	Failed bool `json:"failed,omitempty"`
}
