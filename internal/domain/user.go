package domain

// User is the authenticated identity owning words and folders.
// The account backend owns and mutates it; the core only reads it.
type User struct {
	ID    string
	Name  string
	Email string
}

// ChatState represents a chat's current interaction state
type ChatState string

const (
	StateIdle            ChatState = "idle"
	StateWaitingEmail    ChatState = "waiting_email"
	StateWaitingPassword ChatState = "waiting_password"
	StateWaitingName     ChatState = "waiting_name"
	StateWaitingLeft     ChatState = "waiting_left"
	StateWaitingRight    ChatState = "waiting_right"
)

// StateData holds temporary data for a chat's current state
type StateData struct {
	State       ChatState
	Signup      bool // auth flow creates an account instead of logging in
	Name        string
	Email       string
	LeftWord    string
	LeftExample string
}
