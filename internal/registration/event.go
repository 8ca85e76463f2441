package registration

import "github.com/dmitrijs2005/driveaccess/internal/session"

type EventKind int

const (
	Start EventKind = iota
	PhoneShared
	TeamChosen
	TextReceived
)

func (k EventKind) String() string {
	switch k {
	case Start:
		return "start"
	case PhoneShared:
		return "phone_shared"
	case TeamChosen:
		return "team_chosen"
	case TextReceived:
		return "text_received"
	default:
		return "unknown"
	}
}

// Event is one inbound user action, already stripped of transport details.
type Event struct {
	UserID      int64
	Kind        EventKind
	Payload     string
	DisplayName string
	Handle      string

	// Progress, when set, receives interim notices such as "granting
	// access". Delivery is best effort.
	Progress func(message string)
}

type Outcome string

const (
	OutcomePrompt   Outcome = "prompt"
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeRejected Outcome = "rejected"
)

// Keyboard tells the transport which reply markup to attach.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardContact
	KeyboardTeams
	KeyboardRemove
	KeyboardFolder
)

type Data struct {
	Keyboard  Keyboard
	Teams     []string
	Team      string
	FolderID  string
	FolderURL string
}

// Result is what the transport renders back to the user. Message is
// already localized.
type Result struct {
	Outcome Outcome
	Message string
	State   session.State
	Data    Data
}
