package models

import "time"

// RequestType is the kind of request carried in the envelope's request.type field.
type RequestType int

const (
	RequestTypeLaunch RequestType = iota + 1
	RequestTypeIntent
	RequestTypeSessionEnded
)

const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"
)

func (t RequestType) String() string {
	switch t {
	case RequestTypeLaunch:
		return TypeLaunchRequest
	case RequestTypeIntent:
		return TypeIntentRequest
	case RequestTypeSessionEnded:
		return TypeSessionEndedRequest
	}
	return "UnknownRequest"
}

// Request holds the fields common to every request kind.
// See https://developer.amazon.com/docs/custom-skills/request-types-reference.html
type Request struct {
	RequestID string
	Timestamp time.Time
	Locale    string
}

// LaunchRequest is sent when the user invokes the skill without a specific intent.
type LaunchRequest struct {
	Request Request
}

// IntentRequest is sent when the user's utterance maps to one of the skill's intents.
type IntentRequest struct {
	Request Request
	Intent  Intent
}

type Intent struct {
	Name  string
	Slots map[string]Slot
}

// Slot returns the slot called name and whether it was present.
func (i Intent) Slot(name string) (Slot, bool) {
	s, ok := i.Slots[name]
	return s, ok
}

// Slot is a named argument of an intent. Value is nil when the user did not fill it.
type Slot struct {
	Name  string
	Value *string
}

func NewSlot(name string) Slot {
	return Slot{Name: name}
}

func NewSlotValue(name, value string) Slot {
	return Slot{Name: name, Value: &value}
}

// StringValue returns the slot value or "" when the slot is empty.
func (s Slot) StringValue() string {
	if s.Value == nil {
		return ""
	}
	return *s.Value
}

// Built-in intents handled by the platform's interaction model.
const (
	IntentCancel     = "AMAZON.CancelIntent"
	IntentHelp       = "AMAZON.HelpIntent"
	IntentLoopOff    = "AMAZON.LoopOffIntent"
	IntentLoopOn     = "AMAZON.LoopOnIntent"
	IntentNext       = "AMAZON.NextIntent"
	IntentNo         = "AMAZON.NoIntent"
	IntentPause      = "AMAZON.PauseIntent"
	IntentPrevious   = "AMAZON.PreviousIntent"
	IntentRepeat     = "AMAZON.RepeatIntent"
	IntentResume     = "AMAZON.ResumeIntent"
	IntentShuffleOff = "AMAZON.ShuffleOffIntent"
	IntentShuffleOn  = "AMAZON.ShuffleOnIntent"
	IntentStartOver  = "AMAZON.StartOverIntent"
	IntentStop       = "AMAZON.StopIntent"
	IntentYes        = "AMAZON.YesIntent"
)

// SessionEndedRequest is sent when the session ends for any reason other than
// the skill returning shouldEndSession.
type SessionEndedRequest struct {
	Request Request
	Reason  Reason
}

type ReasonKind int

const (
	ReasonUnknown ReasonKind = iota
	ReasonUserInitiated
	ReasonError
	ReasonExceededMaxReprompts
)

// Reason explains why a session ended. Error is only set for ReasonError.
type Reason struct {
	Kind  ReasonKind
	Error Error
}

func UserInitiatedReason() Reason {
	return Reason{Kind: ReasonUserInitiated}
}

func ExceededMaxRepromptsReason() Reason {
	return Reason{Kind: ReasonExceededMaxReprompts}
}

func ErrorReason(t ErrorType, message string) Reason {
	return Reason{Kind: ReasonError, Error: Error{Type: t, Message: message}}
}

type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidResponse
	ErrorTypeDeviceCommunicationError
	ErrorTypeInternalError
)

// Error describes the failure reported in a SessionEndedRequest with reason ERROR.
type Error struct {
	Type    ErrorType
	Message string
}

// Session carries the cross-turn context of a conversation. Attributes survive
// to the next request only if they are returned in the response and the session
// is kept open.
type Session struct {
	New         bool
	SessionID   string
	Application Application
	Attributes  map[string]interface{}
	User        User
}

type Application struct {
	ApplicationID string
}

type User struct {
	UserID      string
	AccessToken *string
}
