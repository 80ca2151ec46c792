// Package parser turns the raw JSON request envelope into typed requests and
// session context.
//
// Every operation takes the raw bytes and decodes only the part of the
// envelope it needs, so a malformed intent does not prevent classifying the
// request or reading its session. Parsing never mutates its input and a
// *Parser carries no state, so one value may be shared freely.
package parser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"bitbucket.org/sotavant/alexa-skill/internal/models"
)

// TimestampLayout is the only timestamp format accepted in requests.
const TimestampLayout = "2006-01-02T15:04:05Z"

var (
	ErrMissingField       = errors.New("missing required field")
	ErrUnknownRequestType = errors.New("unknown request type")
	ErrBadTimestamp       = errors.New("malformed timestamp")
)

// Error is a parse failure of one field or structure of the envelope.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &Error{Field: field, Err: ErrMissingField}
}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

type envelope struct {
	Request json.RawMessage
	Session json.RawMessage
}

type requestPayload struct {
	RequestID *string         `json:"requestId"`
	Timestamp *string         `json:"timestamp"`
	Locale    *string         `json:"locale"`
	Intent    json.RawMessage `json:"intent"`
	Reason    json.RawMessage `json:"reason"`
	Error     json.RawMessage `json:"error"`
}

type sessionPayload struct {
	New         *bool   `json:"new"`
	SessionID   *string `json:"sessionId"`
	Application *struct {
		ApplicationID *string `json:"applicationId"`
	} `json:"application"`
	Attributes map[string]interface{} `json:"attributes"`
	User       *struct {
		UserID      *string `json:"userId"`
		AccessToken *string `json:"accessToken"`
	} `json:"user"`
}

type intentPayload struct {
	Name  *string                    `json:"name"`
	Slots map[string]json.RawMessage `json:"slots"`
}

type slotPayload struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

type errorPayload struct {
	Type    *string `json:"type"`
	Message *string `json:"message"`
}

// Classify reports the kind of request in data. Only request.type is read,
// so a request with malformed base fields still classifies.
func (p *Parser) Classify(data []byte) (models.RequestType, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return 0, err
	}

	var fields map[string]json.RawMessage
	if err := decodeObject(env.Request, "request", &fields); err != nil {
		return 0, err
	}

	var typ string
	if err := decodeObject(fields["type"], "request.type", &typ); err != nil {
		return 0, err
	}

	switch typ {
	case models.TypeLaunchRequest:
		return models.RequestTypeLaunch, nil
	case models.TypeIntentRequest:
		return models.RequestTypeIntent, nil
	case models.TypeSessionEndedRequest:
		return models.RequestTypeSessionEnded, nil
	}
	return 0, &Error{Field: "request.type", Err: errors.Wrapf(ErrUnknownRequestType, "%q", typ)}
}

// ParseSession reads the session context. Missing attributes decode to an
// empty map.
func (p *Parser) ParseSession(data []byte) (*models.Session, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	var s sessionPayload
	if err := decodeObject(env.Session, "session", &s); err != nil {
		return nil, err
	}

	if s.New == nil {
		return nil, missing("session.new")
	}
	if s.SessionID == nil {
		return nil, missing("session.sessionId")
	}
	if s.Application == nil || s.Application.ApplicationID == nil {
		return nil, missing("session.application.applicationId")
	}
	if s.User == nil || s.User.UserID == nil {
		return nil, missing("session.user.userId")
	}

	attributes := s.Attributes
	if attributes == nil {
		attributes = map[string]interface{}{}
	}

	return &models.Session{
		New:         *s.New,
		SessionID:   *s.SessionID,
		Application: models.Application{ApplicationID: *s.Application.ApplicationID},
		Attributes:  attributes,
		User: models.User{
			UserID:      *s.User.UserID,
			AccessToken: s.User.AccessToken,
		},
	}, nil
}

func (p *Parser) ParseLaunchRequest(data []byte) (*models.LaunchRequest, error) {
	req, err := decodeRequest(data)
	if err != nil {
		return nil, err
	}

	base, err := parseBase(req)
	if err != nil {
		return nil, err
	}
	return &models.LaunchRequest{Request: base}, nil
}

func (p *Parser) ParseIntentRequest(data []byte) (*models.IntentRequest, error) {
	req, err := decodeRequest(data)
	if err != nil {
		return nil, err
	}

	base, err := parseBase(req)
	if err != nil {
		return nil, err
	}

	intent, err := parseIntent(req.Intent)
	if err != nil {
		return nil, err
	}
	return &models.IntentRequest{Request: base, Intent: intent}, nil
}

func (p *Parser) ParseSessionEndedRequest(data []byte) (*models.SessionEndedRequest, error) {
	req, err := decodeRequest(data)
	if err != nil {
		return nil, err
	}

	base, err := parseBase(req)
	if err != nil {
		return nil, err
	}

	reason, err := parseReason(req.Reason, req.Error)
	if err != nil {
		return nil, err
	}
	return &models.SessionEndedRequest{Request: base, Reason: reason}, nil
}

// decodeEnvelope splits data into its request and session parts. Top level
// keys must match exactly; encoding/json alone would also accept "REQUEST".
func decodeEnvelope(data []byte) (*envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &Error{Field: "envelope", Err: errors.Wrap(err, "decode")}
	}
	return &envelope{
		Request: fields["request"],
		Session: fields["session"],
	}, nil
}

func decodeRequest(data []byte) (*requestPayload, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	var req requestPayload
	if err := decodeObject(env.Request, "request", &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// decodeObject unmarshals raw into v, treating an absent or null value as a
// missing field.
func decodeObject(raw json.RawMessage, field string, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return missing(field)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &Error{Field: field, Err: errors.Wrap(err, "decode")}
	}
	return nil
}

func parseBase(req *requestPayload) (models.Request, error) {
	if req.RequestID == nil || *req.RequestID == "" {
		return models.Request{}, missing("request.requestId")
	}
	if req.Timestamp == nil {
		return models.Request{}, missing("request.timestamp")
	}
	if req.Locale == nil || *req.Locale == "" {
		return models.Request{}, missing("request.locale")
	}

	ts, err := ParseTimestamp(*req.Timestamp)
	if err != nil {
		return models.Request{}, &Error{Field: "request.timestamp", Err: err}
	}

	return models.Request{
		RequestID: *req.RequestID,
		Timestamp: ts,
		Locale:    *req.Locale,
	}, nil
}

// ParseTimestamp parses s in exactly TimestampLayout. time.Parse alone would
// also accept fractional seconds and single digit hours, so the length is
// checked first.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) != len(TimestampLayout) {
		return time.Time{}, errors.Wrapf(ErrBadTimestamp, "%q", s)
	}

	ts, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrBadTimestamp, "%q: %v", s, err)
	}
	return ts.UTC(), nil
}

func parseIntent(raw json.RawMessage) (models.Intent, error) {
	var in intentPayload
	if err := decodeObject(raw, "request.intent", &in); err != nil {
		return models.Intent{}, err
	}
	if in.Name == nil {
		return models.Intent{}, missing("request.intent.name")
	}

	slots := make(map[string]models.Slot, len(in.Slots))
	for key, rawSlot := range in.Slots {
		var s slotPayload
		if err := json.Unmarshal(rawSlot, &s); err != nil || s.Name == nil {
			// malformed slots are dropped, the rest of the intent is still usable
			continue
		}
		slots[key] = models.Slot{Name: *s.Name, Value: s.Value}
	}

	return models.Intent{Name: *in.Name, Slots: slots}, nil
}

var reasonKinds = map[string]models.ReasonKind{
	"USER_INITIATED":         models.ReasonUserInitiated,
	"ERROR":                  models.ReasonError,
	"EXCEEDED_MAX_REPROMPTS": models.ReasonExceededMaxReprompts,
}

var errorTypes = map[string]models.ErrorType{
	"INVALID_RESPONSE":           models.ErrorTypeInvalidResponse,
	"DEVICE_COMMUNICATION_ERROR": models.ErrorTypeDeviceCommunicationError,
	"INTERNAL_ERROR":             models.ErrorTypeInternalError,
}

func parseReason(rawReason, rawError json.RawMessage) (models.Reason, error) {
	var name string
	if err := decodeObject(rawReason, "request.reason", &name); err != nil {
		return models.Reason{}, err
	}

	kind, ok := reasonKinds[name]
	if !ok {
		return models.Reason{Kind: models.ReasonUnknown}, nil
	}
	if kind != models.ReasonError {
		return models.Reason{Kind: kind}, nil
	}

	var e errorPayload
	if err := decodeObject(rawError, "request.error", &e); err != nil {
		return models.Reason{}, err
	}
	if e.Type == nil {
		return models.Reason{}, missing("request.error.type")
	}
	if e.Message == nil {
		return models.Reason{}, missing("request.error.message")
	}

	// unmapped types fall back to ErrorTypeUnknown
	return models.ErrorReason(errorTypes[*e.Type], *e.Message), nil
}
