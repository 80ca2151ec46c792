package dispatcher

import (
	"context"

	"bitbucket.org/sotavant/alexa-skill/internal/models"
)

//go:generate mockgen -destination=mock/handler.go -package=mock . Handler

// Handler is the skill logic. Each method must call next exactly once, from
// any goroutine. Calls after the first are ignored.
type Handler interface {
	HandleLaunch(ctx context.Context, req *models.LaunchRequest, session *models.Session, next func(StandardResult))
	HandleIntent(ctx context.Context, req *models.IntentRequest, session *models.Session, next func(StandardResult))
	HandleSessionEnded(ctx context.Context, req *models.SessionEndedRequest, session *models.Session, next func(error))
}

// StandardResult is the outcome of HandleLaunch and HandleIntent. A non-nil
// Err means failure and the response is ignored.
type StandardResult struct {
	Response   models.StandardResponse
	Attributes map[string]interface{}
	Err        error
}

func Success(resp models.StandardResponse, attrs map[string]interface{}) StandardResult {
	return StandardResult{Response: resp, Attributes: attrs}
}

func Failure(message string) StandardResult {
	return StandardResult{Err: &MessageError{Message: message}}
}

// MessageError is a handler failure carrying a message meant for the caller.
type MessageError struct {
	Message string
}

func (e *MessageError) Error() string {
	return e.Message
}
