// Package dispatcher routes a raw request envelope to a Handler and turns the
// handler's result into a response envelope.
//
// A dispatch goes through parsing the session and request kind, parsing the
// kind specific payload, calling the handler and generating the response.
// Any failure along the way ends the dispatch with an *Error; no fallback
// response is produced.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/alexa-skill/internal/logger"
	"bitbucket.org/sotavant/alexa-skill/internal/models"
)

const (
	MsgParseRequest             = "error parsing request"
	MsgParseLaunchRequest       = "error parsing launch request"
	MsgParseIntentRequest       = "error parsing intent request"
	MsgParseSessionEndedRequest = "error parsing session ended request"
	MsgUnknownRequestType       = "unknown request type"
	MsgGenerateResponse         = "error generating response"
	MsgHandlerPanicked          = "handler panicked"
	MsgDispatchCanceled         = "dispatch canceled"
)

// Error is the only error returned by a Dispatcher. Message is safe to show
// to the caller, Err holds the cause when there is one.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parser is satisfied by *parser.Parser.
type Parser interface {
	Classify(data []byte) (models.RequestType, error)
	ParseSession(data []byte) (*models.Session, error)
	ParseLaunchRequest(data []byte) (*models.LaunchRequest, error)
	ParseIntentRequest(data []byte) (*models.IntentRequest, error)
	ParseSessionEndedRequest(data []byte) (*models.SessionEndedRequest, error)
}

// Generator is satisfied by *generator.Generator.
type Generator interface {
	Generate(resp models.StandardResponse, attrs map[string]interface{}) ([]byte, error)
}

type Dispatcher struct {
	handler   Handler
	parser    Parser
	generator Generator
}

func New(h Handler, p Parser, g Generator) *Dispatcher {
	return &Dispatcher{
		handler:   h,
		parser:    p,
		generator: g,
	}
}

// Dispatch is the blocking form of DispatchAsync. It returns when the handler
// completes or ctx is done, whichever comes first. A handler completing after
// that is not waited for and does not block.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) ([]byte, error) {
	c := newCompletion()
	go d.DispatchAsync(ctx, data, c.fulfill)

	select {
	case o := <-c.wait():
		return o.data, o.err
	case <-ctx.Done():
	}

	// prefer a result that raced with the deadline
	select {
	case o := <-c.wait():
		return o.data, o.err
	default:
		logger.Log.Debug("dispatch canceled before handler completed", zap.Error(ctx.Err()))
		return nil, &Error{Message: MsgDispatchCanceled, Err: ctx.Err()}
	}
}

// DispatchAsync processes data and calls done exactly once with either the
// response envelope or an *Error. done may run on the handler's goroutine.
func (d *Dispatcher) DispatchAsync(ctx context.Context, data []byte, done func([]byte, error)) {
	session, err := d.parser.ParseSession(data)
	if err != nil {
		fail(done, MsgParseRequest, err)
		return
	}

	kind, err := d.parser.Classify(data)
	if err != nil {
		fail(done, MsgParseRequest, err)
		return
	}

	logger.Log.Debug("dispatching request",
		zap.Stringer("type", kind),
		zap.String("sessionId", session.SessionID),
	)

	switch kind {
	case models.RequestTypeLaunch:
		req, err := d.parser.ParseLaunchRequest(data)
		if err != nil {
			fail(done, MsgParseLaunchRequest, err)
			return
		}
		next := onlyOnce(kind.String(), d.standardNext(done))
		invoke(next, standardPanic, func() {
			d.handler.HandleLaunch(ctx, req, session, next)
		})
	case models.RequestTypeIntent:
		req, err := d.parser.ParseIntentRequest(data)
		if err != nil {
			fail(done, MsgParseIntentRequest, err)
			return
		}
		logger.Log.Debug("dispatching intent", zap.String("intent", req.Intent.Name))
		next := onlyOnce(kind.String(), d.standardNext(done))
		invoke(next, standardPanic, func() {
			d.handler.HandleIntent(ctx, req, session, next)
		})
	case models.RequestTypeSessionEnded:
		req, err := d.parser.ParseSessionEndedRequest(data)
		if err != nil {
			fail(done, MsgParseSessionEndedRequest, err)
			return
		}
		next := onlyOnce(kind.String(), d.sessionEndedNext(done))
		invoke(next, voidPanic, func() {
			d.handler.HandleSessionEnded(ctx, req, session, next)
		})
	default:
		done(nil, &Error{Message: MsgUnknownRequestType})
	}
}

func (d *Dispatcher) standardNext(done func([]byte, error)) func(StandardResult) {
	return func(res StandardResult) {
		if res.Err != nil {
			handlerFailed(done, res.Err)
			return
		}
		d.generate(done, res.Response, res.Attributes)
	}
}

func (d *Dispatcher) sessionEndedNext(done func([]byte, error)) func(error) {
	return func(err error) {
		if err != nil {
			handlerFailed(done, err)
			return
		}
		d.generate(done, models.NewStandardResponse(), nil)
	}
}

func (d *Dispatcher) generate(done func([]byte, error), resp models.StandardResponse, attrs map[string]interface{}) {
	out, err := d.generator.Generate(resp, attrs)
	if err != nil {
		fail(done, MsgGenerateResponse, err)
		return
	}
	done(out, nil)
}

func fail(done func([]byte, error), message string, err error) {
	logger.Log.Debug(message, zap.Error(err))
	done(nil, &Error{Message: message, Err: err})
}

func handlerFailed(done func([]byte, error), err error) {
	logger.Log.Debug("handler failed", zap.Error(err))
	var derr *Error
	if errors.As(err, &derr) {
		done(nil, derr)
		return
	}
	done(nil, &Error{Message: err.Error(), Err: err})
}

func standardPanic(err error) StandardResult {
	return StandardResult{Err: err}
}

func voidPanic(err error) error {
	return err
}

// invoke runs call and turns a panic into a failed completion through next.
func invoke[T any](next func(T), onPanic func(error) T, call func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("handler panicked", zap.Any("panic", r))
			next(onPanic(&Error{Message: MsgHandlerPanicked, Err: fmt.Errorf("%v", r)}))
		}
	}()
	call()
}
