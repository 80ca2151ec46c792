package dispatcher_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher"
	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher/mock"
	"bitbucket.org/sotavant/alexa-skill/internal/generator"
	"bitbucket.org/sotavant/alexa-skill/internal/models"
	"bitbucket.org/sotavant/alexa-skill/internal/parser"
)

const testSession = `{
	"new": true,
	"sessionId": "session-1",
	"application": {"applicationId": "app-1"},
	"attributes": {"count": 1},
	"user": {"userId": "user-1"}
}`

const (
	launchRequest = `{"type": "LaunchRequest", "requestId": "req-1", "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US"}`
	intentRequest = `{
		"type": "IntentRequest", "requestId": "req-2", "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US",
		"intent": {"name": "GetZodiacHoroscopeIntent", "slots": {"ZodiacSign": {"name": "ZodiacSign", "value": "virgo"}}}
	}`
	sessionEndedRequest = `{
		"type": "SessionEndedRequest", "requestId": "req-3", "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US",
		"reason": "ERROR", "error": {"type": "INVALID_RESPONSE", "message": "boom"}
	}`
)

func envelope(request string) []byte {
	return []byte(fmt.Sprintf(`{"version": "1.0", "session": %s, "request": %s}`, testSession, request))
}

type spyGenerator struct {
	mu    sync.Mutex
	calls int
	g     *generator.Generator
}

func (s *spyGenerator) Generate(resp models.StandardResponse, attrs map[string]interface{}) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.g.Generate(resp, attrs)
}

func (s *spyGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newDispatcher(t *testing.T) (*dispatcher.Dispatcher, *mock.MockHandler, *spyGenerator) {
	ctrl := gomock.NewController(t)
	h := mock.NewMockHandler(ctrl)
	g := &spyGenerator{g: generator.New()}
	return dispatcher.New(h, parser.New(), g), h, g
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDispatchLaunch(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleLaunch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, req *models.LaunchRequest, s *models.Session, next func(dispatcher.StandardResult)) {
			assert.Equal(t, "req-1", req.Request.RequestID)
			assert.Equal(t, "en-US", req.Request.Locale)
			assert.Equal(t, "session-1", s.SessionID)
			next(dispatcher.Success(models.StandardResponse{
				OutputSpeech:     models.PlainText("Hello"),
				ShouldEndSession: true,
			}, nil))
		}).
		Times(1)

	out, err := d.Dispatch(testContext(t), envelope(launchRequest))
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0","response":{"outputSpeech":{"type":"PlainText","text":"Hello"}}}`, string(out))
}

func TestDispatchIntent(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, req *models.IntentRequest, s *models.Session, next func(dispatcher.StandardResult)) {
			assert.Equal(t, "GetZodiacHoroscopeIntent", req.Intent.Name)
			assert.Equal(t, models.NewSlotValue("ZodiacSign", "virgo"), req.Intent.Slots["ZodiacSign"])

			// handlers complete from their own goroutines
			go func() {
				s.Attributes["sign"] = "virgo"
				next(dispatcher.Success(models.StandardResponse{
					OutputSpeech:     models.PlainText("Virgo"),
					ShouldEndSession: false,
				}, s.Attributes))
			}()
		}).
		Times(1)

	out, err := d.Dispatch(testContext(t), envelope(intentRequest))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": "1.0",
		"sessionAttributes": {"count": 1, "sign": "virgo"},
		"response": {"outputSpeech": {"type": "PlainText", "text": "Virgo"}, "shouldEndSession": false}
	}`, string(out))
}

func TestDispatchSessionEnded(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleSessionEnded(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, req *models.SessionEndedRequest, _ *models.Session, next func(error)) {
			assert.Equal(t, models.ErrorReason(models.ErrorTypeInvalidResponse, "boom"), req.Reason)
			next(nil)
		}).
		Times(1)

	out, err := d.Dispatch(testContext(t), envelope(sessionEndedRequest))
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0","response":{}}`, string(out))
}

func TestDispatchParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		data    []byte
		message string
	}{
		{
			name:    "unknown_request_type",
			data:    envelope(`{"type": "UnknownRequest", "requestId": "r", "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US"}`),
			message: dispatcher.MsgParseRequest,
		},
		{
			name:    "empty_body",
			data:    []byte{},
			message: dispatcher.MsgParseRequest,
		},
		{
			name:    "missing_session",
			data:    []byte(fmt.Sprintf(`{"request": %s}`, launchRequest)),
			message: dispatcher.MsgParseRequest,
		},
		{
			name:    "bad_launch_timestamp",
			data:    envelope(`{"type": "LaunchRequest", "requestId": "r", "timestamp": "yesterday", "locale": "en-US"}`),
			message: dispatcher.MsgParseLaunchRequest,
		},
		{
			name:    "numeric_launch_timestamp",
			data:    envelope(`{"type": "LaunchRequest", "requestId": "r", "timestamp": 1431520496, "locale": "en-US"}`),
			message: dispatcher.MsgParseLaunchRequest,
		},
		{
			name:    "numeric_intent_request_id",
			data:    envelope(`{"type": "IntentRequest", "requestId": 7, "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US", "intent": {"name": "HelloIntent"}}`),
			message: dispatcher.MsgParseIntentRequest,
		},
		{
			name:    "uppercase_request_key",
			data:    []byte(fmt.Sprintf(`{"session": %s, "REQUEST": %s}`, testSession, launchRequest)),
			message: dispatcher.MsgParseRequest,
		},
		{
			name:    "intent_without_name",
			data:    envelope(`{"type": "IntentRequest", "requestId": "r", "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US", "intent": {}}`),
			message: dispatcher.MsgParseIntentRequest,
		},
		{
			name:    "session_ended_error_without_payload",
			data:    envelope(`{"type": "SessionEndedRequest", "requestId": "r", "timestamp": "2015-05-13T12:34:56Z", "locale": "en-US", "reason": "ERROR"}`),
			message: dispatcher.MsgParseSessionEndedRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// no expectations: any handler call fails the test
			d, _, g := newDispatcher(t)

			out, err := d.Dispatch(testContext(t), tc.data)
			assert.Nil(t, out)

			var derr *dispatcher.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tc.message, derr.Message)
			assert.Error(t, derr.Unwrap())
			assert.Zero(t, g.Calls())
		})
	}
}

func TestDispatchHandlerFailure(t *testing.T) {
	d, h, g := newDispatcher(t)

	h.EXPECT().
		HandleIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.IntentRequest, _ *models.Session, next func(dispatcher.StandardResult)) {
			next(dispatcher.Failure("db down"))
		})

	out, err := d.Dispatch(testContext(t), envelope(intentRequest))
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Equal(t, "db down", err.Error())

	var merr *dispatcher.MessageError
	assert.ErrorAs(t, err, &merr)
	assert.Zero(t, g.Calls())
}

func TestDispatchSessionEndedFailure(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleSessionEnded(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.SessionEndedRequest, _ *models.Session, next func(error)) {
			next(&dispatcher.MessageError{Message: "cleanup failed"})
		})

	_, err := d.Dispatch(testContext(t), envelope(sessionEndedRequest))
	require.Error(t, err)
	assert.Equal(t, "cleanup failed", err.Error())
}

func TestDispatchGenerationFailure(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleLaunch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.LaunchRequest, _ *models.Session, next func(dispatcher.StandardResult)) {
			next(dispatcher.Success(models.NewStandardResponse(), map[string]interface{}{"bad": func() {}}))
		})

	_, err := d.Dispatch(testContext(t), envelope(launchRequest))

	var derr *dispatcher.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dispatcher.MsgGenerateResponse, derr.Message)

	var gerr *generator.Error
	assert.ErrorAs(t, err, &gerr)
}

func TestDispatchHandlerNeverCompletes(t *testing.T) {
	d, h, g := newDispatcher(t)

	h.EXPECT().
		HandleLaunch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := d.Dispatch(ctx, envelope(launchRequest))
	assert.Less(t, time.Since(start), time.Second)
	assert.Nil(t, out)

	var derr *dispatcher.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dispatcher.MsgDispatchCanceled, derr.Message)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, g.Calls())
}

func TestDispatchLateCompletionDoesNotBlock(t *testing.T) {
	d, h, _ := newDispatcher(t)

	completed := make(chan struct{})
	h.EXPECT().
		HandleLaunch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.LaunchRequest, _ *models.Session, next func(dispatcher.StandardResult)) {
			go func() {
				time.Sleep(100 * time.Millisecond)
				next(dispatcher.Success(models.NewStandardResponse(), nil))
				close(completed)
			}()
		})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Dispatch(ctx, envelope(launchRequest))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Fatal("late completion blocked")
	}
}

func TestDispatchAsyncCompletesOnce(t *testing.T) {
	d, h, g := newDispatcher(t)

	h.EXPECT().
		HandleLaunch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.LaunchRequest, _ *models.Session, next func(dispatcher.StandardResult)) {
			next(dispatcher.Success(models.StandardResponse{OutputSpeech: models.PlainText("first"), ShouldEndSession: true}, nil))
			next(dispatcher.Success(models.StandardResponse{OutputSpeech: models.PlainText("second"), ShouldEndSession: true}, nil))
			next(dispatcher.Failure("third"))
		})

	var (
		calls int
		got   []byte
	)
	d.DispatchAsync(testContext(t), envelope(launchRequest), func(data []byte, err error) {
		calls++
		got = data
		assert.NoError(t, err)
	})

	assert.Equal(t, 1, calls)
	assert.Contains(t, string(got), "first")
	assert.Equal(t, 1, g.Calls())
}

func TestDispatchAsyncMatchesDispatch(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleLaunch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.LaunchRequest, s *models.Session, next func(dispatcher.StandardResult)) {
			next(dispatcher.Success(models.StandardResponse{OutputSpeech: models.PlainText("Hello")}, s.Attributes))
		}).
		Times(2)

	syncOut, syncErr := d.Dispatch(testContext(t), envelope(launchRequest))

	done := make(chan struct{})
	var asyncOut []byte
	var asyncErr error
	d.DispatchAsync(testContext(t), envelope(launchRequest), func(data []byte, err error) {
		asyncOut, asyncErr = data, err
		close(done)
	})
	<-done

	assert.Equal(t, syncOut, asyncOut)
	assert.Equal(t, syncErr, asyncErr)
}

func TestDispatchHandlerPanics(t *testing.T) {
	d, h, _ := newDispatcher(t)

	h.EXPECT().
		HandleIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ *models.IntentRequest, _ *models.Session, _ func(dispatcher.StandardResult)) {
			panic("nil map")
		})

	_, err := d.Dispatch(testContext(t), envelope(intentRequest))

	var derr *dispatcher.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dispatcher.MsgHandlerPanicked, derr.Message)
}

type unknownKindParser struct {
	*parser.Parser
}

func (unknownKindParser) Classify([]byte) (models.RequestType, error) {
	return models.RequestType(42), nil
}

func TestDispatchUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := mock.NewMockHandler(ctrl)
	d := dispatcher.New(h, unknownKindParser{parser.New()}, generator.New())

	_, err := d.Dispatch(testContext(t), envelope(launchRequest))

	var derr *dispatcher.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, dispatcher.MsgUnknownRequestType, derr.Message)
}
