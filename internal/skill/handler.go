// Package skill is a sample horoscope skill built on the dispatcher.
package skill

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher"
	"bitbucket.org/sotavant/alexa-skill/internal/logger"
	"bitbucket.org/sotavant/alexa-skill/internal/models"
	"bitbucket.org/sotavant/alexa-skill/internal/store"
)

const (
	IntentGetHoroscope = "GetZodiacHoroscopeIntent"
	SlotZodiacSign     = "ZodiacSign"

	// AttrLastSign remembers the sign asked for last, so a follow up
	// question without a sign can reuse it.
	AttrLastSign = "lastSign"
)

const (
	textWelcome  = "Welcome to daily horoscopes. Which zodiac sign would you like to hear about?"
	textAskSign  = "Which zodiac sign would you like to hear about?"
	textHelp     = "You can ask for the horoscope of any zodiac sign, for example: what is the horoscope for virgo."
	textGoodbye  = "Goodbye."
	textCardName = "Horoscope for %s"
)

type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

var _ dispatcher.Handler = (*Handler)(nil)

func (h *Handler) HandleLaunch(_ context.Context, _ *models.LaunchRequest, session *models.Session, next func(dispatcher.StandardResult)) {
	next(dispatcher.Success(ask(textWelcome), session.Attributes))
}

func (h *Handler) HandleIntent(ctx context.Context, req *models.IntentRequest, session *models.Session, next func(dispatcher.StandardResult)) {
	switch req.Intent.Name {
	case IntentGetHoroscope:
		h.horoscope(ctx, req, session, next)
	case models.IntentHelp:
		next(dispatcher.Success(ask(textHelp), session.Attributes))
	case models.IntentStop, models.IntentCancel:
		next(dispatcher.Success(tell(textGoodbye), nil))
	default:
		next(dispatcher.Success(tell(fmt.Sprintf("Alexa Skill received intent %s", req.Intent.Name)), session.Attributes))
	}
}

func (h *Handler) HandleSessionEnded(_ context.Context, req *models.SessionEndedRequest, session *models.Session, next func(error)) {
	logger.Log.Debug("session ended",
		zap.String("sessionId", session.SessionID),
		zap.Int("reason", int(req.Reason.Kind)),
		zap.String("error", req.Reason.Error.Message),
	)
	next(nil)
}

func (h *Handler) horoscope(ctx context.Context, req *models.IntentRequest, session *models.Session, next func(dispatcher.StandardResult)) {
	sign := ""
	if slot, ok := req.Intent.Slot(SlotZodiacSign); ok {
		sign = strings.ToLower(slot.StringValue())
	}
	if sign == "" {
		if last, ok := session.Attributes[AttrLastSign].(string); ok {
			sign = last
		}
	}

	if sign == "" {
		next(dispatcher.Success(ask(textAskSign), session.Attributes))
		return
	}
	if !store.IsSign(sign) {
		next(dispatcher.Success(ask(fmt.Sprintf("I don't know the sign %s. %s", sign, textAskSign)), session.Attributes))
		return
	}

	go func() {
		hs, err := h.store.Horoscope(ctx, sign, req.Request.Timestamp)
		if err != nil {
			logger.Log.Debug("cannot load horoscope", zap.String("sign", sign), zap.Error(err))
			next(dispatcher.Failure(err.Error()))
			return
		}

		session.Attributes[AttrLastSign] = sign
		resp := tell(hs.Text)
		resp.Card = models.SimpleCard(fmt.Sprintf(textCardName, strings.ToUpper(sign[:1])+sign[1:]), hs.Text)
		next(dispatcher.Success(resp, session.Attributes))
	}()
}

func tell(text string) models.StandardResponse {
	return models.StandardResponse{
		OutputSpeech:     models.PlainText(text),
		ShouldEndSession: true,
	}
}

func ask(text string) models.StandardResponse {
	return models.StandardResponse{
		OutputSpeech:     models.PlainText(text),
		Reprompt:         models.PlainText(textAskSign),
		ShouldEndSession: false,
	}
}
