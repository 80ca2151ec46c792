package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher"
	"bitbucket.org/sotavant/alexa-skill/internal/logger"
)

type handler struct {
	dispatcher *dispatcher.Dispatcher
	timeout    time.Duration
}

func newHandler(d *dispatcher.Dispatcher, timeout time.Duration) *handler {
	return &handler{dispatcher: d, timeout: timeout}
}

// handle is the Lambda entry point. The event is the request envelope as is
// and the result is the response envelope.
func (h *handler) handle(ctx context.Context, event json.RawMessage) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	out, err := h.dispatcher.Dispatch(ctx, event)
	if err != nil {
		logger.Log.Debug("cannot dispatch request", zap.Error(err))
		return nil, err
	}
	return out, nil
}

// pipe reads one envelope from in and writes the response to out. On failure
// the error message is written instead and the error returned.
func (h *handler) pipe(ctx context.Context, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	resp, err := h.handle(ctx, data)
	if err != nil {
		_, _ = io.WriteString(out, err.Error())
		return err
	}

	_, err = out.Write(resp)
	return err
}
