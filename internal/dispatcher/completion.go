package dispatcher

import (
	"sync"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/alexa-skill/internal/logger"
)

type outcome struct {
	data []byte
	err  error
}

// completion hands one outcome from the dispatching goroutine to a waiting
// caller. The channel has room for that outcome, so fulfilling never blocks
// even after the caller stopped waiting.
type completion struct {
	ch chan outcome
}

func newCompletion() *completion {
	return &completion{ch: make(chan outcome, 1)}
}

func (c *completion) fulfill(data []byte, err error) {
	c.ch <- outcome{data: data, err: err}
}

func (c *completion) wait() <-chan outcome {
	return c.ch
}

// onlyOnce lets the first call of next through and drops the rest.
func onlyOnce[T any](kind string, next func(T)) func(T) {
	var o sync.Once
	return func(v T) {
		fired := false
		o.Do(func() {
			fired = true
			next(v)
		})
		if !fired {
			logger.Log.Warn("handler completed more than once, ignoring", zap.String("kind", kind))
		}
	}
}
