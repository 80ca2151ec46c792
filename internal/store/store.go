package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mock/store.go -package=mock . Store

var ErrUnknownSign = errors.New("unknown zodiac sign")

type Store interface {
	Horoscope(ctx context.Context, sign string, day time.Time) (*Horoscope, error)
}

type Horoscope struct {
	Sign string
	Day  time.Time
	Text string
}

var Signs = []string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

func IsSign(s string) bool {
	for _, sign := range Signs {
		if sign == s {
			return true
		}
	}
	return false
}
