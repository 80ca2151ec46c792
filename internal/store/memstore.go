package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const dayLayout = "2006-01-02"

// Catalogue lists candidate horoscope texts per sign. The text for a day is
// picked from it deterministically.
type Catalogue map[string][]string

func DefaultCatalogue() Catalogue {
	c := Catalogue{}
	for _, sign := range Signs {
		c[sign] = []string{
			"Today favours patience. Let others make the first move.",
			"A conversation you have been putting off goes better than expected.",
			"Small changes to your routine pay off by the evening.",
			"Someone close to you needs your attention more than your advice.",
		}
	}
	return c
}

// LoadCatalogue reads a YAML document mapping sign names to lists of texts.
func LoadCatalogue(path string) (Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalogue")
	}

	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parse catalogue %s", path)
	}

	for sign, texts := range c {
		if !IsSign(sign) {
			return nil, errors.Wrapf(ErrUnknownSign, "catalogue entry %q", sign)
		}
		if len(texts) == 0 {
			return nil, errors.Errorf("catalogue entry %q has no texts", sign)
		}
	}
	return c, nil
}

// MemStore keeps the horoscopes it has handed out in a cache keyed by sign
// and day, so a text stays stable for that day.
type MemStore struct {
	catalogue Catalogue
	cache     *cache.Cache
}

var _ Store = (*MemStore)(nil)

func NewMemStore(c Catalogue) *MemStore {
	return &MemStore{
		catalogue: c,
		cache:     cache.New(24*time.Hour, time.Hour),
	}
}

// Open returns a MemStore over the catalogue at path, or over
// DefaultCatalogue when path is empty.
func Open(path string) (*MemStore, error) {
	if path == "" {
		return NewMemStore(DefaultCatalogue()), nil
	}

	c, err := LoadCatalogue(path)
	if err != nil {
		return nil, err
	}
	return NewMemStore(c), nil
}

func (s *MemStore) Horoscope(ctx context.Context, sign string, day time.Time) (*Horoscope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sign = strings.ToLower(sign)
	texts, ok := s.catalogue[sign]
	if !ok || len(texts) == 0 {
		return nil, errors.Wrapf(ErrUnknownSign, "%q", sign)
	}

	key := cacheKey(sign, day)
	if v, found := s.cache.Get(key); found {
		h := v.(Horoscope)
		return &h, nil
	}

	h := Horoscope{
		Sign: sign,
		Day:  truncateDay(day),
		Text: texts[day.UTC().YearDay()%len(texts)],
	}
	s.cache.Set(key, h, cache.DefaultExpiration)
	return &h, nil
}

func cacheKey(sign string, day time.Time) string {
	return fmt.Sprintf("%s:%s", sign, day.UTC().Format(dayLayout))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
