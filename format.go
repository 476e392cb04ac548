package ggchart

import (
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter turns an axis coordinate into a label.
type Formatter func(v float64) string

// DefaultFormatter prints two decimals without grouping ("1234.50").
func DefaultFormatter(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// NumberFormatter returns a locale-aware formatter with the given number of
// decimals, e.g. "1,234.50" for English or "1.234,50" for German.
func NumberFormatter(tag language.Tag, decimals int) Formatter {
	p := message.NewPrinter(tag)
	verb := "%." + strconv.Itoa(decimals) + "f"
	return func(v float64) string {
		return p.Sprintf(verb, v)
	}
}

// TimeFormatter formats an index as the timestamp of the item at that index.
// Indices before the first item use the first timestamp, indices past the
// last item use the last one. stamp reports false for missing items; with
// no items at all the index is formatted with DefaultFormatter.
func TimeFormatter(stamp func(index int) (time.Time, bool), count func() int, layout string) Formatter {
	return func(v float64) string {
		index := int(v)
		if t, ok := stamp(index); ok {
			return t.Format(layout)
		}

		n := count()
		fallback := n - 1
		if index <= 0 {
			fallback = 0
		}
		if t, ok := stamp(fallback); ok && n > 0 {
			return t.Format(layout)
		}
		return DefaultFormatter(v)
	}
}

// CachedFormatter memoizes the labels produced by f in an LRU cache of the
// given size. Tick values repeat across frames while panning, so caching
// avoids reformatting on every render.
func CachedFormatter(f Formatter, size int) (Formatter, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return func(v float64) string {
		if s, ok := cache.Get(v); ok {
			return s.(string)
		}
		s := f(v)
		cache.Add(v, s)
		return s
	}, nil
}
