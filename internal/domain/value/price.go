package value

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

//nolint:gochecknoglobals
var (
	compactPriceRe   = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([kmb]?)$`)
	groupedDigitsRe  = regexp.MustCompile(`^[0-9]{1,3}(?:,[0-9]{3})+$`)
	whitespaceRunsRe = regexp.MustCompile(`\s+`)
)

//nolint:gochecknoglobals
var suffixMultipliers = map[string]float64{
	"":  1,
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
}

// ParsePrice converts a compact price string ("61.6m", "1,000", "2.1B") into
// an integer amount rounded to the nearest unit.
func ParsePrice(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrInvalidPrice
	}

	if groupedDigitsRe.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}

	m := compactPriceRe.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidPrice
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}

	return roundAmount(n * suffixMultipliers[m[2]])
}

// ParsePriceValue accepts a value as decoded from JSON: a number or a string.
func ParsePriceValue(v any) (int64, error) {
	switch t := v.(type) {
	case string:
		return ParsePrice(t)
	case float64:
		return roundAmount(t)
	case float32:
		return roundAmount(float64(t))
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case interface{ String() string }:
		return ParsePrice(t.String())
	default:
		return 0, ErrInvalidPrice
	}
}

func roundAmount(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return 0, ErrInvalidPrice
	}
	return int64(math.Round(f)), nil
}

// NormalizeName trims, lowercases and collapses whitespace runs to one space.
func NormalizeName(s string) string {
	return whitespaceRunsRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
