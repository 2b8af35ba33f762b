package tests

import (
	"math/rand"
	"time"
)

// Randomizer: источник случайных значений для тестов с перемешанными данными.
type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Int63n  func(n int64) int64
	Shuffle func(n int, swap func(i, j int))
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Int63n:  random.Int63n,
		Shuffle: random.Shuffle,
	}
}
