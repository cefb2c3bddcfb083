// Package category owns the trained corpus: named categories, their
// weighted token-frequency maps, and their training counters. Training and
// untraining mutate state here; the scoring packages only ever read it.
package category

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedWeight is returned when a token weight is negative or not a
// finite number. Non-negativity is assumed throughout the scoring core, so
// malformed weights are rejected at training time.
var ErrMalformedWeight = errors.New("token weight must be a non-negative finite number")

// Category represents a single text category.
type Category struct {
	name      string
	tokens    map[string]float64
	tally     float64
	trainings int
}

// NewCategory returns an empty category with the given name.
func NewCategory(name string) *Category {
	return &Category{
		name:   name,
		tokens: make(map[string]float64),
	}
}

// Name returns the category's label.
func (cat *Category) Name() string {
	return cat.name
}

// TrainToken adds weight to a token's accumulated frequency. A zero weight
// is legal but adds nothing: it must not create a token entry, since entry
// presence drives document frequency and min-weight statistics, and the
// persisted-state validator only accepts strictly positive weights.
func (cat *Category) TrainToken(word string, weight float64) error {
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %f", ErrMalformedWeight, weight)
	}
	if weight == 0 {
		return nil
	}

	cat.tokens[word] += weight
	cat.tally += weight
	return nil
}

// UntrainToken removes weight from a token, deleting the token entirely when
// its accumulated weight is exhausted. Unknown tokens and negative weights
// are ignored.
func (cat *Category) UntrainToken(word string, weight float64) {
	current, ok := cat.tokens[word]
	if !ok || weight < 0 {
		return
	}

	if weight >= current {
		cat.tally -= current
		delete(cat.tokens, word)
	} else {
		cat.tokens[word] -= weight
		cat.tally -= weight
	}

	if cat.tally < 0 {
		cat.tally = 0
	}
}

// RecordTraining advances the training counter. One advance per training
// call, independent of that call's weight.
func (cat *Category) RecordTraining() {
	cat.trainings++
}

// ForgetTraining reverses one RecordTraining, never dropping below zero.
func (cat *Category) ForgetTraining() {
	if cat.trainings > 0 {
		cat.trainings--
	}
}

// Trainings returns how many times this category has been trained.
func (cat *Category) Trainings() int {
	return cat.trainings
}

// TokenWeight returns a token's accumulated weight, 0 when untrained.
func (cat *Category) TokenWeight(word string) float64 {
	return cat.tokens[word]
}

// Tally returns the total accumulated token mass.
func (cat *Category) Tally() float64 {
	return cat.tally
}

// TokenCount returns the number of distinct trained tokens.
func (cat *Category) TokenCount() int {
	return len(cat.tokens)
}

// Tokens exposes the live frequency map for scoring. Readers must not
// mutate it; writers go through TrainToken and UntrainToken.
func (cat *Category) Tokens() map[string]float64 {
	return cat.tokens
}
