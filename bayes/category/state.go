package category

import (
	"errors"
	"fmt"
	"math"
)

var (
	errEmptyCategoryName = errors.New("empty category name in state")
	errEmptyToken        = errors.New("empty token in state")
	errInvalidTrainings  = errors.New("invalid training count in state")
)

// PersistedCategory is the exported, validated form of one category,
// consumed by the persistence layers.
type PersistedCategory struct {
	Tokens    map[string]float64
	Trainings int
}

// ExportStates deep-copies every category into its persisted form.
func (cats *Categories) ExportStates() map[string]PersistedCategory {
	states := make(map[string]PersistedCategory, len(cats.categories))
	for name, cat := range cats.categories {
		tokens := make(map[string]float64, len(cat.tokens))
		for token, weight := range cat.tokens {
			tokens[token] = weight
		}
		states[name] = PersistedCategory{
			Tokens:    tokens,
			Trainings: cat.trainings,
		}
	}
	return states
}

// ReplaceStates validates states and swaps them in, replacing every
// existing category. On error the corpus is left untouched.
func (cats *Categories) ReplaceStates(states map[string]PersistedCategory) error {
	replacement := make(map[string]*Category, len(states))
	for name, state := range states {
		if name == "" {
			return errEmptyCategoryName
		}
		if state.Trainings < 0 {
			return fmt.Errorf("%w for %q: %d", errInvalidTrainings, name, state.Trainings)
		}

		cat := NewCategory(name)
		cat.trainings = state.Trainings
		for token, weight := range state.Tokens {
			if token == "" {
				return fmt.Errorf("%w in %q", errEmptyToken, name)
			}
			if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
				return fmt.Errorf("%w: %q token %q: %f", ErrMalformedWeight, name, token, weight)
			}
			cat.tokens[token] = weight
			cat.tally += weight
		}
		replacement[name] = cat
	}

	cats.categories = replacement
	return nil
}
