// Package accumulator provides pure aggregation primitives over weighted
// token-frequency maps and over corpus-wide views of them. Nothing here
// mutates its inputs, so every function is safe to call concurrently against
// a stable snapshot.
package accumulator

import "sort"

// CorpusView is a read-only snapshot of every category's frequency map,
// keyed by category name. It decouples cross-category statistics from the
// corpus's concrete representation. Callers must not mutate a view while a
// classification that uses it is in flight.
type CorpusView map[string]map[string]float64

// SumAll returns the sum of every weight in m. An empty map sums to 1, an
// additive identity that keeps an untrained map from zeroing out the
// products and logarithms built on top of it. The sum accumulates in sorted
// key order: float addition is not associative, and map iteration order
// would otherwise leak into the last bits of every score.
func SumAll(m map[string]float64) float64 {
	if len(m) == 0 {
		return 1
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var total float64
	for _, key := range keys {
		total += m[key]
	}
	return total
}

// SumOnly returns SumAll restricted to the given keys. Keys absent from m
// contribute nothing; an empty restriction inherits SumAll's identity of 1.
func SumOnly(m map[string]float64, keys []string) float64 {
	picked := make(map[string]float64, len(keys))
	for _, key := range keys {
		if weight, ok := m[key]; ok {
			picked[key] = weight
		}
	}
	return SumAll(picked)
}

// DocumentFrequency returns how many categories in the view contain token.
// Presence is what counts, not weight.
func DocumentFrequency(view CorpusView, token string) int {
	count := 0
	for _, tokens := range view {
		if _, ok := tokens[token]; ok {
			count++
		}
	}
	return count
}

// MaxWeight returns the largest weight assigned to token across the view,
// or 0 when no category contains it.
func MaxWeight(view CorpusView, token string) float64 {
	var max float64
	for _, tokens := range view {
		if weight, ok := tokens[token]; ok && weight > max {
			max = weight
		}
	}
	return max
}

// MinWeight returns the smallest weight assigned to token across the view.
// A category lacking the token contributes 0, so the result is 0 whenever at
// least one category has never seen it. An empty view yields 0.
func MinWeight(view CorpusView, token string) float64 {
	min := 0.0
	first := true
	for _, tokens := range view {
		weight := tokens[token]
		if first || weight < min {
			min = weight
			first = false
		}
	}
	return min
}

// MinMaxNormalize scales weight into the token's observed range across the
// view: (weight - MinWeight) / MaxWeight. When MaxWeight is 0 the token is
// unknown to every category and the result is exactly 0.
func MinMaxNormalize(view CorpusView, token string, weight float64) float64 {
	max := MaxWeight(view, token)
	if max == 0 {
		return 0
	}
	return (weight - MinWeight(view, token)) / max
}
