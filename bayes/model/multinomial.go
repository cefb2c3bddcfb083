// Package model implements the multinomial scoring that turns one category's
// accumulated token weights into a classification score for one document.
package model

import (
	"math"

	"github.com/simplebayes/simplebayes/bayes/accumulator"
	"github.com/simplebayes/simplebayes/bayes/fraction"
)

// Mode selects how merged token weights are normalized before summation.
type Mode int

const (
	// FrequencyWeighting discounts merged token weights by corpus-wide
	// document frequency. This is the default mode.
	FrequencyWeighting Mode = iota
	// MinMax scales merged token weights into each token's observed
	// weight range across all categories.
	MinMax
)

// Document is the unit under classification: its token-frequency map plus
// the corpus-derived scalars the frequency-weighting mode needs. The
// scalars are supplied by the calling context, not computed here.
type Document struct {
	Tokens                map[string]float64
	TotalTrainings        int
	MeanTokensPerTraining float64
}

// NewDocument builds a Document from an ordered token sequence; duplicate
// tokens increase weight.
func NewDocument(tokens []string, totalTrainings int, meanTokensPerTraining float64) Document {
	freq := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		freq[token]++
	}
	return Document{
		Tokens:                freq,
		TotalTrainings:        totalTrainings,
		MeanTokensPerTraining: meanTokensPerTraining,
	}
}

// TokenMass returns the document's total token weight.
func (doc Document) TokenMass() float64 {
	var total float64
	for _, weight := range doc.Tokens {
		total += weight
	}
	return total
}

// Score computes one category's classification score for doc against the
// corpus view.
//
// The category's frequency map is restricted to the document's tokens and
// merged with an explicit fallback: a token the category has never seen
// keeps the document's own weight instead of collapsing to zero. Merged
// weights are normalized per mode, summed (with the accumulator's empty-map
// identity), and log10-transformed into the likelihood term. The prior is
// the share of the category's total weight carried by the document's
// tokens. The returned product is a relative ranking, not a probability;
// when every document token is unknown to the whole corpus the min-max mode
// degrades to negative infinity for all categories at once, a fair tie.
func Score(categoryTokens map[string]float64, doc Document, view accumulator.CorpusView, mode Mode) float64 {
	merged := make(map[string]float64, len(doc.Tokens))
	docKeys := make([]string, 0, len(doc.Tokens))
	for token, docWeight := range doc.Tokens {
		docKeys = append(docKeys, token)
		if weight, seen := categoryTokens[token]; seen {
			merged[token] = weight
		} else {
			// Unseen by this category: the document's own weight is the
			// neutral fallback.
			merged[token] = docWeight
		}
	}

	normalized := make(map[string]float64, len(merged))
	for token, weight := range merged {
		switch mode {
		case MinMax:
			normalized[token] = accumulator.MinMaxNormalize(view, token, weight)
		default:
			df := accumulator.DocumentFrequency(view, token)
			normalized[token] = fraction.TokenWeight(weight, doc.TotalTrainings, df, doc.MeanTokensPerTraining)
		}
	}

	likelihood := math.Log10(accumulator.SumAll(normalized))
	prior := fraction.Ratio(categoryTokens, docKeys)
	return likelihood * prior
}
