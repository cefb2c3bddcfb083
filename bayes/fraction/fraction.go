// Package fraction supplies the ratio and token-weighting statistics the
// multinomial model combines into priors and frequency-weighted scores.
package fraction

import (
	"math"

	"github.com/simplebayes/simplebayes/bayes/accumulator"
)

// Ratio returns the share of m's total weight carried by keys. With the
// accumulator's empty-map identity the result is always positive,
// conventionally in (0, 1].
func Ratio(m map[string]float64, keys []string) float64 {
	return accumulator.SumOnly(m, keys) / accumulator.SumAll(m)
}

// TokenWeight discounts a merged token weight by how widespread the token is
// across trained categories. trainings and meanTokens describe the corpus
// (total training calls and mean token mass per training); docFrequency is
// the number of categories containing the token. The factor shrinks as
// docFrequency grows, inverse-document-frequency style, so tokens shared by
// every category carry the least signal.
func TokenWeight(weight float64, trainings, docFrequency int, meanTokens float64) float64 {
	mass := meanTokens * float64(trainings)
	if mass < 1 {
		mass = 1
	}
	return weight * math.Log10(1+mass/float64(docFrequency+1))
}
