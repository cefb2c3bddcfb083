// Package bayes implements a multinomial naive-Bayes text classifier. It
// accumulates weighted token-frequency statistics per category during
// training and scores unseen text against every known category.
package bayes

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/simplebayes/simplebayes/bayes/category"
	"github.com/simplebayes/simplebayes/bayes/model"
	"github.com/simplebayes/simplebayes/bayes/tokenizer"
)

// ErrNoCategories is returned when classification is attempted against an
// untrained corpus.
var ErrNoCategories = errors.New("no trained categories")

var errEmptyCategoryName = errors.New("category name must not be empty")

// Classification is the outcome of classifying one text sample.
type Classification struct {
	Category string
	Score    float64
}

// Classifier is responsible for training on and classifying text samples.
// All methods are safe for concurrent use; training calls serialize against
// each other and against in-flight classifications.
type Classifier struct {
	mu         sync.RWMutex
	categories *category.Categories
	tokenize   tokenizer.Tokenizer
	minMax     bool
}

// Option configures a Classifier at construction.
type Option func(*Classifier)

// WithTokenizer replaces the default word tokenizer.
func WithTokenizer(t tokenizer.Tokenizer) Option {
	return func(c *Classifier) {
		if t != nil {
			c.tokenize = t
		}
	}
}

// WithMinMaxNormalization selects min-max weight scaling instead of the
// default frequency weighting. The mode applies to every category of every
// classification, keeping relative comparisons fair.
func WithMinMaxNormalization() Option {
	return func(c *Classifier) {
		c.minMax = true
	}
}

// NewClassifier returns an empty classifier ready for training.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		categories: category.NewCategories(),
		tokenize:   tokenizer.Words,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Train merges text's tokens into a category with weight 1.
func (c *Classifier) Train(name, text string) error {
	return c.TrainWeighted(name, text, 1)
}

// TrainWeighted merges text's tokens into a category, multiplying each
// token occurrence by weight. The category's training counter advances by
// one regardless of weight.
func (c *Classifier) TrainWeighted(name, text string, weight float64) error {
	if name == "" {
		return errEmptyCategoryName
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %f", category.ErrMalformedWeight, weight)
	}

	tokens := c.tokenize(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	cat := c.categories.GetCategory(name)
	for _, token := range tokens {
		if err := cat.TrainToken(token, weight); err != nil {
			return err
		}
	}
	cat.RecordTraining()
	return nil
}

// Untrain reverses one weight-1 training call, deleting the category once
// its token mass is exhausted.
func (c *Classifier) Untrain(name, text string) {
	tokens := c.tokenize(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	cat, ok := c.categories.LookupCategory(name)
	if !ok {
		return
	}

	for _, token := range tokens {
		cat.UntrainToken(token, 1)
	}
	cat.ForgetTraining()

	if cat.Tally() <= 0 {
		c.categories.DeleteCategory(name)
	}
}

// Score returns every trained category's score for text. The map is empty
// when nothing has been trained. Scores are relative rankings, not
// probabilities; only their ordering is meaningful.
func (c *Classifier) Score(text string) map[string]float64 {
	tokens := c.tokenize(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.scoreTokens(tokens)
}

// Classify returns the best-scoring category for text. Exact ties resolve
// to the lexicographically smallest category name.
func (c *Classifier) Classify(text string) (Classification, error) {
	tokens := c.tokenize(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.categories.Count() == 0 {
		return Classification{}, ErrNoCategories
	}

	scores := c.scoreTokens(tokens)
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	best := Classification{Category: names[0], Score: scores[names[0]]}
	for _, name := range names[1:] {
		if scores[name] > best.Score {
			best = Classification{Category: name, Score: scores[name]}
		}
	}
	return best, nil
}

// scoreTokens scores an already-tokenized sample against a stable corpus
// snapshot. Callers hold at least a read lock.
func (c *Classifier) scoreTokens(tokens []string) map[string]float64 {
	view := c.categories.View()
	doc := model.NewDocument(tokens, c.categories.TotalTrainings(), c.categories.MeanTokensPerTraining())

	mode := model.FrequencyWeighting
	if c.minMax {
		mode = model.MinMax
	}

	scores := make(map[string]float64, c.categories.Count())
	for _, name := range c.categories.Names() {
		cat, ok := c.categories.LookupCategory(name)
		if !ok {
			continue
		}
		scores[name] = model.Score(cat.Tokens(), doc, view, mode)
	}
	return scores
}

// Flush empties the categories to remove all values.
func (c *Classifier) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = category.NewCategories()
}

// CategoryInfo summarizes one trained category.
type CategoryInfo struct {
	Trainings  int
	TokenCount int
	TokenMass  float64
}

// Info returns a snapshot summary of every trained category.
func (c *Classifier) Info() map[string]CategoryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info := make(map[string]CategoryInfo, c.categories.Count())
	for _, name := range c.categories.Names() {
		cat, ok := c.categories.LookupCategory(name)
		if !ok {
			continue
		}
		info[name] = CategoryInfo{
			Trainings:  cat.Trainings(),
			TokenCount: cat.TokenCount(),
			TokenMass:  cat.Tally(),
		}
	}
	return info
}

// ExportStates deep-copies the trained corpus for a persistence layer.
func (c *Classifier) ExportStates() map[string]category.PersistedCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categories.ExportStates()
}

// RestoreStates validates states and replaces the trained corpus with them.
func (c *Classifier) RestoreStates(states map[string]category.PersistedCategory) error {
	cats := category.NewCategories()
	if err := cats.ReplaceStates(states); err != nil {
		return err
	}

	c.mu.Lock()
	c.categories = cats
	c.mu.Unlock()
	return nil
}
