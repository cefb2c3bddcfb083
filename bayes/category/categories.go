package category

import (
	"sort"

	"github.com/simplebayes/simplebayes/bayes/accumulator"
)

// Categories represents all our trained categories and enables us to
// interact with them.
type Categories struct {
	categories map[string]*Category
}

// NewCategories returns an empty corpus.
func NewCategories() *Categories {
	return &Categories{
		categories: make(map[string]*Category),
	}
}

// AddCategory is responsible for adding a new trainable category.
func (cats *Categories) AddCategory(name string) *Category {
	cat := NewCategory(name)
	cats.categories[name] = cat
	return cat
}

// GetCategory returns a specified category, lazily creating it when missing.
func (cats *Categories) GetCategory(name string) *Category {
	if cat, ok := cats.categories[name]; ok {
		return cat
	}
	return cats.AddCategory(name)
}

// LookupCategory returns a category without creating it.
func (cats *Categories) LookupCategory(name string) (*Category, bool) {
	cat, ok := cats.categories[name]
	return cat, ok
}

// DeleteCategory removes a category from the corpus.
func (cats *Categories) DeleteCategory(name string) {
	delete(cats.categories, name)
}

// Count returns the number of trained categories.
func (cats *Categories) Count() int {
	return len(cats.categories)
}

// Names returns every category name in sorted order.
func (cats *Categories) Names() []string {
	names := make([]string, 0, len(cats.categories))
	for name := range cats.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// View builds the corpus snapshot the accumulator consumes: every category's
// frequency map keyed by name. The maps are shared, not copied; the snapshot
// is stable as long as no training call runs against it.
func (cats *Categories) View() accumulator.CorpusView {
	view := make(accumulator.CorpusView, len(cats.categories))
	for name, cat := range cats.categories {
		view[name] = cat.tokens
	}
	return view
}

// TotalTrainings returns the number of training calls across the corpus.
func (cats *Categories) TotalTrainings() int {
	total := 0
	for _, cat := range cats.categories {
		total += cat.trainings
	}
	return total
}

// TotalTokenMass returns the summed token mass across the corpus.
func (cats *Categories) TotalTokenMass() float64 {
	var total float64
	for _, cat := range cats.categories {
		total += cat.tally
	}
	return total
}

// MeanTokensPerTraining returns the mean token mass contributed by one
// training call, 0 for an untrained corpus.
func (cats *Categories) MeanTokensPerTraining() float64 {
	trainings := cats.TotalTrainings()
	if trainings == 0 {
		return 0
	}
	return cats.TotalTokenMass() / float64(trainings)
}
