package main

import (
	"sort"

	"github.com/simplebayes/simplebayes/bayes"
)

func getCategoryList(c *ClassifierAPI) []string {
	info := c.classifier.Info()
	list := make([]string, 0, len(info))
	for name := range info {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// StandardClassifierResponse is a standard response from the api displaying
// the list of categories and success bool.
type StandardClassifierResponse struct {
	Success    bool
	Categories []string
}

// NewStandardClassifierResponse gets an assembled instance of StandardClassifierResponse.
func NewStandardClassifierResponse(c *ClassifierAPI, success bool) *StandardClassifierResponse {
	return &StandardClassifierResponse{
		Success:    success,
		Categories: getCategoryList(c),
	}
}

// NewTrainingClassifierResponse reports the category list after a training
// mutation.
func NewTrainingClassifierResponse(c *ClassifierAPI, success bool) *StandardClassifierResponse {
	return NewStandardClassifierResponse(c, success)
}

// InfoClassifierResponse describes per-category training state.
type InfoClassifierResponse struct {
	Categories map[string]bayes.CategoryInfo
}

// NewInfoClassifierResponse gets an assembled instance of InfoClassifierResponse.
func NewInfoClassifierResponse(c *ClassifierAPI) *InfoClassifierResponse {
	return &InfoClassifierResponse{Categories: c.classifier.Info()}
}
