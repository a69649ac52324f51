// Package view holds the presentational components of the catalog page. Each
// component is a pure function of the state handed to it by its owner and
// reports user interaction through a single callback; none of them keeps
// selection state of its own.
package view

import (
	"strconv"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/parse"
)

// SentinelLabel is shown for the "no selection" entry of the category control.
const SentinelLabel = "Select Category"

// Option is one entry of the category control.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Indent   int    `json:"indent"`
	Selected bool   `json:"selected"`
}

// CategorySelector renders the category dropdown and forwards choices to its
// owner.
type CategorySelector struct {
	tree     catalog.Tree
	onChange func(string)
}

// NewCategorySelector creates a selector over tree. onChange receives the raw
// option value of every choice.
func NewCategorySelector(tree catalog.Tree, onChange func(string)) *CategorySelector {
	return &CategorySelector{tree: tree, onChange: onChange}
}

// Options lists the sentinel entry followed by one entry per category in
// display order. selected is the value currently held by the owner; it is
// matched by id the same way the asset filter reads it, so "02" and "2.0"
// mark category 2.
func (s *CategorySelector) Options(selected string) []Option {
	empty := parse.IsEmpty(selected)
	id, err := parse.CategoryID(selected)
	valid := !empty && err == nil

	opts := []Option{{Value: "", Label: SentinelLabel, Selected: empty}}
	for row := range catalog.Rows(s.tree) {
		opts = append(opts, Option{
			Value:    strconv.FormatInt(row.ID, 10),
			Label:    row.Label(),
			Indent:   row.Indent,
			Selected: valid && id == row.ID,
		})
	}
	return opts
}

// Select reports one user choice. The value is not checked against the tree.
func (s *CategorySelector) Select(value string) {
	if s.onChange != nil {
		s.onChange(value)
	}
}
