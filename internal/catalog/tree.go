package catalog

import (
	"iter"
	"strings"
)

// IndentWidth is the number of non-breaking spaces drawn per depth level.
const IndentWidth = 5

const nbsp = "\u00a0"

// Row is one renderable line of the category dropdown.
type Row struct {
	ID     int64  `json:"id"`
	Indent int    `json:"indent"`
	Name   string `json:"name"`
}

// Label is the display text: the name behind a purely visual indent.
func (r Row) Label() string {
	if r.Indent <= 0 {
		return r.Name
	}
	return strings.Repeat(nbsp, r.Indent*IndentWidth) + r.Name
}

// Rows is RowsAt with a starting indent of 0.
func Rows(tree Tree) iter.Seq[Row] {
	return RowsAt(tree, 0)
}

// RowsAt lazily flattens tree in pre-order: every node is yielded at the
// current indent, followed by its children at indent+1. Sibling order is the
// order of the child slices.
//
// The tree must be acyclic; trees produced by BuildTree always are.
func RowsAt(tree Tree, indent int) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for node, depth := range preorder(tree, indent) {
			if !yield(Row{ID: node.ID, Indent: depth, Name: node.Name}) {
				return
			}
		}
	}
}

func (t Tree) walk() iter.Seq[*Category] {
	return func(yield func(*Category) bool) {
		for node := range preorder(t, 0) {
			if !yield(node) {
				return
			}
		}
	}
}

// preorder walks with an explicit stack of pending sibling slices so deep
// trees cannot exhaust the goroutine stack.
func preorder(tree Tree, indent int) iter.Seq2[*Category, int] {
	type frame struct {
		nodes []Category
		depth int
	}
	return func(yield func(*Category, int) bool) {
		stack := []frame{{nodes: tree, depth: indent}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.nodes) == 0 {
				stack = stack[:len(stack)-1]
				continue
			}
			node := &top.nodes[0]
			depth := top.depth
			top.nodes = top.nodes[1:]

			if !yield(node, depth) {
				return
			}
			if len(node.Children) > 0 {
				stack = append(stack, frame{nodes: node.Children, depth: depth + 1})
			}
		}
	}
}
