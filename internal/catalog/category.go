package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCategory = errors.New("duplicate category id")
	ErrUnknownParent     = errors.New("unknown parent category")
	ErrCategoryCycle     = errors.New("category cycle")
)

// Category is a node of the category tree. Children are kept in display order.
type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Children []Category `json:"children,omitempty"`
}

// Tree is the ordered sequence of top-level categories.
type Tree []Category

// CategoryRecord is the flat, parent-referencing form categories are stored in.
type CategoryRecord struct {
	ID       int64
	ParentID *int64
	Name     string
}

// BuildTree assembles flat records into a Tree. Siblings keep the relative
// order they have in records. Parents may appear after their children.
func BuildTree(records []CategoryRecord) (Tree, error) {
	if len(records) == 0 {
		return Tree{}, nil
	}

	index := make(map[int64]int, len(records))
	for i, r := range records {
		if _, exists := index[r.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateCategory, r.ID)
		}
		index[r.ID] = i
	}

	var roots []int
	children := make(map[int64][]int, len(records))
	for i, r := range records {
		if r.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		if _, ok := index[*r.ParentID]; !ok {
			return nil, fmt.Errorf("%w: category %d references %d", ErrUnknownParent, r.ID, *r.ParentID)
		}
		children[*r.ParentID] = append(children[*r.ParentID], i)
	}

	// Anything not reachable from a root sits on a parent cycle.
	visited := make([]bool, len(records))
	var build func(i int) Category
	build = func(i int) Category {
		visited[i] = true
		r := records[i]
		node := Category{ID: r.ID, Name: r.Name}
		for _, c := range children[r.ID] {
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	tree := make(Tree, 0, len(roots))
	for _, i := range roots {
		tree = append(tree, build(i))
	}
	for i, seen := range visited {
		if !seen {
			return nil, fmt.Errorf("%w: category %d is not reachable from a root", ErrCategoryCycle, records[i].ID)
		}
	}
	return tree, nil
}

// Find returns the node with the given id.
func (t Tree) Find(id int64) (Category, bool) {
	for node := range t.walk() {
		if node.ID == id {
			return *node, true
		}
	}
	return Category{}, false
}

// Descendants returns id followed by the ids of every category below it, in
// pre-order. It returns nil when id is not in the tree.
func (t Tree) Descendants(id int64) []int64 {
	node, ok := t.Find(id)
	if !ok {
		return nil
	}
	ids := []int64{node.ID}
	for row := range Rows(node.Children) {
		ids = append(ids, row.ID)
	}
	return ids
}

// Len counts every node in the tree.
func (t Tree) Len() int {
	n := 0
	for range t.walk() {
		n++
	}
	return n
}
