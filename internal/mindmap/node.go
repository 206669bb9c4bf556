// Package mindmap models the generated concept tree and its exports.
package mindmap

import (
	"encoding/json"
	"fmt"
)

// Node is one entry in the mind-map tree. Children are owned exclusively
// by their parent, so the tree has no sharing and no cycles.
type Node struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Children []*Node `json:"children"`
}

// FormatError reports a generated document that cannot be parsed into a
// well-formed node tree.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed mind map: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Parse decodes raw JSON into a node tree and checks that every node
// carries an id and text. A missing children field reads as empty.
func Parse(raw json.RawMessage) (*Node, error) {
	var root Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &FormatError{Err: err}
	}

	if err := checkTree(&root); err != nil {
		return nil, &FormatError{Err: err}
	}
	return &root, nil
}

// checkTree walks the tree iteratively, rejecting nil or incomplete
// nodes. Depth is unbounded in generated content, so no recursion.
func checkTree(root *Node) error {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n == nil {
			return fmt.Errorf("nil node")
		}
		if n.ID == "" {
			return fmt.Errorf("node %q has no id", n.Text)
		}
		if n.Text == "" {
			return fmt.Errorf("node %q has no text", n.ID)
		}
		stack = append(stack, n.Children...)
	}
	return nil
}

// UpdateNodeText returns a new tree identical in shape to root, with the
// first node (in depth-first preorder) whose id matches carrying newText.
// If no node matches, the returned tree is deep-equal to the input. The
// input tree is never mutated.
//
// The traversal is an explicit stack so arbitrarily deep generated trees
// cannot exhaust the call stack, and so "first match wins" under
// duplicate ids is the deliberate policy rather than an accident.
func UpdateNodeText(root *Node, id, newText string) *Node {
	if root == nil {
		return nil
	}

	newRoot := cloneTree(root)

	matched := false
	stack := []*Node{newRoot}
	for len(stack) > 0 {
		// Pop from the front of a preorder-ordered stack: push children
		// in reverse so the leftmost subtree is visited first.
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !matched && n.ID == id {
			n.Text = newText
			matched = true
			break
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}

	return newRoot
}

// Find returns the first node (preorder) with the given id, or nil.
func Find(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.ID == id {
			return n
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}

// cloneTree deep-copies a tree iteratively.
func cloneTree(root *Node) *Node {
	newRoot := &Node{ID: root.ID, Text: root.Text}

	type pair struct {
		src *Node
		dst *Node
	}
	stack := []pair{{root, newRoot}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]*Node, len(p.src.Children))
		for i, child := range p.src.Children {
			dst := &Node{ID: child.ID, Text: child.Text}
			p.dst.Children[i] = dst
			stack = append(stack, pair{child, dst})
		}
	}
	return newRoot
}

// countNodes returns the total node count of the tree.
func countNodes(root *Node) int {
	if root == nil {
		return 0
	}
	n := 0
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, node.Children...)
	}
	return n
}
