// Package outline defines the pages and nodes that make up a journal outline.
package outline

import (
	"errors"
	"strings"
)

var (
	ErrNodeNotFound = errors.New("outline: node not found")
	ErrPageNotFound = errors.New("outline: page not found")
)

// Node is a single outline element. Siblings are ordered by Left, the id of
// the preceding sibling under the same Parent ("" for the first one).
type Node struct {
	ID       string    `json:"id"`
	Page     string    `json:"page"`
	Parent   string    `json:"parent,omitempty"`
	Left     string    `json:"left,omitempty"`
	Content  string    `json:"content"`
	Created  Timestamp `json:"created"`
	Updated  Timestamp `json:"updated"`
	Children []*Node   `json:"children,omitempty"`
}

// New returns a detached node with the given content.
func New(page, content string) *Node {
	return &Node{
		Page:    page,
		Content: content,
	}
}

// IsEmpty reports whether the node carries no text.
func (n *Node) IsEmpty() bool {
	return n == nil || strings.TrimSpace(n.Content) == ""
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool {
	return n == nil || len(n.Children) == 0
}

// Walk visits n and its descendants depth first, stopping when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Clone deep copies the node and its children.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Content
}
