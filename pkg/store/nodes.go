package store

import (
	"context"
	"fmt"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/outline"
)

// Node returns the node with id, its full subtree and its sibling link.
func (s *Store) Node(ctx context.Context, id string) (*outline.Node, error) {
	n, err := s.readNode(id)
	if err != nil {
		return nil, err
	}
	nodes, err := s.pageNodes(ctx, n.Page)
	if err != nil {
		return nil, err
	}
	attach(n, siblings(nodes))
	return n, nil
}

// TopLevelNodes returns the ordered root nodes of page with their subtrees.
func (s *Store) TopLevelNodes(ctx context.Context, page string) ([]*outline.Node, error) {
	if _, err := s.readPage(page); err != nil {
		return nil, err
	}
	nodes, err := s.pageNodes(ctx, page)
	if err != nil {
		return nil, err
	}
	index := siblings(nodes)
	roots := index[""]
	out := make([]*outline.Node, 0, len(roots))
	for _, r := range roots {
		c := *r
		attach(&c, index)
		out = append(out, &c)
	}
	return out, nil
}

// InsertSibling inserts a node directly after afterID at the same level.
func (s *Store) InsertSibling(ctx context.Context, afterID, content string) (*outline.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	after, err := s.readNode(afterID)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, after.Page, after.Parent, after.ID, content)
}

// InsertChild inserts a node as the first child of parentID.
func (s *Store) InsertChild(ctx context.Context, parentID, content string) (*outline.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, err := s.readNode(parentID)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, parent.Page, parent.ID, "", content)
}

// AppendChild inserts a node as the last child of parentID.
func (s *Store) AppendChild(ctx context.Context, parentID, content string) (*outline.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, err := s.readNode(parentID)
	if err != nil {
		return nil, err
	}
	left, err := s.lastChild(ctx, parent.Page, parent.ID)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, parent.Page, parent.ID, left, content)
}

// AppendTopLevel inserts a node after the last root of page.
func (s *Store) AppendTopLevel(ctx context.Context, page, content string) (*outline.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readPage(page); err != nil {
		return nil, err
	}
	left, err := s.lastChild(ctx, page, "")
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, page, "", left, content)
}

func (s *Store) lastChild(ctx context.Context, page, parent string) (string, error) {
	nodes, err := s.pageNodes(ctx, page)
	if err != nil {
		return "", err
	}
	kids := siblings(nodes)[parent]
	if len(kids) == 0 {
		return "", nil
	}
	return kids[len(kids)-1].ID, nil
}

// insert places a new node under parent directly after left ("" for first)
// and relinks the node that used to follow left.
func (s *Store) insert(ctx context.Context, page, parent, left, content string) (*outline.Node, error) {
	p, err := s.readPage(page)
	if err != nil {
		return nil, err
	}
	nodes, err := s.pageNodes(ctx, page)
	if err != nil {
		return nil, err
	}

	at := s.now()
	n := &outline.Node{
		ID:      s.newID(),
		Page:    page,
		Parent:  parent,
		Left:    left,
		Content: content,
		Created: at,
		Updated: at,
	}

	b := change.Batch{}
	if err := s.writeNode(n); err != nil {
		return nil, err
	}
	nodeRecords(&b, n)

	for _, right := range nodes {
		if right.Parent == parent && right.Left == left && right.ID != n.ID {
			right.Left = n.ID
			if err := s.writeNode(right); err != nil {
				return nil, err
			}
			b.Set(right.ID, change.AttrLeft, right.Left)
			b.Touch(change.Touched{ID: right.ID, Page: page})
			break
		}
	}

	if err := s.touchPage(p, at, &b); err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	return n, nil
}

// UpdateNode replaces the content of id. Callers keep their own copy in step.
func (s *Store) UpdateNode(ctx context.Context, id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.readNode(id)
	if err != nil {
		return err
	}
	p, err := s.readPage(n.Page)
	if err != nil {
		return err
	}
	at := s.now()
	b := change.Batch{}
	b.Retract(n.ID, change.AttrContent, n.Content)
	n.Content = content
	n.Updated = at
	if err := s.writeNode(n); err != nil {
		return err
	}
	b.Set(n.ID, change.AttrContent, content)
	b.Set(n.ID, change.AttrUpdatedAt, at.Millis())
	b.Touch(change.Touched{ID: n.ID, Page: n.Page})
	if err := s.touchPage(p, at, &b); err != nil {
		return err
	}
	s.publish(ctx, b)
	return nil
}

// DeleteNode removes id and its subtree and relinks its right sibling.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.readNode(id)
	if err != nil {
		return err
	}
	p, err := s.readPage(n.Page)
	if err != nil {
		return err
	}
	nodes, err := s.pageNodes(ctx, n.Page)
	if err != nil {
		return err
	}

	b := change.Batch{}
	for _, right := range nodes {
		if right.Parent == n.Parent && right.Left == n.ID {
			right.Left = n.Left
			if err := s.writeNode(right); err != nil {
				return err
			}
			b.Set(right.ID, change.AttrLeft, right.Left)
			b.Touch(change.Touched{ID: right.ID, Page: n.Page})
			break
		}
	}

	index := siblings(nodes)
	var erase func(string) error
	erase = func(nodeID string) error {
		for _, c := range index[nodeID] {
			if err := erase(c.ID); err != nil {
				return err
			}
		}
		if err := s.eraseNode(nodeID); err != nil {
			return fmt.Errorf("store: erase node %s: %w", nodeID, err)
		}
		b.Retract(nodeID, change.AttrPage, n.Page)
		return nil
	}
	if err := erase(n.ID); err != nil {
		return err
	}

	if err := s.touchPage(p, s.now(), &b); err != nil {
		return err
	}
	s.publish(ctx, b)
	return nil
}

// MoveNode detaches id and reinserts it (with its subtree) after afterID.
func (s *Store) MoveNode(ctx context.Context, id, afterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.readNode(id)
	if err != nil {
		return err
	}
	after, err := s.readNode(afterID)
	if err != nil {
		return err
	}
	if n.Page != after.Page {
		return fmt.Errorf("store: cannot move %s across pages", id)
	}
	if n.ID == after.ID {
		return nil
	}
	nodes, err := s.pageNodes(ctx, n.Page)
	if err != nil {
		return err
	}
	// Refuse to move a node under its own subtree.
	for cur := after; cur != nil && cur.Parent != ""; {
		if cur.Parent == n.ID {
			return fmt.Errorf("store: cannot move %s into its own subtree", id)
		}
		var next *outline.Node
		for _, c := range nodes {
			if c.ID == cur.Parent {
				next = c
				break
			}
		}
		cur = next
	}

	b := change.Batch{}
	byID := make(map[string]*outline.Node, len(nodes))
	for _, c := range nodes {
		byID[c.ID] = c
	}
	// Close the gap left behind.
	for _, right := range nodes {
		if right.Parent == n.Parent && right.Left == n.ID {
			right.Left = n.Left
			if err := s.writeNode(right); err != nil {
				return err
			}
			b.Set(right.ID, change.AttrLeft, right.Left)
			break
		}
	}
	// Open a gap after the target.
	for _, right := range nodes {
		if right.ID != n.ID && right.Parent == after.Parent && right.Left == after.ID {
			right.Left = n.ID
			if err := s.writeNode(right); err != nil {
				return err
			}
			b.Set(right.ID, change.AttrLeft, right.Left)
			break
		}
	}
	moved := byID[n.ID]
	moved.Parent = after.Parent
	moved.Left = after.ID
	moved.Updated = s.now()
	if err := s.writeNode(moved); err != nil {
		return err
	}
	b.Set(moved.ID, change.AttrParent, moved.Parent)
	b.Set(moved.ID, change.AttrLeft, moved.Left)
	b.Touch(change.Touched{ID: moved.ID, Page: moved.Page})

	p, err := s.readPage(n.Page)
	if err != nil {
		return err
	}
	if err := s.touchPage(p, moved.Updated, &b); err != nil {
		return err
	}
	s.publish(ctx, b)
	return nil
}
