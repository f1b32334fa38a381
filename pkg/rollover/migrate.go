package rollover

import (
	"context"
	"fmt"

	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
)

// Result is what migrating one source subtree produced.
type Result struct {
	// Cursor is the last node written at the level the source node was
	// written to.
	Cursor *outline.Node
	// Fresh reports that Cursor is still an unwritten placeholder, so the
	// next write may reuse it in place.
	Fresh bool
	// Deleted reports that the source node was removed after copying.
	Deleted bool
	// HasDone reports that the subtree held a done node.
	HasDone bool
}

// Migrator copies source subtrees into a destination page.
type Migrator struct {
	Backend    Backend
	Delimiters marker.Delimiters
}

// Migrate copies src after (or into) cursor and removes the source copy
// unless something done stays behind with it. Done nodes are neither copied
// nor removed. cursor is reused in place only when it is an empty leaf.
func (m *Migrator) Migrate(ctx context.Context, src, cursor *outline.Node, groupHasAnyDone bool) (Result, error) {
	if cursor == nil {
		return Result{}, ErrMissingCursor
	}
	return m.MigrateAt(ctx, src, cursor, cursor.IsEmpty() && cursor.Leaf(), groupHasAnyDone)
}

// MigrateAt is Migrate with the placeholder state of cursor given by the
// caller, as returned in a previous Result.
func (m *Migrator) MigrateAt(ctx context.Context, src, cursor *outline.Node, fresh, groupHasAnyDone bool) (Result, error) {
	if cursor == nil {
		return Result{}, ErrMissingCursor
	}
	if marker.Extract(src.Content).Terminal() {
		return Result{Cursor: cursor, Fresh: fresh, HasDone: true}, nil
	}

	dest, err := m.write(ctx, cursor, fresh, src.Content)
	if err != nil {
		return Result{}, err
	}

	hasDone := false
	if len(src.Children) > 0 {
		anchor, err := m.Backend.InsertChild(ctx, dest.ID, "")
		if err != nil {
			return Result{}, fmt.Errorf("rollover: anchor under %s: %w", dest.ID, err)
		}
		child, unwritten := anchor, true
		for _, c := range src.Children {
			r, err := m.MigrateAt(ctx, c, child, unwritten, groupHasAnyDone)
			if err != nil {
				return Result{}, err
			}
			child, unwritten = r.Cursor, r.Fresh
			hasDone = hasDone || r.HasDone
		}
		if unwritten {
			if err := m.Backend.DeleteNode(ctx, anchor.ID); err != nil {
				return Result{}, fmt.Errorf("rollover: drop anchor %s: %w", anchor.ID, err)
			}
		}
	}

	title := m.Delimiters.Highlighted(src.Content) && groupHasAnyDone
	if hasDone || title {
		return Result{Cursor: dest, HasDone: hasDone}, nil
	}
	if err := m.Backend.DeleteNode(ctx, src.ID); err != nil {
		return Result{}, fmt.Errorf("rollover: delete source %s: %w", src.ID, err)
	}
	return Result{Cursor: dest, Deleted: true}, nil
}

// write puts text into a fresh cursor in place, or into a new sibling after
// it. The update call returns nothing, so the cursor is patched by hand.
func (m *Migrator) write(ctx context.Context, cursor *outline.Node, fresh bool, text string) (*outline.Node, error) {
	if fresh {
		if err := m.Backend.UpdateNode(ctx, cursor.ID, text); err != nil {
			return nil, fmt.Errorf("rollover: write %s: %w", cursor.ID, err)
		}
		cursor.Content = text
		return cursor, nil
	}
	n, err := m.Backend.InsertSibling(ctx, cursor.ID, text)
	if err != nil {
		return nil, fmt.Errorf("rollover: insert after %s: %w", cursor.ID, err)
	}
	return n, nil
}
