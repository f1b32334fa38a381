// Package rollover carries unfinished work from the most recent earlier
// journal page into a newly created one.
package rollover

import (
	"context"

	"tableflip.dev/carry/pkg/outline"
)

// Backend is the slice of the outline store the engine drives. Update and
// AppendTopLevel results are not trusted for cursor state; the engine mirrors
// writes locally and re-fetches when it needs the real tail of a page.
type Backend interface {
	Node(ctx context.Context, id string) (*outline.Node, error)
	TopLevelNodes(ctx context.Context, page string) ([]*outline.Node, error)
	InsertSibling(ctx context.Context, afterID, content string) (*outline.Node, error)
	InsertChild(ctx context.Context, parentID, content string) (*outline.Node, error)
	UpdateNode(ctx context.Context, id, content string) error
	DeleteNode(ctx context.Context, id string) error
	AppendTopLevel(ctx context.Context, page, content string) (*outline.Node, error)
	JournalsBefore(ctx context.Context, dateKey int) ([]*outline.Page, error)
}
