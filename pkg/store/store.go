// Package store persists journal pages and outline nodes on a key/value
// driver and reports every mutation as a change batch.
package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/change"
	"tableflip.dev/carry/pkg/feed"
	"tableflip.dev/carry/pkg/outline"
)

var (
	ErrPageExists    = errors.New("store: page already exists")
	ErrJournalExists = errors.New("store: journal already exists for that day")
)

const (
	pagePrefix = "page-"
	nodePrefix = "node-"
)

// Store is the outline backend: pages and nodes with parent and left-sibling
// links, a date query over journal pages, and a change feed.
type Store struct {
	kv     KV
	feed   feed.Publisher
	logger *zap.Logger
	clock  func() time.Time
	newID  func() string

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher sends change batches to p.
func WithPublisher(p feed.Publisher) Option {
	return func(s *Store) { s.feed = p }
}

// WithLogger sets the logger used for non-fatal problems.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDs overrides node id generation.
func WithIDs(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New builds a Store on kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		feed:   feed.Discard,
		logger: zap.NewNop(),
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load opens the driver named by cfg and builds a Store on it.
func Load(cfg Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("store: no config")
	}
	kv, err := OpenKV(cfg)
	if err != nil {
		return nil, err
	}
	return New(kv, opts...), nil
}

func (s *Store) now() outline.Timestamp {
	return outline.Timestamp{Time: s.clock().Truncate(time.Millisecond)}
}

func (s *Store) publish(ctx context.Context, b change.Batch) {
	if b.Empty() {
		return
	}
	if b.At.IsZero() {
		b.At = s.clock()
	}
	if err := s.feed.Publish(ctx, b); err != nil {
		s.logger.Warn("publish change batch", zap.Error(err))
	}
}

func pageKey(name string) string {
	return pagePrefix + base64.RawURLEncoding.EncodeToString([]byte(name))
}

func nodeKey(id string) string {
	return nodePrefix + id
}

func (s *Store) readPage(name string) (*outline.Page, error) {
	data, err := s.kv.Read(pageKey(name))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %q", outline.ErrPageNotFound, name)
		}
		return nil, err
	}
	p := &outline.Page{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("store: decode page %q: %w", name, err)
	}
	return p, nil
}

func (s *Store) writePage(p *outline.Page) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Write(pageKey(p.Name), data)
}

func (s *Store) readNode(id string) (*outline.Node, error) {
	if id == "" {
		return nil, outline.ErrNodeNotFound
	}
	data, err := s.kv.Read(nodeKey(id))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", outline.ErrNodeNotFound, id)
		}
		return nil, err
	}
	n := &outline.Node{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("store: decode node %s: %w", id, err)
	}
	return n, nil
}

func (s *Store) writeNode(n *outline.Node) error {
	flat := *n
	flat.Children = nil
	data, err := json.Marshal(&flat)
	if err != nil {
		return err
	}
	return s.kv.Write(nodeKey(n.ID), data)
}

func (s *Store) eraseNode(id string) error {
	if err := s.kv.Erase(nodeKey(id)); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// pageNodes loads the flat records of every node on page.
func (s *Store) pageNodes(ctx context.Context, page string) ([]*outline.Node, error) {
	done := make(chan struct{})
	defer close(done)

	nodes := make([]*outline.Node, 0)
	for key := range s.kv.KeysPrefix(nodePrefix, done) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := s.readNode(strings.TrimPrefix(key, nodePrefix))
		if err != nil {
			if errors.Is(err, outline.ErrNodeNotFound) {
				continue
			}
			return nil, err
		}
		if n.Page == page {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// siblings groups flat nodes by parent, ordered along the left-sibling chain.
// Nodes whose chain is broken follow in creation order so nothing is hidden.
func siblings(nodes []*outline.Node) map[string][]*outline.Node {
	byParent := make(map[string][]*outline.Node)
	for _, n := range nodes {
		byParent[n.Parent] = append(byParent[n.Parent], n)
	}
	for parent, group := range byParent {
		byParent[parent] = orderChain(group)
	}
	return byParent
}

func orderChain(group []*outline.Node) []*outline.Node {
	byLeft := make(map[string]*outline.Node, len(group))
	for _, n := range group {
		if _, taken := byLeft[n.Left]; !taken {
			byLeft[n.Left] = n
		}
	}
	ordered := make([]*outline.Node, 0, len(group))
	placed := make(map[string]bool, len(group))
	for cur := byLeft[""]; cur != nil && !placed[cur.ID]; cur = byLeft[cur.ID] {
		ordered = append(ordered, cur)
		placed[cur.ID] = true
	}
	if len(ordered) == len(group) {
		return ordered
	}
	rest := make([]*outline.Node, 0, len(group)-len(ordered))
	for _, n := range group {
		if !placed[n.ID] {
			rest = append(rest, n)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].Created.Equal(rest[j].Created.Time) {
			return rest[i].ID < rest[j].ID
		}
		return rest[i].Created.Before(rest[j].Created.Time)
	})
	return append(ordered, rest...)
}

// attach fills Children recursively from the sibling index.
func attach(n *outline.Node, index map[string][]*outline.Node) {
	kids := index[n.ID]
	n.Children = nil
	if len(kids) == 0 {
		return
	}
	n.Children = make([]*outline.Node, 0, len(kids))
	for _, k := range kids {
		c := *k
		attach(&c, index)
		n.Children = append(n.Children, &c)
	}
}

func (s *Store) touchPage(p *outline.Page, at outline.Timestamp, b *change.Batch) error {
	p.Updated = at
	if err := s.writePage(p); err != nil {
		return err
	}
	b.Set(p.Name, change.AttrUpdatedAt, at.Millis())
	b.Touch(pageTouched(p))
	return nil
}

func pageTouched(p *outline.Page) change.Touched {
	return change.Touched{ID: p.Name, Page: p.Name, Journal: p.Journal, DateKey: p.DateKey}
}

func nodeRecords(b *change.Batch, n *outline.Node) {
	b.Set(n.ID, change.AttrPage, n.Page)
	b.Set(n.ID, change.AttrParent, n.Parent)
	b.Set(n.ID, change.AttrLeft, n.Left)
	b.Set(n.ID, change.AttrContent, n.Content)
	b.Set(n.ID, change.AttrCreatedAt, n.Created.Millis())
	b.Set(n.ID, change.AttrUpdatedAt, n.Updated.Millis())
	b.Touch(change.Touched{ID: n.ID, Page: n.Page})
}
