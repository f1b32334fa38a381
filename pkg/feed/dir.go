package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/change"
)

const batchSuffix = ".batch.json"

// Dir persists each batch as a file under Path so another process can pick
// it up. Subscribe consumes files in the order they were published.
type Dir struct {
	Path   string
	Logger *zap.Logger

	mu      sync.Mutex
	counter uint64
}

// NewDir returns a directory feed rooted at path.
func NewDir(path string, logger *zap.Logger) *Dir {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dir{Path: path, Logger: logger}
}

// Publish implements Publisher. Files are written under a temporary name and
// renamed so watchers never see a partial batch.
func (d *Dir) Publish(_ context.Context, b change.Batch) error {
	if d.Path == "" {
		return errors.New("feed: directory unknown")
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("feed: ensure directory: %w", err)
	}

	d.mu.Lock()
	d.counter++
	seq := d.counter
	d.mu.Unlock()

	if b.At.IsZero() {
		b.At = time.Now()
	}
	if b.Seq == 0 {
		b.Seq = seq
	}
	data, err := b.Encode()
	if err != nil {
		return fmt.Errorf("feed: encode batch: %w", err)
	}

	name := fmt.Sprintf("%020d-%d-%06d%s", b.At.UnixNano(), os.Getpid(), seq, batchSuffix)
	path := filepath.Join(d.Path, name)
	tmp := filepath.Join(d.Path, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("feed: write batch: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("feed: publish batch: %w", err)
	}
	return nil
}

// Subscribe implements Subscriber. Batches already waiting in the directory
// are delivered first.
func (d *Dir) Subscribe(ctx context.Context) (<-chan change.Batch, error) {
	if d.Path == "" {
		return nil, errors.New("feed: directory unknown")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return nil, fmt.Errorf("feed: ensure directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("feed: create watcher: %w", err)
	}
	if err := watcher.Add(d.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("feed: watch %s: %w", d.Path, err)
	}

	out := make(chan change.Batch)

	go func() {
		defer close(out)
		defer func() {
			if err := watcher.Close(); err != nil {
				d.Logger.Warn("feed watcher close", zap.Error(err))
			}
		}()

		throttle := newScanThrottle(50 * time.Millisecond)
		defer throttle.Stop()

		if !d.scan(ctx, out) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// The directory may have changed in ways we missed; rescan.
				d.Logger.Warn("feed watcher error", zap.Error(err))
				throttle.Enqueue()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
					continue
				}
				if !strings.HasSuffix(evt.Name, batchSuffix) {
					continue
				}
				throttle.Enqueue()
			case <-throttle.C():
				if !d.scan(ctx, out) {
					return
				}
			}
		}
	}()

	return out, nil
}

// scan delivers and removes every pending batch file. It returns false once
// ctx is done.
func (d *Dir) scan(ctx context.Context, out chan<- change.Batch) bool {
	names, err := d.pending()
	if err != nil {
		d.Logger.Warn("feed scan", zap.String("dir", d.Path), zap.Error(err))
		return ctx.Err() == nil
	}
	for _, name := range names {
		path := filepath.Join(d.Path, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				d.Logger.Warn("feed read batch", zap.String("file", name), zap.Error(err))
			}
			continue
		}
		if err := os.Remove(path); err != nil {
			// Another subscriber consumed it first.
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			d.Logger.Warn("feed remove batch", zap.String("file", name), zap.Error(err))
		}
		b, err := change.Decode(data)
		if err != nil {
			d.Logger.Warn("feed decode batch", zap.String("file", name), zap.Error(err))
			continue
		}
		select {
		case out <- b:
		case <-ctx.Done():
			return false
		}
	}
	return ctx.Err() == nil
}

func (d *Dir) pending() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, batchSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// scanThrottle coalesces bursts of filesystem events into a single directory
// scan once the burst settles.
type scanThrottle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	kick  chan struct{}
}

func newScanThrottle(delay time.Duration) *scanThrottle {
	return &scanThrottle{
		delay: delay,
		kick:  make(chan struct{}, 1),
	}
}

func (t *scanThrottle) C() <-chan struct{} {
	return t.kick
}

func (t *scanThrottle) Enqueue() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, t.fire)
}

func (t *scanThrottle) fire() {
	t.mu.Lock()
	t.timer = nil
	t.mu.Unlock()
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

func (t *scanThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
