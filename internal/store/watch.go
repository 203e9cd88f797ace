package store

import (
	"context"
	"time"
)

// markDirty records a local write and pings subscribers. Sends are
// non-blocking; a slow subscriber just sees coalesced ticks.
func (s *Store) markDirty() {
	s.writeSeq.Add(1)
	s.mu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
}

// Subscribe returns a channel that receives a ping after every write made
// through this Store, plus a cancel function.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

// DataVersion reads SQLite's data_version, which changes whenever another
// connection commits to the same database file. Writes on this connection
// do not move it, which is why WatchChanges also folds in local pings.
func (s *Store) DataVersion(ctx context.Context) (int64, error) {
	var version int64
	row := s.db.QueryRowContext(ensureContext(ctx), "PRAGMA data_version")
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// WatchChanges delivers a coalesced tick whenever the shared pool may have
// changed: local writes immediately, writes from other terminal processes
// within one poll interval. The returned channel closes when ctx ends.
func (s *Store) WatchChanges(ctx context.Context, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = time.Second
	}
	out := make(chan struct{}, 1)
	local, cancel := s.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		lastVersion, _ := s.DataVersion(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		emit := func() {
			select {
			case out <- struct{}{}:
			default:
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-local:
				emit()
			case <-ticker.C:
				version, err := s.DataVersion(ctx)
				if err != nil {
					continue
				}
				if version != lastVersion {
					lastVersion = version
					emit()
				}
			}
		}
	}()
	return out
}
