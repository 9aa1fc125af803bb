package storage

import (
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// Journal is an append-only log of fills backed by Pebble on an in-memory
// filesystem. It lives exactly as long as the process.
type Journal struct {
	db  *pebble.DB
	seq atomic.Uint64
}

// OpenMemJournal opens an empty journal on a fresh in-memory filesystem.
func OpenMemJournal() (*Journal, error) {
	db, err := pebble.Open("journal", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf("failed to open fill journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// SaveFills writes all fills of one matching pass in a single batch.
func (j *Journal) SaveFills(fills []core.Fill) error {
	if len(fills) == 0 {
		return nil
	}
	b := j.db.NewBatch()
	defer b.Close()

	for _, f := range fills {
		data, err := encodeFill(f)
		if err != nil {
			return fmt.Errorf("failed to marshal fill %s: %w", f.ID, err)
		}
		key := fillKey(f.Instrument, f.Timestamp.UnixNano(), j.seq.Add(1))
		if err := b.Set(key, data, nil); err != nil {
			return fmt.Errorf("failed to stage fill %s: %w", f.ID, err)
		}
	}
	if err := b.Commit(pebble.NoSync); err != nil {
		return fmt.Errorf("failed to commit fills: %w", err)
	}
	return nil
}

// LoadRecentFills returns up to limit fills of instrument, newest first.
// A non-positive limit returns all of them.
func (j *Journal) LoadRecentFills(instrument string, limit int) ([]core.Fill, error) {
	prefix := fillPrefix(instrument)
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open fill iterator: %w", err)
	}
	defer iter.Close()

	fills := []core.Fill{}
	for iter.Last(); iter.Valid(); iter.Prev() {
		if limit > 0 && len(fills) >= limit {
			break
		}
		f, err := decodeFill(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal fill: %w", err)
		}
		fills = append(fills, f)
	}
	return fills, iter.Error()
}
