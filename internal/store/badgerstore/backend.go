// Package badgerstore provides an embedded Badger-backed store.Backend for
// single-process deployments that want the fixture to survive restarts
// without running a database server.
package badgerstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/flashlyapp/flashly-server/internal/store"
)

// Key layout:
//
//	seq                             insert counter
//	{collection}:data:{id}          payload
//	{collection}:pos:{id}           insert seq of id
//	{collection}:order:{seq}        id, seq is 8 bytes big-endian
var seqKey = []byte("seq")

// Backend stores records as Badger keys. Writes run in Badger transactions;
// callers serialize concurrent writers (store.Store holds a single mutex).
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

// Options configures the Badger database.
type Options struct {
	Path     string       // database directory, ignored when InMemory
	InMemory bool         // keep everything in memory, for tests
	Logger   *slog.Logger // uses discard if nil
}

// Open opens (or creates) the database.
func Open(opts Options) (*Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil            // Badger's own logger is too chatty
	bopts.SyncWrites = !opts.InMemory
	bopts.CompactL0OnClose = true

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logger.Info("badger database opened", "path", opts.Path, "in_memory", opts.InMemory)
	return &Backend{db: db, logger: logger}, nil
}

// Name implements store.Backend.
func (b *Backend) Name() string { return "badger" }

// Get implements store.Backend.
func (b *Backend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dataKey(collection, id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return data, nil
}

// Put implements store.Backend. A replaced record keeps its pos entry and
// therefore its place in List.
func (b *Backend) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(posKey(collection, id))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			seq, err := nextSeq(txn)
			if err != nil {
				return err
			}
			if err := txn.Set(posKey(collection, id), seq); err != nil {
				return err
			}
			if err := txn.Set(orderKey(collection, seq), []byte(id)); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		return txn.Set(dataKey(collection, id), data)
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete implements store.Backend.
func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(posKey(collection, id))
		if err != nil {
			return err
		}
		seq, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		for _, key := range [][]byte{dataKey(collection, id), posKey(collection, id), orderKey(collection, seq)} {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List implements store.Backend.
func (b *Backend) List(ctx context.Context, collection string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out [][]byte
	prefix := []byte(collection + ":order:")

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			item, err := txn.Get(dataKey(collection, string(id)))
			if errors.Is(err, badger.ErrKeyNotFound) {
				b.logger.Debug("skipping orphaned order entry", "collection", collection, "id", string(id))
				continue
			}
			if err != nil {
				return err
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, data)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	b.logger.Info("closing badger database")
	return b.db.Close()
}

func nextSeq(txn *badger.Txn) ([]byte, error) {
	var n uint64
	item, err := txn.Get(seqKey)
	switch {
	case err == nil:
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		n = binary.BigEndian.Uint64(raw)
	case !errors.Is(err, badger.ErrKeyNotFound):
		return nil, err
	}

	n++
	buf := binary.BigEndian.AppendUint64(nil, n)
	if err := txn.Set(seqKey, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func dataKey(collection, id string) []byte {
	return []byte(collection + ":data:" + id)
}

func posKey(collection, id string) []byte {
	return []byte(collection + ":pos:" + id)
}

func orderKey(collection string, seq []byte) []byte {
	return append([]byte(collection+":order:"), seq...)
}
