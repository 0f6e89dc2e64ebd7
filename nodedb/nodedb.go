// Package nodedb caches the device node table between runs, so the
// node list stays inspectable with no device attached. It never
// stores discovery results.
package nodedb

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger"
	zlog "github.com/rs/zerolog/log"

	"meshscout/serialize/mesh"
	"meshscout/utils"
)

type DB struct {
	*badger.DB
}

// Open opens (creating if needed) the cache under path
func Open(path string) (*DB, error) {
	dbpath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(dbpath); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbpath)
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, wrapError(err)
	}
	return &DB{DB: db}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

// Put replaces the cached table with a fresh snapshot from the device
func (d *DB) Put(nodes []*mesh.NodeInfo, localNum uint32) error {
	err := d.Update(func(txn *badger.Txn) error {
		// drop the previous table first so nodes the device no
		// longer knows do not linger in the cache
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		stale := make([][]byte, 0)
		for it.Seek(nodePrefix); it.ValidForPrefix(nodePrefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		local := make([]byte, 4)
		binary.BigEndian.PutUint32(local, localNum)
		if err := txn.Set(localKey, local); err != nil {
			return err
		}

		for _, n := range nodes {
			if err := txn.Set(nodeKey(n.Num), n.Marshal()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapError(err)
	}

	zlog.Debug().Str("module", "nodedb").Int("nodes", len(nodes)).
		Msg("node table cached")
	return nil
}

// Get returns one cached entry
func (d *DB) Get(num uint32) (*mesh.NodeInfo, error) {
	var result *mesh.NodeInfo

	err := d.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(num))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		result, err = mesh.UnmarshalNodeInfo(bytes.NewReader(raw))
		return err
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// LocalAddr returns the cached local node address
func (d *DB) LocalAddr() (uint32, error) {
	var result uint32

	err := d.View(func(txn *badger.Txn) error {
		item, err := txn.Get(localKey)
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		result = binary.BigEndian.Uint32(raw)
		return nil
	})
	if err != nil {
		return 0, wrapError(err)
	}
	return result, nil
}

// All returns every cached entry, most recently seen first
func (d *DB) All() ([]*mesh.NodeInfo, error) {
	var result []*mesh.NodeInfo

	err := d.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(nodePrefix); it.ValidForPrefix(nodePrefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			node, err := mesh.UnmarshalNodeInfo(bytes.NewReader(raw))
			if err != nil {
				zlog.Warn().Str("module", "nodedb").Err(err).
					Msg("skip undecodable cache entry")
				continue
			}
			result = append(result, node)
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastSeen > result[j].LastSeen
	})
	return result, nil
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	zlog.Error().Str("module", "nodedb").Err(err).Msg("badger error")
	return ErrInternal
}
