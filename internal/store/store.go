// Package store implements the on-disk result cache (A3): a single-table
// modernc.org/sqlite-backed key/value store mapping a digest of the
// pipeline input to a rezi-encoded snapshot of the colored product DFA.
//
// The cache is advisory. Callers treat every error returned here as a
// cache miss and fall back to recomputing the product; nothing in this
// package should ever be allowed to fail a run.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS products (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	created INTEGER NOT NULL
)`

// TransitionRecord is one outgoing edge of a snapshotted state.
type TransitionRecord struct {
	Label string
	To    int
}

// Snapshot is the rezi-encoded payload stored per cache entry: a flat,
// map-and-slice rendering of a hybrid DFA together with the color
// vector computed for it, deliberately independent of the in-memory
// automaton.DFA representation so the cache format does not change
// shape every time that representation does.
type Snapshot struct {
	Current       string
	Names         map[int]string
	Values        map[int][]int
	Accepting     []int
	Initial       []int
	ErrorStates   []int
	Alphabet      []string
	Transitions   map[int][]TransitionRecord
	ConstraintIDs []string
	// Colors holds, per state id, one color tag per entry of ConstraintIDs,
	// in the same order.
	Colors map[int][]string
}

// Cache is a handle on the result cache database. A nil *Cache is valid
// and behaves as an always-miss, always-discard cache, so callers that
// ran without --cache can share the same code path as callers that did.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database rooted at dir.
func Open(dir string) (*Cache, error) {
	path := filepath.Join(dir, "cache.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, wrapDBError(err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database. Safe to call on a nil *Cache.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Key derives the cache key for a run as a SHA-256 hex digest of the two
// byte slices it is given, in order: the process input and the constraint
// input. The CLI passes the raw bytes of its input files as read, so the
// key is not canonical: two files that encode the same input differently
// get different keys.
func Key(processesJSON, constraintsJSON []byte) string {
	h := sha256.New()
	h.Write(processesJSON)
	h.Write([]byte{0})
	h.Write(constraintsJSON)
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up key and, on a hit, decodes its payload into a Snapshot.
// Any failure - not found, corrupt row, REZI decode mismatch - is
// reported as a plain miss (ok == false); callers should not treat a
// false return as an error worth surfacing.
func (c *Cache) Get(key string) (snap *Snapshot, ok bool) {
	if c == nil {
		return nil, false
	}

	row := c.db.QueryRow(`SELECT payload FROM products WHERE key = ?`, key)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, false
	}

	snap = &Snapshot{}
	n, err := rezi.DecBinary(payload, snap)
	if err != nil || n != len(payload) {
		return nil, false
	}
	return snap, true
}

// Put stores snap under key, encoded with REZI. A write failure is
// returned as an error; the caller already has the freshly computed
// result in hand and the cache entry is purely an optimization for next
// time, so the failure need not stop the run.
func (c *Cache) Put(key string, snap *Snapshot) error {
	if c == nil {
		return nil
	}

	payload := rezi.EncBinary(snap)
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO products (key, payload, created) VALUES (?, ?, ?)`,
		key, payload, time.Now().Unix(),
	)
	return wrapDBError(err)
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: not found")
	}
	return err
}
