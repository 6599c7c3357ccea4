// Package txn implements transaction lifecycle management (spec §4.7,
// C8): BEGIN/COMMIT/ROLLBACK, one active transaction per Database at a
// time (spec §5's single exclusive Database lock admits no concurrent
// transactions to conflict with one another), with each transaction
// assigned a PostgreSQL-style XID the way the corpus's MVCC package
// does, reused here as a stable transaction identity for logging rather
// than for multi-version visibility.
package txn

import (
	"sync"
	"time"

	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/undo"
)

// XID is a monotonically increasing transaction identifier. It wraps
// like the corpus's mvcc.XID, though with only one transaction ever
// active at a time, wraparound has no visibility consequences here — it
// exists purely so IDs stay representable indefinitely.
type XID uint64

// Status is a transaction's lifecycle state.
type Status int

const (
	InProgress Status = iota
	Committed
	// Aborted marks a transaction the engine rolled back itself after a
	// statement failed mid-execution (spec §3's ABORTED) — never the
	// result of an explicit ROLLBACK.
	Aborted
	// RolledBack marks a transaction ended by an explicit ROLLBACK
	// statement (spec §3's ROLLED_BACK), distinct from Aborted.
	RolledBack
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "IN PROGRESS"
	case Committed:
		return "COMMITTED"
	case Aborted:
		return "ABORTED"
	case RolledBack:
		return "ROLLED BACK"
	default:
		return "UNKNOWN"
	}
}

// Transaction is one BEGIN...COMMIT/ROLLBACK span: an isolation level,
// an undo log recording every mutation performed under it, and a
// status.
type Transaction struct {
	ID        XID
	Isolation stmt.Isolation
	Log       *undo.Log
	StartedAt time.Time
	Status    Status

	// Autocommit marks a transaction the engine opened implicitly to
	// wrap a single statement issued outside an explicit BEGIN (spec
	// §4.7); Manager.Commit/Rollback treat it no differently, but
	// callers use this to decide whether to surface it to the user.
	Autocommit bool
}

// Manager owns the single active Transaction for one Database, per
// spec §5's one-writer model: at most one transaction is ever
// in-progress, so there is no snapshot/conflict bookkeeping to do
// beyond recording which one it is. Every transaction that leaves
// InProgress (via Commit or Rollback) is appended to History (spec §3/
// §4.7), most recent last.
type Manager struct {
	mu      sync.Mutex
	nextXID XID
	current *Transaction
	history []*Transaction
}

// NewManager returns an empty Manager with XID allocation starting at 1
// (XID 0 is reserved, mirroring the corpus's XIDNone/XIDBootstrap
// convention).
func NewManager() *Manager {
	return &Manager{nextXID: 1}
}

// Begin starts a new transaction at the given isolation level. Returns
// dberr.NestedTxn if one is already in progress — this engine does not
// support nested transactions (spec §4.7).
func (m *Manager) Begin(dbName string, level stmt.Isolation, autocommit bool) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, &dberr.NestedTxn{Database: dbName}
	}
	t := &Transaction{
		ID:         m.nextXID,
		Isolation:  level,
		Log:        undo.NewLog(),
		StartedAt:  time.Now(),
		Status:     InProgress,
		Autocommit: autocommit,
	}
	m.nextXID++
	m.current = t
	return t, nil
}

// Current returns the in-progress transaction, if any.
func (m *Manager) Current() (*Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != nil
}

// Commit discards the active transaction's undo log (spec §4.7: COMMIT
// makes its mutations permanent), retains the transaction itself in
// History, and clears Current. Returns dberr.NoTxn if none is active.
func (m *Manager) Commit(dbName string) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, &dberr.NoTxn{Database: dbName}
	}
	t := m.current
	t.Log.Discard()
	t.Status = Committed
	m.current = nil
	m.history = append(m.history, t)
	return t, nil
}

// Rollback replays the active transaction's undo log against db in LIFO
// order, undoing every mutation it performed, marks it RolledBack
// (spec §3: an explicit ROLLBACK statement), retains it in History, and
// clears Current. Returns dberr.NoTxn if none is active.
func (m *Manager) Rollback(dbName string, db undo.DatabaseAccess) (*Transaction, error) {
	return m.unwind(dbName, db, RolledBack)
}

// Abort replays the active transaction's undo log the same way
// Rollback does, but marks it Aborted (spec §3: the engine undoing a
// transaction itself after a statement failed, not a user ROLLBACK).
// Used by autocommit's error path.
func (m *Manager) Abort(dbName string, db undo.DatabaseAccess) (*Transaction, error) {
	return m.unwind(dbName, db, Aborted)
}

func (m *Manager) unwind(dbName string, db undo.DatabaseAccess, status Status) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, &dberr.NoTxn{Database: dbName}
	}
	t := m.current
	t.Log.Rollback(db)
	t.Status = status
	m.current = nil
	m.history = append(m.history, t)
	return t, nil
}

// History returns every transaction that has left InProgress, oldest
// first, preserving each one's recorded Autocommit flag (spec §3's
// transaction_history, S3's "history grows by 1 per autocommit
// statement").
func (m *Manager) History() []*Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Transaction, len(m.history))
	copy(out, m.history)
	return out
}
