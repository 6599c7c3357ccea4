// Package dberr defines the structured error taxonomy the engine raises.
// Each kind is its own type so callers branch with errors.As instead of
// matching on message text.
package dberr

import "fmt"

// NotOpen is raised when DDL/DML is attempted on a closed database.
type NotOpen struct {
	Database string
}

func (e *NotOpen) Error() string {
	return fmt.Sprintf("database %q is not open", e.Database)
}

// NotFound is raised when a table, column, index, or constraint is missing.
type NotFound struct {
	Kind string // "table", "column", "index", "constraint"
	Name string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// DuplicateName is raised when creating a table/column/constraint/index
// whose name already exists.
type DuplicateName struct {
	Kind string
	Name string
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// Arity is raised when a values vector's length does not match the
// table's column count.
type Arity struct {
	Table    string
	Expected int
	Got      int
}

func (e *Arity) Error() string {
	return fmt.Sprintf("table %q expects %d values, got %d", e.Table, e.Expected, e.Got)
}

// FKViolation is raised when a referential-integrity check fails.
type FKViolation struct {
	Constraint string
	Table      string
	Column     string
	Value      interface{}
}

func (e *FKViolation) Error() string {
	return fmt.Sprintf("foreign key %q violated: %s.%s = %v has no matching parent row",
		e.Constraint, e.Table, e.Column, e.Value)
}

// NestedTxn is raised by BEGIN while a transaction is already ACTIVE.
type NestedTxn struct {
	Database string
}

func (e *NestedTxn) Error() string {
	return fmt.Sprintf("database %q already has an active transaction", e.Database)
}

// NoTxn is raised by COMMIT/ROLLBACK with no ACTIVE transaction.
type NoTxn struct {
	Database string
}

func (e *NoTxn) Error() string {
	return fmt.Sprintf("database %q has no active transaction", e.Database)
}

// CannotDropPK is raised when an operation would drop the primary-key column.
type CannotDropPK struct {
	Table  string
	Column string
}

func (e *CannotDropPK) Error() string {
	return fmt.Sprintf("cannot drop primary key column %q on table %q", e.Column, e.Table)
}

// Unsupported is raised for operations the engine documents as not
// reversible or not realized (e.g. dropping a table that a foreign key
// references, or a statement kind the engine does not handle).
type Unsupported struct {
	Operation string
	Reason    string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("unsupported operation %q: %s", e.Operation, e.Reason)
}

// Internal wraps an unexpected failure (allocation, lock) that is not a
// caller validation error.
type Internal struct {
	Op  string
	Err error
}

func (e *Internal) Error() string {
	return fmt.Sprintf("internal error during %s: %v", e.Op, e.Err)
}

func (e *Internal) Unwrap() error {
	return e.Err
}

// NameTooLong is raised when an identifier exceeds the bounded length
// spec §6 requires (63 chars, 64 with terminator). The source silently
// truncates; this port rejects instead.
type NameTooLong struct {
	Kind     string
	Name     string
	MaxChars int
}

func (e *NameTooLong) Error() string {
	return fmt.Sprintf("%s name %q exceeds maximum length of %d characters", e.Kind, e.Name, e.MaxChars)
}

// Conflict describes a write/write or read/write conflict on a row under
// REPEATABLE READ / SERIALIZABLE isolation. No engine code path returns
// it: with at most one active transaction there is no second writer to
// conflict with.
type Conflict struct {
	Table string
	RowID uint64
	Level string
}

func (e *Conflict) Error() string {
	return fmt.Sprintf("serialization conflict on %s row %d under %s isolation", e.Table, e.RowID, e.Level)
}
