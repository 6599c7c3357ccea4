package engine

import (
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/enginelog"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/undo"
)

// Execute dispatches one Statement. Statements issued with no active
// transaction run under an implicit BEGIN/COMMIT if the engine's
// configuration enables autocommit (spec §4.7); BEGIN/COMMIT/ROLLBACK
// themselves are handled directly rather than wrapped.
func (d *Database) Execute(s *stmt.Statement) (*Result, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}

	corrID := enginelog.NewCorrelationID()
	log := d.Log.WithCorrelation(corrID)

	switch s.Kind {
	case stmt.Begin:
		return d.execBegin(s, log)
	case stmt.Commit:
		return d.execCommit(log)
	case stmt.Rollback:
		return d.execRollback(log)
	default:
		return d.executeWithAutocommit(s, log)
	}
}

func (d *Database) execBegin(s *stmt.Statement, log enginelog.Logger) (*Result, error) {
	_, err := d.Txns.Begin(d.Name, s.IsolationLevel, false)
	if err != nil {
		log.Warn("BEGIN rejected: %v", err)
		return nil, err
	}
	log.Info("transaction started at isolation %s", s.IsolationLevel)
	return &Result{}, nil
}

func (d *Database) execCommit(log enginelog.Logger) (*Result, error) {
	_, err := d.Txns.Commit(d.Name)
	if err != nil {
		log.Warn("COMMIT rejected: %v", err)
		return nil, err
	}
	log.Info("transaction committed")
	return &Result{}, nil
}

func (d *Database) execRollback(log enginelog.Logger) (*Result, error) {
	_, err := d.Txns.Rollback(d.Name, d)
	if err != nil {
		log.Warn("ROLLBACK rejected: %v", err)
		return nil, err
	}
	log.Info("transaction rolled back")
	return &Result{}, nil
}

func (d *Database) executeWithAutocommit(s *stmt.Statement, log enginelog.Logger) (*Result, error) {
	tx, existing := d.Txns.Current()
	autocommit := false
	if !existing {
		if !d.Config.Engine.AutocommitEnabled {
			return nil, &dberr.NoTxn{Database: d.Name}
		}
		var err error
		tx, err = d.Txns.Begin(d.Name, d.Config.Engine.DefaultIsolation, true)
		if err != nil {
			return nil, err
		}
		autocommit = true
	}

	result, err := d.dispatch(s, tx.Log, log)
	if err != nil {
		if autocommit {
			d.Txns.Abort(d.Name, d)
			log.Warn("statement failed, autocommit rolled back: %v", err)
		}
		return nil, err
	}
	if autocommit {
		if _, cerr := d.Txns.Commit(d.Name); cerr != nil {
			return nil, cerr
		}
	}
	return result, nil
}

func (d *Database) dispatch(s *stmt.Statement, log *undo.Log, elog enginelog.Logger) (*Result, error) {
	switch s.Kind {
	case stmt.CreateTable:
		return d.createTable(s, log)
	case stmt.DropTable:
		return d.dropTable(s, log)
	case stmt.Insert:
		return d.insert(s, log)
	case stmt.Select:
		return d.selectStmt(s)
	case stmt.Update:
		return d.update(s, log)
	case stmt.Delete:
		return d.deleteStmt(s, log)
	case stmt.CreateIndex:
		return d.createIndex(s, log)
	case stmt.DropIndex:
		return d.dropIndex(s, log)
	case stmt.AddForeignKey:
		return d.addForeignKey(s)
	case stmt.DropForeignKey:
		return d.dropForeignKey(s)
	default:
		return nil, &dberr.Unsupported{Operation: "execute", Reason: "unrecognized statement kind"}
	}
}
