package zombiezen

import (
	"context"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/svorel/relation"
	"github.com/revelaction/svorel/storage"
)

// TupleStore persists the tuples of extraction runs.
type TupleStore struct {
	pool *sqlitex.Pool
}

var _ storage.TupleRepository = (*TupleStore)(nil)

func NewTupleStore(pool *sqlitex.Pool) *TupleStore {
	return &TupleStore{pool: pool}
}

func (h *TupleStore) Start(run storage.Run) error {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	err = sqlitex.Execute(conn, "INSERT INTO runs (id, started, scheme) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{run.Id, run.Started.Unix(), run.Scheme},
	})
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// WriteDoc replaces the tuples of doc in the run.
func (h *TupleStore) WriteDoc(runId, doc string, tuples []relation.Tuple) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "DELETE FROM tuples WHERE run_id = ? AND doc = ?", &sqlitex.ExecOptions{
		Args: []interface{}{runId, doc},
	})
	if err != nil {
		return fmt.Errorf("failed to clear doc tuples: %w", err)
	}

	for seq, t := range tuples {
		err = sqlitex.Execute(conn, "INSERT INTO tuples (run_id, doc, sentence, seq, kind, lhs, rhs) VALUES (?, ?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{runId, doc, t.Sentence, seq, t.Kind.String(), t.Left, t.Right},
		})
		if err != nil {
			return fmt.Errorf("failed to insert tuple: %w", err)
		}
	}

	return nil
}

func (h *TupleStore) Runs() ([]storage.Run, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var runs []storage.Run
	err = sqlitex.Execute(conn, "SELECT id, started, scheme FROM runs ORDER BY started DESC, id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			runs = append(runs, storage.Run{
				Id:      stmt.ColumnText(0),
				Started: time.Unix(stmt.ColumnInt64(1), 0).UTC(),
				Scheme:  stmt.ColumnText(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (h *TupleStore) Tuples(runId, doc string, k relation.Kind) ([]relation.Tuple, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var tuples []relation.Tuple
	err = sqlitex.Execute(conn, "SELECT sentence, lhs, rhs FROM tuples WHERE run_id = ? AND doc = ? AND kind = ? ORDER BY seq", &sqlitex.ExecOptions{
		Args: []interface{}{runId, doc, k.String()},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			tuples = append(tuples, relation.Tuple{
				Kind:     k,
				Sentence: stmt.ColumnInt(0),
				Left:     stmt.ColumnText(1),
				Right:    stmt.ColumnText(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return tuples, nil
}

func (h *TupleStore) Counts(runId string) (map[relation.Kind]int, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	counts := map[relation.Kind]int{}
	err = sqlitex.Execute(conn, "SELECT kind, COUNT(*) FROM tuples WHERE run_id = ? GROUP BY kind", &sqlitex.ExecOptions{
		Args: []interface{}{runId},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			k, err := relation.ParseKind(stmt.ColumnText(0))
			if err != nil {
				return err
			}
			counts[k] = stmt.ColumnInt(1)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
