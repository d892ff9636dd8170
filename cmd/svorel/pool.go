package main

import (
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/svorel/storage/sqlite/zombiezen"
)

// Pool opens a SQLite pool on first use and shares it.
type Pool struct {
	p *sqlitex.Pool
}

func (p *Pool) Open(path string, schemas ...string) (*sqlitex.Pool, error) {
	if p.p != nil {
		return p.p, nil
	}
	pool, err := zombiezen.Open(path, schemas...)
	if err != nil {
		return nil, err
	}
	p.p = pool
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		return p.p.Close()
	}
	return nil
}
