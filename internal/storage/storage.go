package storage

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/mosslake/finledger/internal/config"
)

type Storage struct {
	DB  *sql.DB
	bdb bob.DB
}

func NewStorage(env *config.Config) *Storage {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}

	return &Storage{
		DB:  db,
		bdb: bob.NewDB(db),
	}
}

// Read returns a reader running outside any transaction.
func (s *Storage) Read() *Reader {
	return NewReader(s.bdb)
}

// Write opens a unit of work. The caller must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (Writer, error) {
	tx, err := s.bdb.BeginTx(ctx, nil)
	if err != nil {
		return Writer{}, err
	}
	return NewWriter(tx), nil
}
