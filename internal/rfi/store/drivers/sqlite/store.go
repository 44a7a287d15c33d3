package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/store"

	_ "modernc.org/sqlite"
)

// dbtx is the surface shared by *sql.DB and *sql.Tx so the repositories work
// identically inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err // rollback happens in defer
	}

	return tx.Commit()
}

func (s *Store) Companies() store.Companies         { return &companiesRepo{db: s.db} }
func (s *Store) Users() store.Users                 { return &usersRepo{db: s.db} }
func (s *Store) Memberships() store.Memberships     { return &membershipsRepo{db: s.db} }
func (s *Store) Projects() store.Projects           { return &projectsRepo{db: s.db} }
func (s *Store) RFIs() store.RFIs                   { return &rfisRepo{db: s.db} }
func (s *Store) AccessTokens() store.AccessTokens   { return &accessTokensRepo{db: s.db} }
func (s *Store) Notifications() store.Notifications { return &notificationsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func now() time.Time { return time.Now().UTC() }

// rowScanner is the subset of *sql.Rows the scan helpers need.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// requireRow maps a zero-row UPDATE/DELETE onto store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// projectClause renders the tenant predicate for a projects row aliased p.
// The zero Scope produces a predicate that matches nothing, so a repository
// call that slipped through without a resolved scope returns no rows instead
// of all of them.
func projectClause(sc store.Scope) (clause string, args []any) {
	if sc.IsGlobal() {
		return "1 = 1", nil
	}
	if companyID, ok := sc.CompanyID(); ok {
		return "p.company_id = ?", []any{companyID}
	}
	return "1 = 0", nil
}

// rfiClause renders the tenant predicate for an rfis row aliased r, walking
// project_id up to the owning company.
func rfiClause(sc store.Scope) (clause string, args []any) {
	if sc.IsGlobal() {
		return "1 = 1", nil
	}
	if companyID, ok := sc.CompanyID(); ok {
		return "r.project_id IN (SELECT p.id FROM projects p WHERE p.company_id = ?)",
			[]any{companyID}
	}
	return "1 = 0", nil
}
