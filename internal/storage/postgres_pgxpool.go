package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bher20/expensemanager/internal/expense"
	"github.com/bher20/expensemanager/internal/metrics"
	"github.com/bher20/expensemanager/internal/migrate"
)

const defaultPostgresDSN = "postgres://localhost:5432/expenses?sslmode=disable"

var expenseColumns = []string{"id", "position", "date", "description", "category", "amount"}

type PostgresPoolStorage struct {
	pool *pgxpool.Pool
	dsn  string
}

func OpenPostgresPool(ctx context.Context, dsn string) (*PostgresPoolStorage, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &PostgresPoolStorage{pool: pool, dsn: dsn}, nil
}

func (s *PostgresPoolStorage) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresPoolStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the embedded goose migrations.
func (s *PostgresPoolStorage) Migrate(ctx context.Context) error {
	return migrate.Up(ctx, "postgrespool", s.dsn)
}

func (s *PostgresPoolStorage) Load(ctx context.Context) ([]expense.Expense, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, position, date, description, category, amount
		FROM expenses
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ExpenseRecord])
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}
	s.recordPoolStats()
	return fromRecords(records)
}

// Save replaces every row in one transaction using COPY for the inserts.
func (s *PostgresPoolStorage) Save(ctx context.Context, expenses []expense.Expense) error {
	records := toRecords(expenses)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"expenses"}, expenseColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.ID, r.Position, r.Date, r.Description, r.Category, r.Amount}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy expenses: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.recordPoolStats()
	return nil
}

func (s *PostgresPoolStorage) recordPoolStats() {
	st := s.pool.Stat()
	metrics.UpdateDBPoolMetrics("postgrespool",
		float64(st.TotalConns()),
		float64(st.IdleConns()),
		float64(st.AcquiredConns()),
		float64(st.AcquireCount()),
	)
}

// TryLock takes a session-level advisory lock on a dedicated connection.
// When ok is true the caller must call unlock, which releases both the lock
// and the connection.
func (s *PostgresPoolStorage) TryLock(ctx context.Context, key int64) (unlock func(), ok bool, err error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire conn: %w", err)
	}

	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	return func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, key)
		conn.Release()
	}, true, nil
}
