package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements storage.MealPlansStorage and
// storage.ReportsStorage on a pgx connection pool.
type PostgresStorage struct {
	pool *pgxpool.Pool
	*mealPlansStorage
	*reportsStorage
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:             pool,
		mealPlansStorage: newMealPlansStorage(pool),
		reportsStorage:   newReportsStorage(pool),
	}, nil
}

// Close releases the connection pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
