package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type reviewRepository struct {
	storage *Storage
}

type transitionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Reviews() repository.ReviewRepository {
	return &reviewRepository{storage: s}
}

func (s *Storage) Transitions() repository.TransitionRepository {
	return &transitionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS order_reviews (
            order_id TEXT NOT NULL,
            viewer_id TEXT NOT NULL,
            type TEXT NOT NULL,
            comment TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (order_id, viewer_id)
        )`,
		`CREATE TABLE IF NOT EXISTS order_transitions (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT NOT NULL,
            from_status TEXT NOT NULL,
            to_status TEXT NOT NULL,
            observed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_order_transitions_order ON order_transitions(order_id, observed_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- ReviewRepository implementation ---

func (r *reviewRepository) Create(ctx context.Context, review model.Review) error {
	const query = `INSERT INTO order_reviews (order_id, viewer_id, type, comment, created_at)
                   VALUES ($1, $2, $3, $4, $5)`
	createdAt := review.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.storage.pool.Exec(ctx, query, review.OrderID, review.ViewerID, string(review.Type), review.Comment, createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *reviewRepository) Exists(ctx context.Context, orderID, viewerID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM order_reviews WHERE order_id=$1 AND viewer_id=$2)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, orderID, viewerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// --- TransitionRepository implementation ---

func (r *transitionRepository) Append(ctx context.Context, t model.Transition) error {
	const query = `INSERT INTO order_transitions (order_id, from_status, to_status, observed_at)
                   VALUES ($1, $2, $3, $4)`
	if _, err := r.storage.pool.Exec(ctx, query, t.OrderID, string(t.From), string(t.To), t.ObservedAt); err != nil {
		return err
	}
	return nil
}

func (r *transitionRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Transition, error) {
	const query = `SELECT order_id, from_status, to_status, observed_at
                   FROM order_transitions WHERE order_id=$1 ORDER BY observed_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Transition
	for rows.Next() {
		var (
			t        model.Transition
			from, to string
		)
		if err := rows.Scan(&t.OrderID, &from, &to, &t.ObservedAt); err != nil {
			return nil, err
		}
		t.From = model.OrderStatus(from)
		t.To = model.OrderStatus(to)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
