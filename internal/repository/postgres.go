// Package repository содержит реализации долговременного key/value хранилища коллекций студии.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrPersist оборачивает ошибку записи в долговременное хранилище.
// Изменение в памяти к этому моменту уже применено и не откатывается.
var ErrPersist = errors.New("persist to durable storage")

// PostgresRepository хранит значения по ключам в таблице kv_store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// connectTimeout ограничивает подключение к БД и применение миграций при старте.
const connectTimeout = 10 * time.Second

// NewPostgresRepository подключается к PostgreSQL и применяет встроенные миграции схемы kv_store.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresRepository{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry выполняет fn и при конфликте транзакций (сериализация, deadlock) сразу повторяет её один раз.
// Сетевые ошибки не повторяются, паузы между попытками нет.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !isConflict(err) || ctx.Err() != nil {
		return err
	}
	return fn()
}

// isConflict сообщает, что запись отклонена из-за конфликта с параллельной транзакцией.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Get возвращает значение по ключу. Второй результат false, если ключа нет.
func (r *PostgresRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

// Set сохраняет значение по ключу целиком, заменяя предыдущее.
func (r *PostgresRepository) Set(ctx context.Context, key, value string) error {
	err := r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			key, value,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствие ключа не считается ошибкой.
func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	err := r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
