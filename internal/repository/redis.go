package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository хранит значения по ключам в Redis без срока жизни.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository подключается к Redis и проверяет соединение.
func NewRedisRepository(ctx context.Context, addr, password, prefix string) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisRepositoryFromClient(client, prefix), nil
}

// NewRedisRepositoryFromClient оборачивает готовый клиент. Prefix добавляется ко всем ключам.
func NewRedisRepositoryFromClient(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(k string) string {
	return r.prefix + k
}

// Get возвращает значение по ключу. Второй результат false, если ключа нет.
func (r *RedisRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set сохраняет значение по ключу.
func (r *RedisRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ.
func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
