// Package session хранит флаг входа администратора.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/hucreative-studio/internal/repository"
)

// AuthKey задаёт ключ флага входа в долговременном хранилище.
const AuthKey = "hu_admin_auth"

const (
	adminUsername = "pankajbisht"
	adminPassword = "14062008"
)

// KV описывает долговременное хранилище флага.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Gate хранит единственный на процесс флаг входа и зеркалирует его в KV.
type Gate struct {
	mu            sync.RWMutex
	kv            KV
	logger        *zap.Logger
	authenticated bool
}

// New восстанавливает флаг из kv. Значение, отличное от "true", означает, что вход не выполнен.
func New(ctx context.Context, kv KV, logger *zap.Logger) (*Gate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v, ok, err := kv.Get(ctx, AuthKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", AuthKey, err)
	}

	return &Gate{
		kv:            kv,
		logger:        logger,
		authenticated: ok && v == "true",
	}, nil
}

// IsAuthenticated сообщает, выполнен ли вход.
func (g *Gate) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authenticated
}

// Login сверяет учётные данные со встроенной парой.
// При несовпадении возвращает false и не меняет флаг.
// Ошибка записи флага не отменяет вход и оборачивается в repository.ErrPersist.
func (g *Gate) Login(ctx context.Context, username, password string) (bool, error) {
	if username != adminUsername || password != adminPassword {
		g.logger.Info("admin login rejected", zap.String("username", username))
		return false, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.authenticated = true
	if err := g.kv.Set(ctx, AuthKey, "true"); err != nil {
		g.logger.Warn("session flag not persisted", zap.Error(err))
		return true, fmt.Errorf("%w: write %s: %w", repository.ErrPersist, AuthKey, err)
	}
	return true, nil
}

// Logout сбрасывает флаг и удаляет его сохранённую копию.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.authenticated = false
	if err := g.kv.Delete(ctx, AuthKey); err != nil {
		g.logger.Warn("session flag not cleared", zap.Error(err))
		return fmt.Errorf("%w: delete %s: %w", repository.ErrPersist, AuthKey, err)
	}
	return nil
}
