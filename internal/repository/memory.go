package repository

import (
	"context"
	"sync"
)

// MemoryRepository хранит значения в памяти процесса. Данные теряются при перезапуске.
type MemoryRepository struct {
	mu         sync.Mutex
	data       map[string]string
	failWrites error
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]string)}
}

// FailWrites заставляет Set и Delete возвращать err. nil восстанавливает нормальную работу.
func (r *MemoryRepository) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWrites = err
}

// Get возвращает значение по ключу.
func (r *MemoryRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, ok, nil
}

// Set сохраняет значение по ключу.
func (r *MemoryRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites != nil {
		return r.failWrites
	}
	r.data[key] = value
	return nil
}

// Delete удаляет ключ.
func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites != nil {
		return r.failWrites
	}
	delete(r.data, key)
	return nil
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error {
	return nil
}
