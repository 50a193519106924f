// Package store реализует хранилище проектов, сообщений и заказов студии.
// Каждое изменение сразу записывается в долговременное хранилище целой коллекцией.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/hucreative-studio/internal/model"
	"github.com/mmeshcher/hucreative-studio/internal/repository"
)

// Ключи коллекций в долговременном хранилище.
const (
	ProjectsKey = "hu_projects"
	MessagesKey = "hu_messages"
	OrdersKey   = "hu_orders"
)

// KV описывает долговременное хранилище, в которое пишутся коллекции.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Seed содержит коллекции, которые используются при отсутствии сохранённой копии.
type Seed struct {
	Projects []model.Project
	Messages []model.Message
	Orders   []model.Order
}

// Store владеет коллекциями и опосредует все чтения и изменения.
type Store struct {
	mu     sync.Mutex
	kv     KV
	logger *zap.Logger
	now    func() time.Time
	lastID int64

	projects []model.Project
	messages []model.Message
	orders   []model.Order
}

// Option настраивает Store.
type Option func(*Store)

// WithLogger задаёт логгер для предупреждений о сбоях записи.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New загружает коллекции из kv. Для отсутствующего ключа берётся коллекция из seed.
func New(ctx context.Context, kv KV, seed Seed, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.projects, err = load(ctx, kv, ProjectsKey, seed.Projects); err != nil {
		return nil, err
	}
	if s.messages, err = load(ctx, kv, MessagesKey, seed.Messages); err != nil {
		return nil, err
	}
	if s.orders, err = load(ctx, kv, OrdersKey, seed.Orders); err != nil {
		return nil, err
	}

	return s, nil
}

func load[T any](ctx context.Context, kv KV, key string, fallback []T) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	items := slices.Clone(fallback)
	if ok && raw != "" {
		items = nil
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// encode сериализует коллекцию так же, как JSON.stringify: компактно и без экранирования HTML.
func encode[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// persistLocked записывает коллекцию под ключом key. Ошибка записи не откатывает изменение в памяти.
func persistLocked[T any](ctx context.Context, s *Store, key string, items []T) error {
	data, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.kv.Set(ctx, key, data); err != nil {
		s.logger.Warn("collection not persisted", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: write %s: %w", repository.ErrPersist, key, err)
	}
	return nil
}

// nextIDLocked выдаёт идентификатор на основе времени в миллисекундах.
// Идентификаторы строго возрастают в пределах процесса и не совпадают с уже занятыми.
func (s *Store) nextIDLocked(taken func(id string) bool) string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for taken(strconv.FormatInt(id, 10)) {
		id++
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Store) todayLocked() string {
	return s.now().UTC().Format(model.DateLayout)
}

// Projects возвращает копию списка проектов, новые первыми.
func (s *Store) Projects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]model.Project, len(s.projects))
	for i, p := range s.projects {
		res[i] = cloneProject(p)
	}
	return res
}

// Project возвращает проект по идентификатору.
func (s *Store) Project(id string) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
	if i < 0 {
		return model.Project{}, false
	}
	return cloneProject(s.projects[i]), true
}

func cloneProject(p model.Project) model.Project {
	p.Tools = slices.Clone(p.Tools)
	return p
}

// AddProject создаёт проект с новым идентификатором и добавляет его в начало списка.
func (s *Store) AddProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tools := slices.Clone(draft.Tools)
	if tools == nil {
		tools = []string{}
	}

	p := model.Project{
		ID: s.nextIDLocked(func(id string) bool {
			return slices.ContainsFunc(s.projects, func(p model.Project) bool { return p.ID == id })
		}),
		Title:       draft.Title,
		Category:    draft.Category,
		Image:       draft.Image,
		Description: draft.Description,
		Tools:       tools,
		Year:        draft.Year,
	}
	s.projects = append([]model.Project{p}, s.projects...)

	return cloneProject(p), persistLocked(ctx, s, ProjectsKey, s.projects)
}

// UpdateProject целиком заменяет проект с тем же идентификатором.
// Если проекта нет, коллекция не меняется.
func (s *Store) UpdateProject(ctx context.Context, project model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project = cloneProject(project)
	if project.Tools == nil {
		project.Tools = []string{}
	}

	for i := range s.projects {
		if s.projects[i].ID == project.ID {
			s.projects[i] = project
		}
	}

	return persistLocked(ctx, s, ProjectsKey, s.projects)
}

// DeleteProject удаляет проект по идентификатору. Повторное удаление ничего не делает.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = slices.DeleteFunc(s.projects, func(p model.Project) bool { return p.ID == id })

	return persistLocked(ctx, s, ProjectsKey, s.projects)
}

// Messages возвращает копию списка сообщений, новые первыми.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// AddMessage создаёт непрочитанное сообщение с сегодняшней датой.
func (s *Store) AddMessage(ctx context.Context, draft model.MessageDraft) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := model.Message{
		ID: s.nextIDLocked(func(id string) bool {
			return slices.ContainsFunc(s.messages, func(m model.Message) bool { return m.ID == id })
		}),
		Name:    draft.Name,
		Email:   draft.Email,
		Message: draft.Message,
		Date:    s.todayLocked(),
		Read:    false,
	}
	s.messages = append([]model.Message{m}, s.messages...)

	return m, persistLocked(ctx, s, MessagesKey, s.messages)
}

// MarkMessageRead отмечает сообщение прочитанным. Обратного перехода нет.
func (s *Store) MarkMessageRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Read = true
		}
	}

	return persistLocked(ctx, s, MessagesKey, s.messages)
}

// Orders возвращает копию списка заказов, новые первыми.
func (s *Store) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// AddOrder создаёт заказ с новым идентификатором и сегодняшней датой.
func (s *Store) AddOrder(ctx context.Context, draft model.OrderDraft) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := model.Order{
		ID: s.nextIDLocked(func(id string) bool {
			return slices.ContainsFunc(s.orders, func(o model.Order) bool { return o.ID == id })
		}),
		ClientName:  draft.ClientName,
		ServiceType: draft.ServiceType,
		Status:      draft.Status,
		Amount:      draft.Amount,
		Date:        s.todayLocked(),
		Notes:       draft.Notes,
	}
	s.orders = append([]model.Order{o}, s.orders...)

	return o, persistLocked(ctx, s, OrdersKey, s.orders)
}

// UpdateOrderStatus меняет только статус заказа. Допустим переход из любого статуса в любой.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
		}
	}

	return persistLocked(ctx, s, OrdersKey, s.orders)
}

// Stats считает показатели панели администратора: выручка учитывает только выполненные заказы.
func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.Stats{TotalProjects: len(s.projects)}
	for _, o := range s.orders {
		switch o.Status {
		case model.OrderStatusPending:
			st.PendingOrders++
		case model.OrderStatusCompleted:
			st.TotalRevenue += o.Amount
		}
	}
	for _, m := range s.messages {
		if !m.Read {
			st.UnreadMessages++
		}
	}
	return st
}
