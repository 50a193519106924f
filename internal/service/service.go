// Package service реализует бизнес-логику сайта студии и панели администратора.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/hucreative-studio/internal/model"
	"github.com/mmeshcher/hucreative-studio/internal/seed"
	"github.com/mmeshcher/hucreative-studio/internal/validation"
)

var (
	// ErrProjectNotFound возвращается, если проект не найден.
	ErrProjectNotFound = errors.New("project not found")
	// ErrPlanNotFound возвращается для неизвестного тарифного плана.
	ErrPlanNotFound = errors.New("pricing plan not found")
)

// Число последних записей на панели администратора.
const (
	recentOrdersLimit   = 5
	recentMessagesLimit = 4
)

// Store описывает хранилище коллекций, используемое сервисом.
type Store interface {
	Projects() []model.Project
	Project(id string) (model.Project, bool)
	AddProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
	DeleteProject(ctx context.Context, id string) error
	Messages() []model.Message
	AddMessage(ctx context.Context, draft model.MessageDraft) (model.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	Orders() []model.Order
	AddOrder(ctx context.Context, draft model.OrderDraft) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	Stats() model.Stats
}

// Gate описывает флаг входа администратора.
type Gate interface {
	Login(ctx context.Context, username, password string) (bool, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
}

// Dashboard содержит данные главной страницы панели администратора.
type Dashboard struct {
	Stats          model.Stats     `json:"stats"`
	RecentOrders   []model.Order   `json:"recentOrders"`
	RecentMessages []model.Message `json:"recentMessages"`
}

// LeadResult содержит записи, созданные по заявке с сайта. Order равен nil, если заказ не создавался.
type LeadResult struct {
	Message model.Message `json:"message"`
	Order   *model.Order  `json:"order,omitempty"`
}

// Service содержит бизнес-логику сайта студии.
type Service struct {
	store Store
	gate  Gate
	plans seed.Catalog
	now   func() time.Time
}

// NewService создаёт сервис поверх хранилища, флага входа и каталога тарифов.
func NewService(store Store, gate Gate, plans seed.Catalog) *Service {
	return &Service{
		store: store,
		gate:  gate,
		plans: plans,
		now:   time.Now,
	}
}

// ListProjects возвращает проекты указанной категории. Пустая категория или All означают все проекты.
func (s *Service) ListProjects(category model.ProjectCategory) []model.Project {
	projects := s.store.Projects()
	if category == "" || category == model.CategoryAll {
		return projects
	}

	res := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.Category == category {
			res = append(res, p)
		}
	}
	return res
}

// GetProject возвращает проект по идентификатору.
func (s *Service) GetProject(id string) (model.Project, error) {
	p, ok := s.store.Project(id)
	if !ok {
		return model.Project{}, ErrProjectNotFound
	}
	return p, nil
}

// Plans возвращает каталог тарифных планов.
func (s *Service) Plans() []model.PricingPlan {
	return s.plans
}

func (s *Service) plan(id string) (model.PricingPlan, error) {
	p, ok := s.plans.Plan(id)
	if !ok {
		return model.PricingPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return p, nil
}

// PlanAmount извлекает сумму из цены тарифа, оставляя только цифры. Без цифр возвращает 0.
func PlanAmount(price string) int64 {
	var digits strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	amount, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return amount
}

// SubmitContact сохраняет сообщение из формы обратной связи.
// Если выбран тариф, дополнительно создаётся заказ в статусе Pending.
// Форма должна быть проверена до вызова.
func (s *Service) SubmitContact(ctx context.Context, form validation.ContactForm) (*LeadResult, error) {
	var (
		plan    model.PricingPlan
		hasPlan = form.PlanID != ""
	)
	if hasPlan {
		var err error
		if plan, err = s.plan(form.PlanID); err != nil {
			return nil, err
		}
	}

	var persistErr error

	msg, err := s.store.AddMessage(ctx, model.NewMessageDraft(form.Name, form.Email, form.Message))
	persistErr = errors.Join(persistErr, err)

	res := &LeadResult{Message: msg}
	if !hasPlan {
		return res, persistErr
	}

	draft, err := model.NewOrderDraft(form.Name, plan.Name, model.OrderStatusPending, PlanAmount(plan.Price),
		"Initial Inquiry via website. Message: "+form.Message)
	if err != nil {
		return nil, err
	}

	order, err := s.store.AddOrder(ctx, draft)
	persistErr = errors.Join(persistErr, err)
	res.Order = &order

	return res, persistErr
}

// SubmitGetStarted сохраняет заявку на тариф: форматированное сообщение для администратора и заказ в статусе Pending.
// Форма должна быть проверена до вызова.
func (s *Service) SubmitGetStarted(ctx context.Context, form validation.GetStartedForm) (*LeadResult, error) {
	plan, err := s.plan(form.PlanID)
	if err != nil {
		return nil, err
	}

	text := strings.Join([]string{
		"-----------------------------------------------------",
		"Client Name:      " + form.Name,
		"Mobile Number:    " + form.Mobile,
		"Email Address:    " + form.Email,
		"Requirements:     " + form.Requirements,
		fmt.Sprintf("Selected Plan:    %s (%s)", plan.Name, plan.Price),
		"Submitted On:     " + s.now().Format("2006-01-02 15:04:05"),
		"-----------------------------------------------------",
	}, "\n")

	var persistErr error

	msg, err := s.store.AddMessage(ctx, model.NewMessageDraft(form.Name, form.Email, text))
	persistErr = errors.Join(persistErr, err)

	draft, err := model.NewOrderDraft(form.Name, plan.Name, model.OrderStatusPending, PlanAmount(plan.Price),
		"Mobile: "+form.Mobile)
	if err != nil {
		return nil, err
	}

	order, err := s.store.AddOrder(ctx, draft)
	persistErr = errors.Join(persistErr, err)

	return &LeadResult{Message: msg, Order: &order}, persistErr
}

// Login выполняет вход администратора.
func (s *Service) Login(ctx context.Context, username, password string) (bool, error) {
	return s.gate.Login(ctx, username, password)
}

// Logout выполняет выход администратора.
func (s *Service) Logout(ctx context.Context) error {
	return s.gate.Logout(ctx)
}

// IsAuthenticated сообщает, выполнен ли вход администратора.
func (s *Service) IsAuthenticated() bool {
	return s.gate.IsAuthenticated()
}

// Dashboard собирает показатели и последние записи для панели администратора.
func (s *Service) Dashboard() Dashboard {
	orders := s.store.Orders()
	messages := s.store.Messages()

	return Dashboard{
		Stats:          s.store.Stats(),
		RecentOrders:   orders[:min(len(orders), recentOrdersLimit)],
		RecentMessages: messages[:min(len(messages), recentMessagesLimit)],
	}
}

// Projects возвращает все проекты.
func (s *Service) Projects() []model.Project {
	return s.store.Projects()
}

// AddProject создаёт проект.
func (s *Service) AddProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	return s.store.AddProject(ctx, draft)
}

// UpdateProject заменяет проект. Неизвестный идентификатор не считается ошибкой.
func (s *Service) UpdateProject(ctx context.Context, project model.Project) error {
	return s.store.UpdateProject(ctx, project)
}

// DeleteProject удаляет проект.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.store.DeleteProject(ctx, id)
}

// Messages возвращает все сообщения.
func (s *Service) Messages() []model.Message {
	return s.store.Messages()
}

// MarkMessageRead отмечает сообщение прочитанным.
func (s *Service) MarkMessageRead(ctx context.Context, id string) error {
	return s.store.MarkMessageRead(ctx, id)
}

// Orders возвращает все заказы.
func (s *Service) Orders() []model.Order {
	return s.store.Orders()
}

// AddOrder создаёт заказ вручную из панели администратора.
func (s *Service) AddOrder(ctx context.Context, draft model.OrderDraft) (model.Order, error) {
	return s.store.AddOrder(ctx, draft)
}

// UpdateOrderStatus меняет статус заказа.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return s.store.UpdateOrderStatus(ctx, id, status)
}
