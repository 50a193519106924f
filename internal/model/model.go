// Package model содержит доменные сущности студии: проекты портфолио, сообщения и заказы.
package model

import "errors"

// DateLayout задаёт формат дат создания сообщений и заказов (только дата, UTC).
const DateLayout = "2006-01-02"

var (
	// ErrInvalidCategory возвращается для категории проекта вне допустимого набора.
	ErrInvalidCategory = errors.New("invalid project category")
	// ErrInvalidStatus возвращается для статуса заказа вне допустимого набора.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrNegativeAmount возвращается для отрицательной суммы заказа.
	ErrNegativeAmount = errors.New("order amount must not be negative")
)

// ProjectCategory описывает категорию работы в портфолио.
type ProjectCategory string

const (
	// CategoryAll используется только как фильтр публичного списка.
	CategoryAll    ProjectCategory = "All"
	CategoryLogo   ProjectCategory = "Logo"
	CategoryWebUI  ProjectCategory = "Web UI"
	CategoryPoster ProjectCategory = "Poster"
)

// Valid сообщает, может ли категория быть присвоена проекту.
func (c ProjectCategory) Valid() bool {
	switch c {
	case CategoryLogo, CategoryWebUI, CategoryPoster:
		return true
	}
	return false
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Valid сообщает, входит ли статус в допустимый набор.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Project описывает работу в портфолио.
// Year хранит произвольную подпись (например, итог проекта), а не обязательно год.
type Project struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Category    ProjectCategory `json:"category" yaml:"category"`
	Image       string          `json:"image" yaml:"image"`
	Description string          `json:"description" yaml:"description"`
	Tools       []string        `json:"tools" yaml:"tools"`
	Year        string          `json:"year" yaml:"year"`
}

// Message описывает входящее сообщение с сайта.
type Message struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Message string `json:"message" yaml:"message"`
	Date    string `json:"date" yaml:"date"`
	Read    bool   `json:"read" yaml:"read"`
}

// Order описывает заказ клиента. Amount хранится в целых единицах валюты.
type Order struct {
	ID          string      `json:"id" yaml:"id"`
	ClientName  string      `json:"clientName" yaml:"clientName"`
	ServiceType string      `json:"serviceType" yaml:"serviceType"`
	Status      OrderStatus `json:"status" yaml:"status"`
	Amount      int64       `json:"amount" yaml:"amount"`
	Date        string      `json:"date" yaml:"date"`
	Notes       string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PricingPlan описывает тарифный план из каталога услуг.
type PricingPlan struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Tagline   string   `json:"tagline" yaml:"tagline"`
	Price     string   `json:"price" yaml:"price"`
	Delivery  string   `json:"delivery" yaml:"delivery"`
	Revisions string   `json:"revisions" yaml:"revisions"`
	Features  []string `json:"features" yaml:"features"`
	BestFor   string   `json:"bestFor" yaml:"bestFor"`
}

// Stats содержит сводные показатели для панели администратора.
type Stats struct {
	TotalProjects  int   `json:"totalProjects"`
	TotalRevenue   int64 `json:"totalRevenue"`
	PendingOrders  int   `json:"pendingOrders"`
	UnreadMessages int   `json:"unreadMessages"`
}

// ProjectDraft содержит поля нового проекта без идентификатора.
type ProjectDraft struct {
	Title       string
	Category    ProjectCategory
	Image       string
	Description string
	Tools       []string
	Year        string
}

// NewProjectDraft проверяет категорию и собирает черновик проекта.
// Текстовые поля принимаются как есть, пустые строки допустимы.
func NewProjectDraft(title string, category ProjectCategory, image, description string, tools []string, year string) (ProjectDraft, error) {
	if !category.Valid() {
		return ProjectDraft{}, ErrInvalidCategory
	}
	if tools == nil {
		tools = []string{}
	}
	return ProjectDraft{
		Title:       title,
		Category:    category,
		Image:       image,
		Description: description,
		Tools:       tools,
		Year:        year,
	}, nil
}

// MessageDraft содержит поля сообщения, которые задаёт отправитель.
type MessageDraft struct {
	Name    string
	Email   string
	Message string
}

// NewMessageDraft собирает черновик сообщения. Дата, признак прочтения и идентификатор назначаются хранилищем.
func NewMessageDraft(name, email, message string) MessageDraft {
	return MessageDraft{Name: name, Email: email, Message: message}
}

// OrderDraft содержит поля нового заказа без идентификатора и даты.
type OrderDraft struct {
	ClientName  string
	ServiceType string
	Status      OrderStatus
	Amount      int64
	Notes       string
}

// NewOrderDraft проверяет статус и сумму и собирает черновик заказа.
func NewOrderDraft(clientName, serviceType string, status OrderStatus, amount int64, notes string) (OrderDraft, error) {
	if !status.Valid() {
		return OrderDraft{}, ErrInvalidStatus
	}
	if amount < 0 {
		return OrderDraft{}, ErrNegativeAmount
	}
	return OrderDraft{
		ClientName:  clientName,
		ServiceType: serviceType,
		Status:      status,
		Amount:      amount,
		Notes:       notes,
	}, nil
}
