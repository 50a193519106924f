// Package handler содержит HTTP-обработчики API сайта студии.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/hucreative-studio/internal/chat"
	"github.com/mmeshcher/hucreative-studio/internal/middleware"
	"github.com/mmeshcher/hucreative-studio/internal/model"
	"github.com/mmeshcher/hucreative-studio/internal/repository"
	"github.com/mmeshcher/hucreative-studio/internal/service"
	"github.com/mmeshcher/hucreative-studio/internal/validation"
)

// storageWarningHeader сообщает клиенту, что изменение применено, но не сохранено долговременно.
const storageWarningHeader = "X-Storage-Warning"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListProjects(category model.ProjectCategory) []model.Project
	GetProject(id string) (model.Project, error)
	Plans() []model.PricingPlan
	SubmitContact(ctx context.Context, form validation.ContactForm) (*service.LeadResult, error)
	SubmitGetStarted(ctx context.Context, form validation.GetStartedForm) (*service.LeadResult, error)

	Login(ctx context.Context, username, password string) (bool, error)
	Logout(ctx context.Context) error

	Dashboard() service.Dashboard
	Projects() []model.Project
	AddProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
	DeleteProject(ctx context.Context, id string) error
	Messages() []model.Message
	MarkMessageRead(ctx context.Context, id string) error
	Orders() []model.Order
	AddOrder(ctx context.Context, draft model.OrderDraft) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
}

// ChatService определяет контракт диалога с AI-ассистентом.
type ChatService interface {
	StartSession() (string, chat.Turn)
	Send(ctx context.Context, id, text string) (chat.Turn, error)
	History(id string) ([]chat.Turn, error)
}

// Handler реализует HTTP-обработчики API сайта студии.
type Handler struct {
	service        Service
	chat           ChatService
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// Если chatSvc равен nil, маршруты чата не регистрируются.
func NewHandler(s Service, chatSvc ChatService, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		chat:           chatSvc,
		logger:         logger,
		authMiddleware: auth,
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// persisted разбирает ошибку записи: сбой долговременного хранилища не отменяет ответ,
// а только добавляет предупреждение. Возвращает false, если ответ уже отправлен с ошибкой.
func (h *Handler) persisted(w http.ResponseWriter, err error, op string) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, repository.ErrPersist) {
		w.Header().Set(storageWarningHeader, "change applied but not saved to durable storage")
		return true
	}
	h.logger.Error(op+" error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	return false
}

// ListProjects возвращает работы портфолио, опционально отфильтрованные по категории.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	category := model.ProjectCategory(r.URL.Query().Get("category"))
	if category != "" && category != model.CategoryAll && !category.Valid() {
		writeError(w, http.StatusBadRequest, model.ErrInvalidCategory.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.service.ListProjects(category))
}

// GetProject возвращает одну работу портфолио.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProject(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("get project error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// ListPlans возвращает каталог тарифных планов.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Plans())
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "validation failed"}
	if errs, ok := validation.FieldErrors(err); ok {
		resp.Fields = make(map[string]string, len(errs))
		for field, fieldErr := range errs {
			resp.Fields[field] = fieldErr.Error()
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func (h *Handler) writeLead(w http.ResponseWriter, res *service.LeadResult, err error, op string) {
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !h.persisted(w, err, op) {
			return
		}
	}
	writeJSON(w, http.StatusCreated, res)
}

// SubmitContact принимает форму обратной связи.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var form validation.ContactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		h.writeValidationError(w, err)
		return
	}

	res, err := h.service.SubmitContact(r.Context(), form)
	h.writeLead(w, res, err, "submit contact")
}

// SubmitGetStarted принимает заявку на тарифный план.
func (h *Handler) SubmitGetStarted(w http.ResponseWriter, r *http.Request) {
	var form validation.GetStartedForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		h.writeValidationError(w, err)
		return
	}

	res, err := h.service.SubmitGetStarted(r.Context(), form)
	h.writeLead(w, res, err, "submit get started")
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login выполняет вход администратора и устанавливает cookie сессии.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	ok, err := h.service.Login(r.Context(), req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !h.persisted(w, err, "login") {
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, req.Username); err != nil {
		h.logger.Error("sign session cookie error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	w.WriteHeader(http.StatusOK)
}

type loginViewResponse struct {
	LoginEndpoint string `json:"loginEndpoint"`
}

// LoginView обслуживает страницу входа, на которую охрана маршрутов перенаправляет навигацию.
// Если страница входа живёт в SPA на другом origin, запрос перенаправляется туда.
func (h *Handler) LoginView(w http.ResponseWriter, r *http.Request) {
	if u := h.authMiddleware.LoginURL(); u != middleware.LoginPath {
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, u, http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, loginViewResponse{LoginEndpoint: "/api/admin/login"})
}

// Logout выполняет выход администратора и удаляет cookie сессии.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.service.Logout(r.Context())
	h.authMiddleware.ClearAuthCookie(w)
	if !h.persisted(w, err, "logout") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
