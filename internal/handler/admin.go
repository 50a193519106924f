package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/hucreative-studio/internal/model"
)

// GetDashboard возвращает сводку для панели администратора.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Dashboard())
}

// GetAdminProjects возвращает все работы портфолио.
func (h *Handler) GetAdminProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Projects())
}

type projectRequest struct {
	Title       string                `json:"title"`
	Category    model.ProjectCategory `json:"category"`
	Image       string                `json:"image"`
	Description string                `json:"description"`
	Tools       []string              `json:"tools"`
	Year        string                `json:"year"`
}

// CreateProject добавляет работу в портфолио.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	draft, err := model.NewProjectDraft(req.Title, req.Category, req.Image, req.Description, req.Tools, req.Year)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.AddProject(r.Context(), draft)
	if !h.persisted(w, err, "add project") {
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// UpdateProject заменяет работу портфолио с идентификатором из пути.
// Неизвестный идентификатор не является ошибкой: коллекция остаётся прежней.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}
	if !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, model.ErrInvalidCategory.Error())
		return
	}
	if req.Tools == nil {
		req.Tools = []string{}
	}

	project := model.Project{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
		Tools:       req.Tools,
		Year:        req.Year,
	}

	err := h.service.UpdateProject(r.Context(), project)
	if !h.persisted(w, err, "update project") {
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// DeleteProject удаляет работу портфолио. Повторное удаление не является ошибкой.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "id"))
	if !h.persisted(w, err, "delete project") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMessages возвращает входящие сообщения.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Messages())
}

// MarkMessageRead помечает сообщение прочитанным.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	err := h.service.MarkMessageRead(r.Context(), chi.URLParam(r, "id"))
	if !h.persisted(w, err, "mark message read") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOrders возвращает заказы.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Orders())
}

type orderRequest struct {
	ClientName  string            `json:"clientName"`
	ServiceType string            `json:"serviceType"`
	Status      model.OrderStatus `json:"status"`
	Amount      int64             `json:"amount"`
	Notes       string            `json:"notes"`
}

// CreateOrder добавляет заказ вручную.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}
	if req.Status == "" {
		req.Status = model.OrderStatusPending
	}

	draft, err := model.NewOrderDraft(req.ClientName, req.ServiceType, req.Status, req.Amount, req.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.service.AddOrder(r.Context(), draft)
	if !h.persisted(w, err, "add order") {
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateOrderStatus меняет статус заказа. Допустим переход между любыми статусами.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, model.ErrInvalidStatus.Error())
		return
	}

	err := h.service.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if !h.persisted(w, err, "update order status") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
