package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/hucreative-studio/internal/chat"
)

type chatSessionResponse struct {
	ID       string    `json:"id"`
	Greeting chat.Turn `json:"greeting"`
}

type chatMessageRequest struct {
	Text string `json:"text"`
}

// StartChat открывает новую сессию диалога с ассистентом.
func (h *Handler) StartChat(w http.ResponseWriter, r *http.Request) {
	id, greeting := h.chat.StartSession()
	writeJSON(w, http.StatusCreated, chatSessionResponse{ID: id, Greeting: greeting})
}

// SendChatMessage отправляет сообщение ассистенту и возвращает его ответ.
// Сбой внешнего сервиса не является ошибкой: клиент получает резервный ответ.
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	reply, err := h.chat.Send(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, chat.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, chat.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("chat send error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// GetChatHistory возвращает историю сессии без приветствия.
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.chat.History(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("chat history error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, history)
}
