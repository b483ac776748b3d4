package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mzanetti/campusmate/internal/assistant"
	"github.com/mzanetti/campusmate/internal/intent"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	UserID string `json:"user_id"`
	Intent string `json:"intent"`
	Reply  string `json:"reply"`
}

type statisticsResponse struct {
	UserID string `json:"user_id"`
	assistant.Statistics
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	reply := s.assistant.Handle(r.Context(), req.UserID, req.Message)
	respondJSON(w, http.StatusOK, chatResponse{
		UserID: req.UserID,
		Intent: string(intent.Classify(req.Message)),
		Reply:  reply,
	})
}

func (s *Server) handleResetConversation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "missing user id")
		return
	}

	if err := s.assistant.ResetConversation(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID, "status": "reset"})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "missing user id")
		return
	}

	stats := s.assistant.GetStatistics(r.Context(), userID)
	respondJSON(w, http.StatusOK, statisticsResponse{UserID: userID, Statistics: stats})
}

func (s *Server) handleDeleteMemories(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "missing user id")
		return
	}

	if err := s.assistant.DeleteMemories(r.Context(), userID); err != nil {
		respondError(w, http.StatusBadGateway, "delete_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID, "status": "deleted"})
}
