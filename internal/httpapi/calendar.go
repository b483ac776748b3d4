package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mzanetti/campusmate/internal/calendar"
)

const defaultSearchResults = 10

type searchEventsResponse struct {
	Query  string           `json:"query"`
	Events []calendar.Event `json:"events"`
}

// handleSearchEvents forwards a free-text event search to the calendar
// proxy. Unlike the chat calendar branch this is window-free: the proxy
// matches upcoming events against the query text.
func (s *Server) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing_query", "query parameter query is required")
		return
	}

	maxResults := defaultSearchResults
	if raw := strings.TrimSpace(r.URL.Query().Get("max_results")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_max_results", "max_results must be a positive integer")
			return
		}
		maxResults = n
	}

	events, err := s.calendar.SearchEvents(r.Context(), query, maxResults)
	if err != nil {
		respondError(w, http.StatusBadGateway, "search_failed", err.Error())
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}
	respondJSON(w, http.StatusOK, searchEventsResponse{Query: query, Events: events})
}
