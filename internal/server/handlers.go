package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/store"
)

type searchRequest struct {
	Query string `json:"query"`
}

type contactsRequest struct {
	CompanyName string `json:"companyName"`
	Domain      string `json:"domain"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = eris.ToString(err, false)
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required", nil)
		return
	}

	resp, classified := s.assembler.Respond(r.Context(), req.Query)

	// History is best effort; a storage failure never fails the search.
	if s.store != nil {
		raw, err := json.Marshal(resp)
		if err == nil {
			err = s.store.SaveSearch(r.Context(), store.Search{
				Query:        req.Query,
				Intent:       classified.SearchIntent,
				ResponseType: resp.ResponseType(),
				Response:     raw,
			})
		}
		if err != nil {
			zap.L().Warn("server: save search", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	var req contactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "companyName is required", nil)
		return
	}

	resp := s.assembler.FindPeople(r.Context(), req.CompanyName, req.Domain)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSearches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	searches, err := s.store.ListSearches(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list searches", err)
		return
	}
	if searches == nil {
		searches = []store.Search{}
	}
	writeJSON(w, http.StatusOK, searches)
}

func (s *Server) handleGetSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	search, err := s.store.GetSearch(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get search", err)
		return
	}
	if search == nil {
		writeError(w, http.StatusNotFound, "search not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, search)
}
