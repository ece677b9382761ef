package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"DipWatch/internal/model"
	"DipWatch/internal/scanner"
)

const noResultsDetail = "No results available. Data may be missing or API limits reached."

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type dipResponse struct {
	Results []model.DipResult `json:"results"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type routeInfo struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

type routesResponse struct {
	Routes []routeInfo `json:"routes"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "Dip Buying Trigger API"})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleRoutes lists registered routes so a deploy can be sanity-checked from
// the outside.
func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	var routes []routeInfo
	_ = s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{}
		}
		routes = append(routes, routeInfo{Path: path, Methods: methods})
		return nil
	})
	writeJSON(w, http.StatusOK, routesResponse{Routes: routes})
}

// handleDip runs the batch scan and serializes the recommendations. A batch
// where every instrument failed is a 404, matching the upstream API contract.
func (s *Server) handleDip(w http.ResponseWriter, r *http.Request) {
	results, err := s.scanner.Scan(r.Context())
	if err != nil {
		if errors.Is(err, scanner.ErrNoResults) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: noResultsDetail})
			return
		}
		log.Error().Err(err).Msg("dip scan failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, dipResponse{Results: results})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
