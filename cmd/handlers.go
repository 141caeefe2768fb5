package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/civicworks/civic-cli/internal/classify"
	"github.com/civicworks/civic-cli/internal/feed"
	"github.com/civicworks/civic-cli/internal/geo"
	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/store"
)

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createIssueRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	ReportedBy  string  `json:"reported_by"`
	Anonymous   bool    `json:"anonymous"`
	// Classify runs the classifier and adopts its category when the request
	// leaves category empty.
	Classify bool `json:"classify"`
}

func (s *apiServer) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category := model.CategoryOther
	if req.Category != "" {
		c, err := parseCategory(req.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = c
	} else if req.Classify {
		c, err := s.classifier.Classify(r.Context(), classify.Input{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		category = c.Category
	}

	issue, err := s.store.CreateIssue(r.Context(), model.IssueDraft{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Coordinates: model.Coordinate{Lat: req.Lat, Lng: req.Lng},
		ReportedBy:  req.ReportedBy,
		Anonymous:   req.Anonymous,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (s *apiServer) handleListIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.IssueFilter{
		ReportedBy:     q.Get("reporter"),
		IncludeFlagged: q.Get("include_flagged") == "true",
	}
	if v := q.Get("category"); v != "" {
		c, err := parseCategory(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Category = c
	}
	if v := q.Get("status"); v != "" {
		status := model.IssueStatus(v)
		if !model.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, "unknown status "+v)
			return
		}
		filter.Status = status
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	issues, err := s.store.ListIssues(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if issues == nil {
		issues = []model.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *apiServer) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	issue, err := s.store.GetIssue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *apiServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.UpdateStatus(r.Context(), id, model.IssueStatus(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func (s *apiServer) handleUpvote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	upvotes, err := s.store.Upvote(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "upvotes": upvotes})
}

func (s *apiServer) handleFlag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Flag(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "flagged": true})
}

func (s *apiServer) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteIssue(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) feedQuery(r *http.Request) (feed.Query, error) {
	q := r.URL.Query()
	fq := feed.Query{
		RadiusKm:       s.defaultKm,
		Search:         q.Get("search"),
		IncludeFlagged: q.Get("include_flagged") == "true",
	}

	if v := q.Get("radius_km"); v != "" {
		km, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fq, errors.New("invalid radius_km")
		}
		fq.RadiusKm = km
	}
	if latStr, lngStr := q.Get("lat"), q.Get("lng"); latStr != "" || lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return fq, errors.New("invalid lat")
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return fq, errors.New("invalid lng")
		}
		fq.Center = &model.Coordinate{Lat: lat, Lng: lng}
	}
	if v := q.Get("category"); v != "" {
		c, err := parseCategory(v)
		if err != nil {
			return fq, err
		}
		fq.Categories = []model.Category{c}
	}
	if v := q.Get("status"); v != "" {
		status := model.IssueStatus(v)
		if !model.ValidStatus(status) {
			return fq, errors.New("unknown status " + v)
		}
		fq.Statuses = []model.IssueStatus{status}
	}
	return fq, nil
}

func (s *apiServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	fq, err := s.feedQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := s.feed.Nearby(r.Context(), fq)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ranked == nil {
		ranked = []model.RankedIssue{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (s *apiServer) handleFeedGeoJSON(w http.ResponseWriter, r *http.Request) {
	fq, err := s.feedQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := s.feed.Nearby(r.Context(), fq)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := feed.GeoJSON(ranked)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *apiServer) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.classifier.Classify(r.Context(), classify.Input{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// helpers

func parseCategory(v string) (model.Category, error) {
	if c := model.Category(v); model.ValidCategory(c) {
		return c, nil
	}
	if c, ok := model.CategoryFromSlug(v); ok {
		return c, nil
	}
	return "", errors.New("unknown category " + v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, geo.ErrLocationUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, classify.ErrTransport), errors.Is(err, classify.ErrBadShape):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
