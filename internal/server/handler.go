package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/artpar/favtag/internal/config"
	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/store"
	taghttp "github.com/artpar/favtag/internal/tagging/http"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

type handler struct {
	store  store.Store
	logger logrus.FieldLogger
}

type createResultRequest struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	ResponseCode int    `json:"response_code"`
}

// NewHandler builds the tagging API router.
func NewHandler(s store.Store, cfg config.ServerConfig, logger logrus.FieldLogger) http.Handler {
	h := &handler{store: s, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
		}).Handler)
	}

	r.Route(taghttp.PathResults, func(r chi.Router) {
		r.Get("/", h.listResults)
		r.Post("/", h.createResult)
		r.Get("/tags", h.listTags)
		r.Post("/tag/add", h.addTag)
		r.Post("/tag/remove", h.removeTag)
		r.Get("/{id}", h.getResult)
	})

	return r
}

// requestLogger tags every request with an id and logs its outcome.
func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
		}).Info("handled request")
	})
}

func (h *handler) addTag(w http.ResponseWriter, r *http.Request) {
	var request taghttp.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.WithError(err).Error("failed to read json request")
		http.Error(w, "Error reading JSON request", http.StatusBadRequest)
		return
	}

	if request.TagName == "" {
		http.Error(w, "No tag name provided", http.StatusBadRequest)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"result_id": request.ResultID,
		"tag":       request.TagName,
	}).Info("adding tag to result")

	if err := h.store.AddTag(r.Context(), request.ResultID, request.TagName); err != nil {
		h.storeError(w, "failed to add tag to result", err)
		return
	}

	writeJSON(w, http.StatusOK, "ok")
}

func (h *handler) removeTag(w http.ResponseWriter, r *http.Request) {
	var request taghttp.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.WithError(err).Error("failed to read json request")
		http.Error(w, "Error reading JSON request", http.StatusBadRequest)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"result_id": request.ResultID,
		"tag":       request.TagName,
	}).Info("removing tag from result")

	if err := h.store.RemoveTag(r.Context(), request.ResultID, request.TagName); err != nil {
		h.storeError(w, "failed to remove tag from result", err)
		return
	}

	writeJSON(w, http.StatusOK, "ok")
}

func (h *handler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		h.storeError(w, "could not find distinct tags", err)
		return
	}

	writeJSON(w, http.StatusOK, taghttp.TagListResponse{Tags: tags})
}

func (h *handler) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.ListResults(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		h.storeError(w, "failed to list results", err)
		return
	}
	if results == nil {
		results = []core.Result{}
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *handler) getResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid result id", http.StatusBadRequest)
		return
	}

	result, err := h.store.GetResult(r.Context(), uint(id))
	if err != nil {
		h.storeError(w, "failed to find result", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *handler) createResult(w http.ResponseWriter, r *http.Request) {
	var request createResultRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Error reading JSON request", http.StatusBadRequest)
		return
	}

	if request.URL == "" {
		http.Error(w, "No url provided", http.StatusBadRequest)
		return
	}

	result, err := h.store.CreateResult(r.Context(), core.Result{
		URL:          request.URL,
		Title:        request.Title,
		ResponseCode: request.ResponseCode,
	})
	if err != nil {
		h.storeError(w, "failed to create result", err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// storeError maps store errors to HTTP statuses.
func (h *handler) storeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrResultNotFound):
		http.Error(w, "Result not found", http.StatusNotFound)
	case errors.Is(err, store.ErrTagNotFound):
		http.Error(w, "Tag not found", http.StatusNotFound)
	case errors.Is(err, store.ErrEmptyTagName):
		http.Error(w, "No tag name provided", http.StatusBadRequest)
	default:
		h.logger.WithError(err).Error(msg)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
