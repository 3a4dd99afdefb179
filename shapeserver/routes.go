package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strconv"

	"github.com/dangunter/alsdata/infer"
	"github.com/dangunter/alsdata/integrations/shapeserver"
	"github.com/dangunter/alsdata/report"
	"github.com/dangunter/alsdata/shape"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"
)

const maxDocumentBytes = 16 << 20

func (s *server) setupRoutes() {
	s.router.HandleFunc("/documents", s.handleSubmitDocument()).Methods("POST")
	s.router.HandleFunc("/schemas", s.handleGetSchemas()).Methods("GET")
	s.router.HandleFunc("/schemas/{hash}", s.handleGetSchema()).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods("GET")
	s.router.Use(logMiddleware)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)
		slog.Info("request", "method", r.Method, "uri", r.RequestURI, "status", ww.Status(), "size", ww.Size())
	})
}

func (s *server) handleSubmitDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
		if err != nil {
			s.metrics.documents.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err)
			return
		}

		doc, err := decodeDocument(r.Header.Get("Content-Type"), body)
		if err != nil {
			s.metrics.documents.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err)
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			id = infer.DocumentID(doc, s.idKey)
		}

		s.mu.Lock()
		before := s.builder.Stats().CollapsedElements
		sch, err := s.builder.Process(doc)
		collapsed := s.builder.Stats().CollapsedElements - before
		var isNew bool
		if err == nil {
			isNew = s.schemas.Add(sch, id)
			s.metrics.schemas.Set(float64(s.schemas.Len()))
		}
		s.mu.Unlock()

		s.metrics.collapsed.Add(float64(collapsed))
		if err != nil {
			slog.Warn("rejected document", "id", id, "err", err)
			s.metrics.documents.WithLabelValues("rejected").Inc()
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}

		result := "known"
		if isNew {
			result = "new"
		}
		s.metrics.documents.WithLabelValues(result).Inc()
		s.metrics.rows.Observe(float64(sch.Len()))

		writeJSON(w, http.StatusCreated, shapeserver.SubmitResult{
			ID:   id,
			Hash: formatHash(sch.Hash()),
			New:  isNew,
		})
	}
}

func (s *server) handleGetSchemas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		entries := s.schemas.EntriesByDate()
		res := make([]shapeserver.SchemaSummary, len(entries))
		for i, e := range entries {
			res[i] = shapeserver.SchemaSummary{
				Hash:  formatHash(e.Schema.Hash()),
				IDs:   slices.Clone(e.IDs),
				Rows:  e.Schema.Len(),
				First: e.First,
				Last:  e.Last,
			}
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, res)
	}
}

func (s *server) handleGetSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := strconv.ParseUint(mux.Vars(r)["hash"], 16, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, errors.New("schema not found"))
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "text"
		}
		if format != "text" && format != "openapi" {
			writeError(w, http.StatusBadRequest, errors.New("unknown format"))
			return
		}

		s.mu.Lock()
		e, ok := s.schemas.Get(h)
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("schema not found"))
			return
		}

		key := reportKey{hash: h, format: format}
		bs, ok := s.reports.Get(key)
		if !ok {
			bs, err = render(e.Schema, format)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			s.reports.Add(key, bs)
		}

		if format == "openapi" {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(bs)
	}
}

func render(sch *shape.Schema, format string) ([]byte, error) {
	if format == "openapi" {
		return json.Marshal(report.OpenAPI(sch))
	}
	var buf bytes.Buffer
	if err := report.Text(&buf, sch); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeDocument(contentType string, body []byte) (map[string]any, error) {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return infer.ParseYAMLBytes(body)
	}
	return infer.ParseDocumentBytes(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	res := shapeserver.ErrorResponse{Error: err.Error()}
	var ve *shape.ValueError
	if errors.As(err, &ve) {
		res.Error = ve.Err.Error()
		res.Path = ve.Path
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}
