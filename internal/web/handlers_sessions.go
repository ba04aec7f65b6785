package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
	"github.com/JonMunkholm/cleaner/internal/ingest"
	"github.com/JonMunkholm/cleaner/internal/logging"
	"github.com/JonMunkholm/cleaner/internal/session"
	"github.com/JonMunkholm/cleaner/internal/web/templates"
)

type sessionResponse struct {
	session.Info
	Message string `json:"message"`
}

// handleHealth reports liveness and the number of open sessions.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

// handleCreateSession starts a session from a JSON array of row objects.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !s.bind(w, r, &req) {
		return
	}
	if limit := s.cfg.Session.MaxRows; limit > 0 && len(req.Data) > limit {
		s.respondError(w, r, fmt.Errorf("%w (%d)", ingest.ErrTooManyRows, limit))
		return
	}

	source := req.Source
	if source == "" {
		source = ingest.FormatJSON
	}
	s.createSession(w, r, source, ingest.FormatJSON, req.Columns, req.Data)
}

// handleUploadSession starts a session from a multipart file upload in
// the "file" field. An optional "sheet" field picks the XLSX worksheet.
func (s *Server) handleUploadSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := s.limiter.Acquire(ctx); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = badRequest("UPL005", "Upload must include a 'file' field.", err)
		}
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	tbl, err := ingest.Parse(header.Filename, file, ingest.Options{
		InferNumbers: s.cfg.Upload.InferNumbers,
		MaxRows:      s.cfg.Session.MaxRows,
		Sheet:        r.FormValue("sheet"),
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFormat),
			errors.Is(err, ingest.ErrEmptyFile),
			errors.Is(err, ingest.ErrTooManyRows):
		default:
			err = badRequest("UPL005", "The file could not be parsed.", err)
		}
		s.respondError(w, r, err)
		return
	}

	s.createSession(w, r, header.Filename, tbl.Format, tbl.Columns, tbl.Rows)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request, source, format string, columns []string, rows []map[string]any) {
	sess, err := s.store.Create(source, columns, rows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RowsIngested(format, len(rows))
	}
	logging.ForSession(r.Context(), sess.ID).Debug("rows loaded", "format", format, "rows", len(rows))

	msg := "Data initialized successfully"
	if len(rows) == 0 {
		msg = "Data initialized successfully (empty)"
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse{Info: sess.Info(), Message: msg})
}

// handleGetSession describes a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// handleDeleteSession discards a session and its data.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "sessionID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleData returns the full working table.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.Data(), nil
	})
}

// handleProfile returns per-column statistics.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.Profile()
	})
}

// handlePreview renders the first rows of the working table as HTML.
// The row count defaults to CLEAN_PREVIEW_ROWS and can be set with ?limit=.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	limit := parseIntParam(r, "limit", s.cfg.Cleaning.PreviewRows)

	var data templates.PreviewData
	err := s.store.Do(id, func(e *cleaner.Engine) error {
		d := e.Data()
		rows := d.Data
		if len(rows) > limit {
			rows = rows[:limit]
		}
		data = templates.PreviewData{SessionID: id, Columns: d.Columns, Rows: rows, Total: d.RowCount}
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Preview(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render preview", "error", err)
	}
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
