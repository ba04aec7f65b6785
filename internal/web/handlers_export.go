package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
	"github.com/JonMunkholm/cleaner/internal/export"
	"github.com/JonMunkholm/cleaner/internal/logging"
)

// handleExport writes the working table to a Postgres table. The session
// lock is held only while the rows are copied out, not during the COPY.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.respondError(w, r, errExportDisabled)
		return
	}

	var req export.Request
	if !s.bind(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "sessionID")
	var data *cleaner.DataResult
	if err := s.store.Do(id, func(e *cleaner.Engine) error {
		data = e.Data()
		return nil
	}); err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.exporter.Export(r.Context(), req, data.Columns, data.Data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.ForSession(r.Context(), id).Info("table exported", "table", res.Table, "rows", res.Rows)
	render.JSON(w, r, res)
}
