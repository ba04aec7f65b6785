package web

// errors.go maps errors from the engine, session store, ingest and export
// layers to HTTP responses.
//
// Every error response carries a support code. Codes are grouped by the
// layer that produced them:
//
//	CLN001-CLN011  cleaning operation rejected (kind mirrors cleaner.Kind)
//	CLN000         cleaning operation failed unexpectedly
//	SES001-SES002  session lookup and capacity
//	UPL001-UPL006  file upload and parsing
//	EXP000-EXP004  database export
//	VAL001-VAL002  malformed request
//	ERR000         anything else
//
// The technical error is logged server-side with the request ID; clients
// only see the mapped message.

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
	"github.com/JonMunkholm/cleaner/internal/export"
	"github.com/JonMunkholm/cleaner/internal/ingest"
	"github.com/JonMunkholm/cleaner/internal/logging"
	"github.com/JonMunkholm/cleaner/internal/session"
	"github.com/JonMunkholm/cleaner/internal/web/templates"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Kind   cleaner.Kind `json:"kind,omitempty"`
	Code   string       `json:"code"`
	Action string       `json:"action,omitempty"`
}

// UserMessage is an error translated for display.
type UserMessage struct {
	Status  int
	Code    string
	Kind    cleaner.Kind
	Message string
	Action  string
}

// requestError is a client mistake detected by the web layer itself.
type requestError struct {
	status  int
	code    string
	message string
	err     error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(code, message string, err error) error {
	return &requestError{status: http.StatusBadRequest, code: code, message: message, err: err}
}

var errExportDisabled = errors.New("export is not configured")

var kindStatus = map[cleaner.Kind]struct {
	status int
	code   string
}{
	cleaner.KindEmptyTable:          {http.StatusUnprocessableEntity, "CLN001"},
	cleaner.KindColumnNotFound:      {http.StatusNotFound, "CLN002"},
	cleaner.KindColumnAlreadyExists: {http.StatusConflict, "CLN003"},
	cleaner.KindInvalidMethod:       {http.StatusBadRequest, "CLN004"},
	cleaner.KindInvalidTargetType:   {http.StatusBadRequest, "CLN005"},
	cleaner.KindInvalidOperation:    {http.StatusBadRequest, "CLN006"},
	cleaner.KindMissingParameter:    {http.StatusBadRequest, "CLN007"},
	cleaner.KindNonNumericColumn:    {http.StatusUnprocessableEntity, "CLN008"},
	cleaner.KindAllNull:             {http.StatusUnprocessableEntity, "CLN009"},
	cleaner.KindNoMode:              {http.StatusUnprocessableEntity, "CLN010"},
	cleaner.KindInvalidColumnCount:  {http.StatusBadRequest, "CLN011"},
	cleaner.KindInternalFailure:     {http.StatusInternalServerError, "CLN000"},
}

// MapError translates err into a status, support code and display message.
func MapError(err error) UserMessage {
	if kind := cleaner.KindOf(err); kind != "" {
		env := cleaner.Envelope(nil, err).(cleaner.ErrorEnvelope)
		ks := kindStatus[kind]
		msg := UserMessage{Status: ks.status, Code: ks.code, Kind: kind, Message: env.Error}
		if kind == cleaner.KindInternalFailure {
			msg.Action = "Your data was not changed. Please try again."
		}
		return msg
	}

	var re *requestError
	if errors.As(err, &re) {
		return UserMessage{Status: re.status, Code: re.code, Message: re.message}
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return UserMessage{Status: http.StatusRequestEntityTooLarge, Code: "UPL006",
			Message: "Request body is too large.", Action: "Upload a smaller file."}
	case errors.Is(err, session.ErrNotFound):
		return UserMessage{Status: http.StatusNotFound, Code: "SES001",
			Message: "Session not found.", Action: "Sessions expire when idle. Upload your data again."}
	case errors.Is(err, session.ErrTooManySessions):
		return UserMessage{Status: http.StatusServiceUnavailable, Code: "SES002",
			Message: "Too many active sessions.", Action: "Please try again later."}
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return UserMessage{Status: http.StatusUnsupportedMediaType, Code: "UPL001",
			Message: "Unsupported file format.", Action: "Upload a .csv, .tsv or .xlsx file."}
	case errors.Is(err, ingest.ErrEmptyFile):
		return UserMessage{Status: http.StatusBadRequest, Code: "UPL002",
			Message: "The file contains no data."}
	case errors.Is(err, ingest.ErrTooManyRows):
		return UserMessage{Status: http.StatusRequestEntityTooLarge, Code: "UPL003",
			Message: "The file has too many rows.", Action: "Split the file into smaller chunks."}
	case errors.Is(err, ingest.ErrTooManyUploads):
		return UserMessage{Status: http.StatusServiceUnavailable, Code: "UPL004",
			Message: "Too many uploads in progress.", Action: "Please try again in a few moments."}
	case errors.Is(err, export.ErrInvalidTableName):
		return UserMessage{Status: http.StatusBadRequest, Code: "EXP001", Message: capitalize(export.ErrInvalidTableName.Error()) + "."}
	case errors.Is(err, export.ErrNoColumns):
		return UserMessage{Status: http.StatusUnprocessableEntity, Code: "EXP002", Message: "There is nothing to export."}
	case errors.Is(err, export.ErrTableExists):
		return UserMessage{Status: http.StatusConflict, Code: "EXP003",
			Message: "The table already exists.", Action: "Set replace to overwrite it."}
	case errors.Is(err, errExportDisabled):
		return UserMessage{Status: http.StatusServiceUnavailable, Code: "EXP004",
			Message: "Database export is not configured."}
	}

	return UserMessage{Status: http.StatusInternalServerError, Code: "ERR000",
		Message: "An unexpected error occurred.", Action: "Please try again."}
}

// respondError logs err and writes its mapped form. HTMX requests get an
// HTML alert fragment; everything else gets JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MapError(err)

	level := slog.LevelWarn
	if msg.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", msg.Status,
		"code", msg.Code,
		"error", err.Error(),
	)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(msg.Status)
		templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
		return
	}

	render.Status(r, msg.Status)
	render.JSON(w, r, ErrorResponse{
		Error:  msg.Message,
		Kind:   msg.Kind,
		Code:   msg.Code,
		Action: msg.Action,
	})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
