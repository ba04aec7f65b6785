package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
	"github.com/JonMunkholm/cleaner/internal/export"
	"github.com/JonMunkholm/cleaner/internal/ingest"
	"github.com/JonMunkholm/cleaner/internal/session"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty table", cleaner.ErrEmptyTable, http.StatusUnprocessableEntity, "CLN001"},
		{"all null", cleaner.ErrAllNull, http.StatusUnprocessableEntity, "CLN009"},
		{"internal", cleaner.ErrInternalFailure, http.StatusInternalServerError, "CLN000"},
		{"session", fmt.Errorf("lookup: %w", session.ErrNotFound), http.StatusNotFound, "SES001"},
		{"capacity", session.ErrTooManySessions, http.StatusServiceUnavailable, "SES002"},
		{"uploads busy", ingest.ErrTooManyUploads, http.StatusServiceUnavailable, "UPL004"},
		{"bad table", export.ErrInvalidTableName, http.StatusBadRequest, "EXP001"},
		{"table exists", export.ErrTableExists, http.StatusConflict, "EXP003"},
		{"body too large", &http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge, "UPL006"},
		{"request", badRequest("VAL001", "'column' is required.", nil), http.StatusBadRequest, "VAL001"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			assert.Equal(t, tt.status, msg.Status)
			assert.Equal(t, tt.code, msg.Code)
			assert.NotEmpty(t, msg.Message)
		})
	}
}

func TestMapError_HidesInternalDetail(t *testing.T) {
	msg := MapError(errors.New("pq: password authentication failed for user admin"))
	assert.NotContains(t, msg.Message, "password")
}

func TestMapError_EveryKindHasACode(t *testing.T) {
	for kind, ks := range kindStatus {
		assert.NotZero(t, ks.status, kind)
		assert.NotEmpty(t, ks.code, kind)
	}
	assert.Len(t, kindStatus, 12)
}
