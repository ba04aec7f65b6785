package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxJSONBody bounds request bodies other than file uploads.
const maxJSONBody = 10 << 20

type createSessionRequest struct {
	Data    []map[string]any `json:"data" validate:"required"`
	Columns []string         `json:"columns"`
	Source  string           `json:"source" validate:"max=255"`
}

type removeDuplicatesRequest struct {
	ConsiderAllColumns *bool `json:"consider_all_columns"`
}

type missingValuesRequest struct {
	Column      string `json:"column" validate:"required"`
	Method      string `json:"method" validate:"required"`
	CustomValue any    `json:"custom_value"`
}

type convertTypesRequest struct {
	Column     string `json:"column" validate:"required"`
	TargetType string `json:"target_type" validate:"required"`
}

type cleanTextRequest struct {
	Column     string   `json:"column" validate:"required"`
	Operations []string `json:"operations" validate:"required,min=1"`
}

type scaleRequest struct {
	Column           string `json:"column" validate:"required"`
	PreserveOriginal bool   `json:"preserve_original"`
}

type detectOutliersRequest struct {
	Column    string   `json:"column" validate:"required"`
	Method    string   `json:"method"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gt=0"`
}

type handleOutliersRequest struct {
	Column          string   `json:"column" validate:"required"`
	Method          string   `json:"method"`
	DetectionMethod string   `json:"detection_method"`
	Threshold       *float64 `json:"threshold" validate:"omitempty,gt=0"`
}

type derivedColumnRequest struct {
	Operation     string   `json:"operation" validate:"required"`
	Columns       []string `json:"columns" validate:"required,min=1"`
	NewColumnName string   `json:"new_column_name"`
}

type inconsistentDataRequest struct {
	Column        string         `json:"column" validate:"required"`
	Mapping       map[string]any `json:"mapping"`
	CaseSensitive bool           `json:"case_sensitive"`
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. Numbers decode as
// json.Number so integers survive unchanged. An empty body leaves dst at its
// zero value before validation.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequest("VAL002", "Request body is not valid JSON.", err)
	}
	return s.validateStruct(dst)
}

func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return badRequest("VAL001", strings.Join(msgs, " "), err)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required.", fe.Field())
	case "min":
		return fmt.Sprintf("'%s' must have at least %s item(s).", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must be at most %s characters.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("'%s' is invalid.", fe.Field())
}
