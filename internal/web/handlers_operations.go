package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
)

// bind decodes and validates the request body, writing the error response
// itself when that fails.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := s.decode(w, r, dst); err != nil {
		s.respondError(w, r, err)
		return false
	}
	return true
}

// run executes op on the URL's session under the session lock and writes
// its result as JSON.
func (s *Server) run(w http.ResponseWriter, r *http.Request, op func(*cleaner.Engine) (any, error)) {
	var result any
	err := s.store.Do(chi.URLParam(r, "sessionID"), func(e *cleaner.Engine) error {
		var err error
		result, err = op(e)
		return err
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (s *Server) handleRemoveDuplicates(w http.ResponseWriter, r *http.Request) {
	var req removeDuplicatesRequest
	if !s.bind(w, r, &req) {
		return
	}
	considerAll := req.ConsiderAllColumns == nil || *req.ConsiderAllColumns
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.RemoveDuplicates(considerAll)
	})
}

func (s *Server) handleMissingValues(w http.ResponseWriter, r *http.Request) {
	var req missingValuesRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.HandleMissingValues(req.Column, req.Method, req.CustomValue)
	})
}

func (s *Server) handleConvertTypes(w http.ResponseWriter, r *http.Request) {
	var req convertTypesRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.ConvertTypes(req.Column, req.TargetType)
	})
}

func (s *Server) handleCleanText(w http.ResponseWriter, r *http.Request) {
	var req cleanTextRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.CleanText(req.Column, req.Operations)
	})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.Normalize(req.Column, req.PreserveOriginal)
	})
}

func (s *Server) handleStandardize(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.Standardize(req.Column, req.PreserveOriginal)
	})
}

// handleDetectOutliers defaults to the IQR method and the configured
// z-score threshold.
func (s *Server) handleDetectOutliers(w http.ResponseWriter, r *http.Request) {
	var req detectOutliersRequest
	if !s.bind(w, r, &req) {
		return
	}
	method := withDefault(req.Method, cleaner.DetectIQR)
	threshold := s.threshold(req.Threshold)
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.DetectOutliers(req.Column, method, threshold)
	})
}

// handleHandleOutliers defaults to clipping IQR outliers.
func (s *Server) handleHandleOutliers(w http.ResponseWriter, r *http.Request) {
	var req handleOutliersRequest
	if !s.bind(w, r, &req) {
		return
	}
	method := withDefault(req.Method, cleaner.OutlierClip)
	detection := withDefault(req.DetectionMethod, cleaner.DetectIQR)
	threshold := s.threshold(req.Threshold)
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.HandleOutliers(req.Column, method, detection, threshold)
	})
}

// handleAddDerivedColumn names the column automatically when
// new_column_name is empty.
func (s *Server) handleAddDerivedColumn(w http.ResponseWriter, r *http.Request) {
	var req derivedColumnRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.AddDerivedColumn(req.Operation, req.Columns, req.NewColumnName)
	})
}

// handleInconsistentData applies mapping, or standardizes automatically
// when mapping is empty.
func (s *Server) handleInconsistentData(w http.ResponseWriter, r *http.Request) {
	var req inconsistentDataRequest
	if !s.bind(w, r, &req) {
		return
	}
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.HandleInconsistentData(req.Column, req.Mapping, req.CaseSensitive)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(e *cleaner.Engine) (any, error) {
		return e.Reset()
	})
}

func (s *Server) threshold(t *float64) float64 {
	if t != nil {
		return *t
	}
	if s.cfg.Cleaning.OutlierThreshold > 0 {
		return s.cfg.Cleaning.OutlierThreshold
	}
	return cleaner.DefaultThreshold
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
