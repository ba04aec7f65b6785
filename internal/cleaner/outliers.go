package cleaner

import (
	"fmt"
	"math"
	"slices"
)

// Detection methods.
const (
	DetectZScore = "zscore"
	DetectIQR    = "iqr"
)

// Handling methods.
const (
	OutlierClip   = "clip"
	OutlierRemove = "remove"
	OutlierMean   = "mean"
	OutlierMedian = "median"
)

// DefaultThreshold is the z-score cutoff used when callers have no
// preference.
const DefaultThreshold = 3.0

// iqrMultiplier is the fence distance for IQR detection. The threshold
// argument does not affect it.
const iqrMultiplier = 1.5

var (
	detectMethods   = []string{DetectZScore, DetectIQR}
	outlierHandlers = []string{OutlierClip, OutlierRemove, OutlierMean, OutlierMedian}
)

// detection is the internal result of one detection pass.
type detection struct {
	flagged []bool
	indices []int
	ids     []string
	nv      numericView
	lower   float64
	upper   float64
	details *OutlierDetails
	message string
}

// DetectOutliers flags numeric cells of column that lie outside the zscore
// or IQR fences. It never modifies the table.
//
// zscore flags |x-mean|/std > threshold using the sample standard deviation.
// iqr flags x < Q1-1.5*IQR or x > Q3+1.5*IQR. Constant data flags nothing.
func (e *Engine) DetectOutliers(column, method string, threshold float64) (*OutlierResult, error) {
	var det *detection
	err := e.inspect(opDetectOutliers, column, func(t *Table) error {
		var err error
		det, err = detect(t, opDetectOutliers, column, method, threshold)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &OutlierResult{
		Column:         column,
		Method:         method,
		OutlierCount:   len(det.indices),
		OutlierIndices: det.indices,
		OutlierRowIDs:  det.ids,
		Details:        det.details,
		Message:        det.message,
	}, nil
}

func detect(t *Table, op, column, method string, threshold float64) (*detection, error) {
	if err := require(op, t, column); err != nil {
		return nil, err
	}
	if !slices.Contains(detectMethods, method) {
		return nil, errInvalidMethod(op, column, method, detectMethods...)
	}

	det := &detection{
		nv:      numericColumn(t.values(column)),
		indices: []int{},
		ids:     []string{},
	}
	if len(det.nv.valid) == 0 {
		return nil, errAllNull(op, column)
	}

	switch method {
	case DetectZScore:
		m, sd := mean(det.nv.valid), sampleStd(det.nv.valid)
		det.lower, det.upper = m-threshold*sd, m+threshold*sd
		det.details = &OutlierDetails{
			Mean:       ptr(m),
			StdDev:     ptr(sd),
			Threshold:  ptr(threshold),
			LowerBound: ptr(det.lower),
			UpperBound: ptr(det.upper),
		}
		if sd == 0 {
			det.message = fmt.Sprintf("Standard deviation of column '%s' is zero; no outliers detected.", column)
			return det, nil
		}
		det.mark(t, func(x float64) bool { return math.Abs((x-m)/sd) > threshold })

	case DetectIQR:
		s := sorted(det.nv.valid)
		q1, q3 := quantile(s, 0.25), quantile(s, 0.75)
		iqr := q3 - q1
		det.lower, det.upper = q1-iqrMultiplier*iqr, q3+iqrMultiplier*iqr
		det.details = &OutlierDetails{
			Q1:         ptr(q1),
			Q3:         ptr(q3),
			IQR:        ptr(iqr),
			LowerBound: ptr(det.lower),
			UpperBound: ptr(det.upper),
		}
		if iqr == 0 {
			det.message = fmt.Sprintf("Interquartile range of column '%s' is zero; no outliers detected.", column)
			return det, nil
		}
		det.mark(t, func(x float64) bool { return x < det.lower || x > det.upper })
	}
	return det, nil
}

func (d *detection) mark(t *Table, isOutlier func(float64) bool) {
	d.flagged = make([]bool, len(d.nv.nums))
	for i, x := range d.nv.nums {
		if d.nv.ok[i] && isOutlier(x) {
			d.flagged[i] = true
			d.indices = append(d.indices, i)
			d.ids = append(d.ids, t.ids[i])
		}
	}
}

// HandleOutliers detects outliers with detectionMethod and then clips,
// removes, or replaces them. Detection errors are returned unchanged. When
// nothing is flagged the table is left as is.
//
// clip rewrites the whole column as numbers bounded by the detection fences;
// cells that do not coerce become null. mean and median replace flagged
// cells with the statistic of the non-flagged numeric cells.
func (e *Engine) HandleOutliers(column, method, detectionMethod string, threshold float64) (*HandleOutliersResult, error) {
	res := &HandleOutliersResult{Column: column, Method: method, DetectionMethod: detectionMethod}

	err := e.mutate(opHandleOutliers, column, func(t *Table) error {
		if err := require(opHandleOutliers, t, column); err != nil {
			return err
		}
		if !slices.Contains(outlierHandlers, method) {
			return errInvalidMethod(opHandleOutliers, column, method, outlierHandlers...)
		}

		det, err := detect(t, opHandleOutliers, column, detectionMethod, threshold)
		if err != nil {
			return err
		}
		res.Details = det.details
		res.OutlierCount = len(det.indices)
		if res.OutlierCount == 0 {
			res.Message = fmt.Sprintf("No outliers detected in column '%s'.", column)
			if det.message != "" {
				res.Message = det.message
			}
			return nil
		}

		switch method {
		case OutlierClip:
			values := make([]any, len(det.nv.nums))
			for i, x := range det.nv.nums {
				if det.nv.ok[i] {
					values[i] = math.Min(math.Max(x, det.lower), det.upper)
				}
			}
			t.setColumn(column, values)

		case OutlierRemove:
			t.keepRows(func(i int) bool { return !det.flagged[i] })

		case OutlierMean, OutlierMedian:
			var pool []float64
			for i, x := range det.nv.nums {
				if det.nv.ok[i] && !det.flagged[i] {
					pool = append(pool, x)
				}
			}
			if len(pool) == 0 {
				pool = det.nv.valid
			}
			r := mean(pool)
			if method == OutlierMedian {
				r = median(pool)
			}
			res.ReplacementValue = ptr(r)

			values := t.values(column)
			for _, i := range det.indices {
				values[i] = r
			}
			t.setColumn(column, values)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}
