package cleaner

// DataResult is the current working table.
type DataResult struct {
	Data     []Record `json:"data"`
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

type DuplicatesResult struct {
	Data         []Record `json:"data"`
	RemovedCount int      `json:"removed_count"`
}

type MissingValuesResult struct {
	Data         []Record `json:"data"`
	Column       string   `json:"column"`
	Method       string   `json:"method"`
	MissingCount int      `json:"missing_count"`
	FillValue    any      `json:"fill_value,omitempty"`
	Message      string   `json:"message,omitempty"`
}

type ConvertResult struct {
	Data         []Record  `json:"data"`
	Column       string    `json:"column"`
	OriginalType ValueType `json:"original_type"`
	NewType      ValueType `json:"new_type"`
	FailedCount  int       `json:"failed_count"`
	Warning      string    `json:"warning,omitempty"`
}

type CleanTextResult struct {
	Data       []Record `json:"data"`
	Column     string   `json:"column"`
	Operations []string `json:"operations"`
}

// ScaleDetails holds the parameters used by a scaling pass: Min and Max for
// normalize, Mean and StdDev for standardize.
type ScaleDetails struct {
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Mean   *float64 `json:"mean,omitempty"`
	StdDev *float64 `json:"std_dev,omitempty"`
}

type ScaleResult struct {
	Data         []Record     `json:"data"`
	Column       string       `json:"column"`
	Method       string       `json:"method"`
	TargetColumn string       `json:"target_column"`
	Details      ScaleDetails `json:"details"`
}

// OutlierDetails holds the statistics behind a detection pass.
type OutlierDetails struct {
	Mean       *float64 `json:"mean,omitempty"`
	StdDev     *float64 `json:"std_dev,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty"`
	Q1         *float64 `json:"q1,omitempty"`
	Q3         *float64 `json:"q3,omitempty"`
	IQR        *float64 `json:"iqr,omitempty"`
	LowerBound *float64 `json:"lower_bound,omitempty"`
	UpperBound *float64 `json:"upper_bound,omitempty"`
}

// OutlierResult reports flagged rows by position in the working table at
// detection time and by stable row ID. Positions go stale after any
// row-removing operation; IDs do not.
type OutlierResult struct {
	Column         string          `json:"column"`
	Method         string          `json:"method"`
	OutlierCount   int             `json:"outlier_count"`
	OutlierIndices []int           `json:"outlier_indices"`
	OutlierRowIDs  []string        `json:"outlier_row_ids"`
	Details        *OutlierDetails `json:"details,omitempty"`
	Message        string          `json:"message,omitempty"`
}

type HandleOutliersResult struct {
	Data             []Record        `json:"data"`
	Column           string          `json:"column"`
	Method           string          `json:"method"`
	DetectionMethod  string          `json:"detection_method"`
	OutlierCount     int             `json:"outlier_count"`
	ReplacementValue *float64        `json:"replacement_value,omitempty"`
	Details          *OutlierDetails `json:"details,omitempty"`
	Message          string          `json:"message,omitempty"`
}

type DerivedColumnResult struct {
	Data          []Record `json:"data"`
	Operation     string   `json:"operation"`
	SourceColumns []string `json:"source_columns"`
	NewColumn     string   `json:"new_column"`
}

type InconsistentResult struct {
	Data               []Record `json:"data"`
	Column             string   `json:"column"`
	OriginalValues     []any    `json:"original_values"`
	StandardizedValues []any    `json:"standardized_values"`
	MappingApplied     bool     `json:"mapping_applied"`
	ConvertedToBoolean bool     `json:"converted_to_boolean"`
}

type ResetResult struct {
	Data    []Record `json:"data"`
	Message string   `json:"message"`
}

// ColumnProfile summarizes one column. Numeric fields are set only when at
// least one cell coerces to a number.
type ColumnProfile struct {
	Name          string    `json:"name"`
	Type          ValueType `json:"type"`
	NullCount     int       `json:"null_count"`
	DistinctCount int       `json:"distinct_count"`
	NumericCount  int       `json:"numeric_count"`
	Sum           *float64  `json:"sum,omitempty"`
	Mean          *float64  `json:"mean,omitempty"`
	Min           *float64  `json:"min,omitempty"`
	Max           *float64  `json:"max,omitempty"`
}

type ProfileResult struct {
	RowCount int             `json:"row_count"`
	Columns  []ColumnProfile `json:"columns"`
}
