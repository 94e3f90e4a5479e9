package models

import "encoding/json"

// PredictResponse is returned after a successful prediction
type PredictResponse struct {
	ID          string    `json:"id"`
	Redshift    float64   `json:"redshift"`
	Predictions []float64 `json:"predictions"`
	Rows        int       `json:"rows"`
	Message     string    `json:"message"`
}

// ValidateResponse is returned by /api/validate for a document that has
// every required column
type ValidateResponse struct {
	Valid       bool              `json:"valid"`
	Message     string            `json:"message"`
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	ColumnNames []string          `json:"column_names"`
	ColumnTypes map[string]string `json:"column_types"`
	// Stats covers the numeric columns only
	Stats map[string]ColumnStats `json:"stats"`
}

type ColumnStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	MissingColumn string `json:"missing_column,omitempty"`
	Suggestion    string `json:"suggestion,omitempty"`
}

// SchemaResponse for /api/schema
type SchemaResponse struct {
	AllColumns         []string `json:"all_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	ContinuousColumns  []string `json:"continuous_columns"`
}

// ExamplesResponse for /api/examples
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

// HealthResponse for /health
type HealthResponse struct {
	Status    string          `json:"status"`
	Artifacts map[string]bool `json:"artifacts,omitempty"`
}

// SessionRequest is one message on the prediction websocket
type SessionRequest struct {
	Action   string          `json:"action"` // "predict", "validate", "ping"
	Document json.RawMessage `json:"document"`
}

// SessionReply answers a SessionRequest
type SessionReply struct {
	Type     string            `json:"type"` // "result", "valid", "error", "pong"
	Predict  *PredictResponse  `json:"predict,omitempty"`
	Validate *ValidateResponse `json:"validate,omitempty"`
	Error    *ErrorResponse    `json:"error,omitempty"`
}
