package predict

import (
	"context"
	"errors"
	"fmt"
	"log"

	"redshift-backend/internal/document"
	"redshift-backend/internal/model"
	"redshift-backend/internal/schema"

	"github.com/google/uuid"
)

// ScalerSource returns a fitted scaler by artifact name.
type ScalerSource interface {
	Load(ctx context.Context, name string) (model.Scaler, error)
}

// RegressorSource returns a fitted model by artifact name.
type RegressorSource interface {
	Load(ctx context.Context, name string) (model.Regressor, error)
}

// Service runs one uploaded document through parse, flatten, schema check
// and prediction. Errors are one of *document.MalformedInputError,
// *schema.MismatchError or *ProcessingError.
type Service struct {
	schema     *schema.FeatureSchema
	scalers    ScalerSource
	models     RegressorSource
	scalerName string
	modelName  string
}

func NewService(s *schema.FeatureSchema, scalers ScalerSource, models RegressorSource, scalerName, modelName string) *Service {
	return &Service{
		schema:     s,
		scalers:    scalers,
		models:     models,
		scalerName: scalerName,
		modelName:  modelName,
	}
}

// Outcome is a successful prediction.
type Outcome struct {
	ID          string
	Redshift    float64
	Predictions []float64
	Rows        int
}

// Inspection describes a document that passed the schema check.
type Inspection struct {
	Table       *document.Table
	ColumnTypes map[string]string
	Stats       map[string]document.ColumnStats
}

func (s *Service) Schema() *schema.FeatureSchema {
	return s.schema
}

// Preload reads both artifacts so the first request does not pay for it.
func (s *Service) Preload(ctx context.Context) error {
	if _, err := s.scalers.Load(ctx, s.scalerName); err != nil {
		return err
	}
	if _, err := s.models.Load(ctx, s.modelName); err != nil {
		return err
	}
	return nil
}

// Inspect parses raw and checks it against the schema without predicting.
func (s *Service) Inspect(raw []byte) (*Inspection, error) {
	table, err := s.table(raw)
	if err != nil {
		return nil, err
	}
	return &Inspection{
		Table:       table,
		ColumnTypes: document.Describe(table),
		Stats:       document.Summarize(table),
	}, nil
}

// Run predicts the redshift for raw.
func (s *Service) Run(ctx context.Context, raw []byte) (*Outcome, error) {
	table, err := s.table(raw)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()

	scaler, err := s.scalers.Load(ctx, s.scalerName)
	if err != nil {
		return nil, s.fail(id, err)
	}
	reg, err := s.models.Load(ctx, s.modelName)
	if err != nil {
		return nil, s.fail(id, err)
	}

	res, err := Predict(table, s.schema, scaler, reg)
	if err != nil {
		return nil, s.fail(id, err)
	}

	log.Printf("[Predict] %s: %d row(s), redshift=%v", id, len(table.Rows), res.Redshift)
	return &Outcome{
		ID:          id,
		Redshift:    res.Redshift,
		Predictions: res.Predictions,
		Rows:        len(table.Rows),
	}, nil
}

func (s *Service) table(raw []byte) (*document.Table, error) {
	v, err := document.Parse(raw)
	if err != nil {
		return nil, err
	}
	table, err := document.Flatten(v)
	if err != nil {
		log.Printf("[Predict] flatten: %v", err)
		return nil, &ProcessingError{Err: err}
	}
	if err := s.schema.Check(table.Columns); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *Service) fail(id string, err error) error {
	log.Printf("[Predict] %s failed: %v", id, err)
	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		return err
	}
	return &ProcessingError{Err: fmt.Errorf("%s: %w", id, err)}
}
