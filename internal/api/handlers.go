package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"redshift-backend/internal/document"
	"redshift-backend/internal/examples"
	"redshift-backend/internal/models"
	"redshift-backend/internal/predict"
	"redshift-backend/internal/schema"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	DefaultMaxUploadBytes = 200 << 20 // 200MB
	multipartMemory       = 32 << 20
)

// User-visible messages. Causes of processing failures are logged, never
// returned.
const (
	MsgMalformed      = "Invalid JSON file. Please upload a valid JSON file."
	MsgSchemaMismatch = "The uploaded JSON file does not contain all the required columns."
	MsgProcessing     = "Error in processing the file."
	MsgUploaded       = "File successfully uploaded and processed!"
)

type Handler struct {
	Predictor      *predict.Service
	MaxUploadBytes int64
	// ArtifactStatus reports which artifacts are cached, for /health.
	ArtifactStatus func() map[string]bool
	// PingPeriod is how often idle websocket sessions are pinged.
	PingPeriod time.Duration

	upgrader websocket.Upgrader
}

func NewHandler(predictor *predict.Service, maxUploadBytes int64, allowedOrigins []string) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		Predictor:      predictor,
		MaxUploadBytes: maxUploadBytes,
		PingPeriod:     pingPeriod,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// RegisterRoutes mounts every route. gate wraps the routes that need an
// authenticated user; pass nil to leave them open.
func (h *Handler) RegisterRoutes(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Get("/health", h.HealthCheck)

	r.Group(func(r chi.Router) {
		if gate != nil {
			r.Use(gate)
		}
		r.Get("/api/schema", h.GetSchema)
		r.Get("/api/examples", h.ListExamples)
		r.Get("/api/examples/{name}", h.DownloadExample)
		r.Post("/api/validate", h.Validate)
		r.Post("/api/predict", h.Predict)
		r.Get("/ws/predict", h.PredictSession)
	})
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "ok"}
	if h.ArtifactStatus != nil {
		resp.Artifacts = h.ArtifactStatus()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// Schema & examples
// ============================================================================

func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	s := h.Predictor.Schema()
	writeJSON(w, http.StatusOK, models.SchemaResponse{
		AllColumns:         s.AllColumns(),
		CategoricalColumns: s.CategoricalColumns(),
		ContinuousColumns:  s.ContinuousColumns(),
	})
}

func (h *Handler) ListExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ExamplesResponse{Examples: examples.Names})
}

// DownloadExample serves a packaged example byte-for-byte.
func (h *Handler) DownloadExample(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := examples.Get(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("Example '%s' does not exist", name),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ============================================================================
// Upload handling
// ============================================================================

// Validate checks an upload against the schema without predicting.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	insp, err := h.Predictor.Inspect(raw)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse(insp))
}

// Predict runs the full pipeline on an upload.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	out, err := h.Predictor.Run(r.Context(), raw)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse(out))
}

// readUpload accepts a multipart "file" field or a raw JSON body. It writes
// the error response itself and reports whether the caller may continue.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeUploadError(w, err)
			return nil, false
		}
		return raw, true
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeUploadError(w, err)
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: "No file uploaded"})
		return nil, false
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: "Only JSON files are allowed"})
		return nil, false
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeUploadError(w, err)
		return nil, false
	}
	log.Printf("[API] Received %s (%d bytes)", header.Filename, len(raw))
	return raw, true
}

func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "too_large", Message: "File too large"})
		return
	}
	writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: "Error retrieving file"})
}

// ============================================================================
// Responses
// ============================================================================

func predictResponse(out *predict.Outcome) models.PredictResponse {
	return models.PredictResponse{
		ID:          out.ID,
		Redshift:    out.Redshift,
		Predictions: out.Predictions,
		Rows:        out.Rows,
		Message:     fmt.Sprintf("Predicted Redshifts: %v", out.Redshift),
	}
}

func validateResponse(insp *predict.Inspection) models.ValidateResponse {
	stats := make(map[string]models.ColumnStats, len(insp.Stats))
	for col, st := range insp.Stats {
		stats[col] = models.ColumnStats(st)
	}
	return models.ValidateResponse{
		Valid:       true,
		Message:     MsgUploaded,
		Rows:        len(insp.Table.Rows),
		Columns:     len(insp.Table.Columns),
		ColumnNames: insp.Table.Columns,
		ColumnTypes: insp.ColumnTypes,
		Stats:       stats,
	}
}

// failure maps a pipeline error onto a status and a client-safe body.
func failure(err error) (int, models.ErrorResponse) {
	var (
		malformed *document.MalformedInputError
		mismatch  *schema.MismatchError
	)
	switch {
	case errors.As(err, &malformed):
		return http.StatusBadRequest, models.ErrorResponse{Error: "malformed_input", Message: MsgMalformed}
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:         "schema_mismatch",
			Message:       MsgSchemaMismatch,
			MissingColumn: mismatch.Missing,
			Suggestion:    mismatch.Suggestion,
		}
	default:
		log.Printf("[API] processing error: %v", err)
		return http.StatusUnprocessableEntity, models.ErrorResponse{Error: "processing_error", Message: MsgProcessing}
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	status, body := failure(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] write response: %v", err)
	}
}
