package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
)

// Classifier predicts player categories.
type Classifier interface {
	Classify(ctx context.Context, req player.Request) (model.Prediction, error)
	Ready() bool
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps      Classifier
	validator *recordValidator
	maxBody   int64
	logger    logger.Logger
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps Classifier, v *recordValidator, maxBody int64, l logger.Logger) *PredictHandler {
	return &PredictHandler{deps: deps, validator: v, maxBody: maxBody, logger: l}
}

type predictResponse struct {
	PredictedCategory string           `json:"predicted_category"`
	Features          *features.Vector `json:"features,omitempty"`
}

// HandlePredict handles POST /predict/{player_type}.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	ctx := r.Context()

	kind, err := player.ParseKind(chi.URLParam(r, "player_type"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_player_type", err)
		return
	}
	if !h.deps.Ready() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}

	req, status, code, err := h.decode(w, r, kind)
	if err != nil {
		h.logger.Debug(ctx, "rejected prediction request",
			logger.String("kind", kind.String()),
			logger.Int("status", status),
			logger.Error(err),
		)
		writeError(w, status, code, err)
		return
	}

	pred, err := h.deps.Classify(ctx, req)
	if err != nil {
		if !h.deps.Ready() {
			writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
			return
		}
		status, code := classifyStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(ctx, "prediction failed",
				logger.String("kind", kind.String()),
				logger.Error(err),
			)
			writeError(w, status, code, NewKind(op, ErrInternal))
			return
		}
		writeError(w, status, code, err)
		return
	}

	resp := predictResponse{PredictedCategory: pred.Label.String()}
	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain {
		resp.Features = &pred.Features
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeOp names request decoding in wrapped errors.
const decodeOp = "api.predict.decode"

// decode reads, schema-checks and binds the body to a tagged request. On
// failure it returns the status and error code to respond with.
func (h *PredictHandler) decode(w http.ResponseWriter, r *http.Request, kind player.Kind) (player.Request, int, string, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()

	inst, err := jsonschema.UnmarshalJSON(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return player.Request{}, http.StatusRequestEntityTooLarge, "body_too_large", ErrBodyTooLarge
		}
		return player.Request{}, http.StatusUnprocessableEntity, "validation_error",
			WrapKind(decodeOp, ErrValidation, fmt.Errorf("malformed JSON: %w", err))
	}
	inst = unwrapEnvelope(inst)

	if err := h.validator.Validate(kind, inst); err != nil {
		if errors.Is(err, ErrPayloadMismatch) {
			return player.Request{}, http.StatusBadRequest, "payload_mismatch", err
		}
		return player.Request{}, http.StatusUnprocessableEntity, "validation_error",
			WrapKind(decodeOp, ErrValidation, err)
	}

	raw, err := json.Marshal(normalizeIntegers(inst))
	if err != nil {
		return player.Request{}, http.StatusUnprocessableEntity, "validation_error",
			WrapKind(decodeOp, ErrValidation, err)
	}
	req, err := bindRecord(kind, raw)
	if err != nil {
		return player.Request{}, http.StatusUnprocessableEntity, "validation_error",
			WrapKind(decodeOp, ErrValidation, err)
	}
	return req, 0, "", nil
}

func bindRecord(kind player.Kind, raw []byte) (player.Request, error) {
	switch kind {
	case player.Batsman:
		var rec player.BatsmanRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return player.Request{}, bindError(err)
		}
		return player.NewBatsmanRequest(rec), nil
	case player.Bowler:
		var rec player.BowlerRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return player.Request{}, bindError(err)
		}
		return player.NewBowlerRequest(rec), nil
	default:
		return player.Request{}, fmt.Errorf("%w: %q", player.ErrUnknownKind, string(kind))
	}
}

// maxExactInt is the largest integer every float64 represents exactly.
const maxExactInt = 1 << 53

// normalizeIntegers rewrites integral numbers such as 500.0 as 500 so they
// bind to integer fields.
func normalizeIntegers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeIntegers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeIntegers(e)
		}
		return t
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			return t
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) >= maxExactInt {
			return t
		}
		return json.Number(strconv.FormatInt(int64(f), 10))
	default:
		return v
	}
}

// bindError names the offending field instead of the Go type.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("/%s: %s is not a valid %s", typeErr.Field, typeErr.Value, typeErr.Type.Kind())
	}
	return err
}

// classifyStatus maps a Classify error to a response status and code.
func classifyStatus(err error) (int, string) {
	switch {
	case errors.Is(err, player.ErrPayloadMismatch):
		return http.StatusBadRequest, "payload_mismatch"
	case errors.Is(err, features.ErrZeroRuns),
		errors.Is(err, player.ErrCareerSpan),
		errors.Is(err, player.ErrNegativeStat):
		return http.StatusBadRequest, "invalid_record"
	case errors.Is(err, player.ErrUnknownKind):
		return http.StatusNotFound, "unknown_player_type"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
