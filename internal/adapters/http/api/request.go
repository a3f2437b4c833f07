package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/confscore/pkg/matrix"
)

// maxBodyBytes caps request bodies before JSON decoding.
const maxBodyBytes = 32 << 20

// predictionRequest is the shared body of POST /confidence and POST /jobs.
type predictionRequest struct {
	JobID   string      `json:"job_id,omitempty"`
	Scorer  string      `json:"scorer,omitempty"`
	Pred    [][]float64 `json:"pred"`
	Classes *int        `json:"classes,omitempty"`
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (predictionRequest, error) {
	var req predictionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("empty body")
		}
		return req, err
	}
	return req, nil
}

// matrix builds the prediction matrix and enforces limits. classes gives the
// column count of an empty prediction and must agree with a non-empty one.
func (p predictionRequest) matrix(limits Limits) (*matrix.Dense, error) {
	if limits.MaxRows > 0 && len(p.Pred) > limits.MaxRows {
		return nil, fmt.Errorf("pred has %d rows, limit is %d", len(p.Pred), limits.MaxRows)
	}

	if len(p.Pred) == 0 {
		if p.Classes == nil {
			return nil, errors.New("empty pred requires classes")
		}
		if *p.Classes < 0 {
			return nil, fmt.Errorf("classes must not be negative, got %d", *p.Classes)
		}
		if err := checkClasses(*p.Classes, limits); err != nil {
			return nil, err
		}
		return matrix.New(0, *p.Classes, nil)
	}

	cols := len(p.Pred[0])
	if p.Classes != nil && *p.Classes != cols {
		return nil, fmt.Errorf("classes is %d but pred has %d columns", *p.Classes, cols)
	}
	if err := checkClasses(cols, limits); err != nil {
		return nil, err
	}
	return matrix.FromRows(p.Pred)
}

func checkClasses(t int, limits Limits) error {
	if limits.MaxClasses > 0 && t > limits.MaxClasses {
		return fmt.Errorf("pred has %d classes, limit is %d", t, limits.MaxClasses)
	}
	return nil
}
