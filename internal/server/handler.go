package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/tradelens/chart-image/internal/service"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/internal/version"
	"github.com/tradelens/chart-image/pkg/errors"
)

// chartQuery carries the raw query parameters of a chart request.
type chartQuery struct {
	Ticker    string `validate:"required,uppercase,max=12"`
	Interval  string `validate:"omitempty,oneof=5m 1h 1d"`
	From      string `validate:"omitempty"`
	To        string `validate:"omitempty"`
	Entry     string `validate:"required"`
	Exit      string `validate:"omitempty"`
	Direction string `validate:"omitempty,oneof=LONG SHORT"`
	Legs      string `validate:"omitempty"`
}

// errorPayload is the JSON body returned for failed requests.
type errorPayload struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

var validate = validator.New()

const dateLayout = "2006-01-02"

func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	req, err := parseChartRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.service.RenderChart(r.Context(), *req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.PNG); err != nil {
		s.log.Error("failed to write chart response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	body := map[string]string{"status": "ok", "version": version.GetVersion()}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to write health response", zap.Error(err))
	}
}

// parseChartRequest validates and converts query parameters into a service
// request.
func parseChartRequest(r *http.Request) (*service.ChartRequest, error) {
	q := r.URL.Query()

	raw := chartQuery{
		Ticker:    q.Get("ticker"),
		Interval:  q.Get("interval"),
		From:      q.Get("from"),
		To:        q.Get("to"),
		Entry:     q.Get("entry"),
		Exit:      q.Get("exit"),
		Direction: q.Get("direction"),
		Legs:      q.Get("legs"),
	}

	if err := validate.Struct(raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid query parameters", err)
	}

	interval := types.IntervalOneDay
	if raw.Interval != "" {
		parsed, err := types.ParseInterval(raw.Interval)
		if err != nil {
			return nil, err
		}

		interval = parsed
	}

	direction := types.DirectionLong
	if raw.Direction != "" {
		parsed, err := types.ParseDirection(raw.Direction)
		if err != nil {
			return nil, err
		}

		direction = parsed
	}

	entry, err := strconv.ParseFloat(raw.Entry, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid entry price %q", raw.Entry)
	}

	exit := optional.None[float64]()

	if raw.Exit != "" {
		parsed, err := strconv.ParseFloat(raw.Exit, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid exit price %q", raw.Exit)
		}

		exit = optional.Some(parsed)
	}

	from, err := parseDate(raw.From, "from")
	if err != nil {
		return nil, err
	}

	to, err := parseDate(raw.To, "to")
	if err != nil {
		return nil, err
	}

	var legs []types.TradeLeg

	if raw.Legs != "" {
		legs, err = types.ParseLegs(raw.Legs)
		if err != nil {
			return nil, err
		}
	}

	return &service.ChartRequest{
		Ticker:     raw.Ticker,
		Interval:   interval,
		From:       from,
		To:         to,
		EntryPrice: entry,
		ExitPrice:  exit,
		Direction:  direction,
		Legs:       legs,
	}, nil
}

func parseDate(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
	}

	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid %s date %q", name, value)
	}

	return parsed, nil
}

// writeError maps service errors to HTTP status codes with a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)

	switch {
	case code == errors.ErrCodeInvalidParameter,
		code == errors.ErrCodeMissingParameter,
		code == errors.ErrCodeInvalidInterval,
		code == errors.ErrCodeInvalidDirection,
		code == errors.ErrCodeInvalidLegList:
		status = http.StatusBadRequest
	case code == errors.ErrCodeDataUnavailable:
		status = http.StatusNotFound
	case code == errors.ErrCodeFetchFailed:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.log.Error("chart request failed", zap.Error(err))
	} else {
		s.log.Debug("chart request rejected", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := errorPayload{Error: err.Error(), Code: int(code)}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to write error response", zap.Error(err))
	}
}
