// Package transport holds the request parsing and JSON shapes of the
// automation endpoints.
package transport

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/platform/validator"
)

// ThresholdRequest is the optional body of the windowed automations.
// days_threshold may be a JSON number or a numeric string.
type ThresholdRequest struct {
	DaysThreshold json.RawMessage `json:"days_threshold"`
}

type thresholdValue struct {
	Days int `json:"days_threshold" validate:"min=1,max=365"`
}

// ResolveThreshold picks days_threshold from the body, then the query string,
// and falls back when neither holds a usable value. Bad input never fails the
// request.
func ResolveThreshold(val *validator.Validator, body []byte, query string, fallback int) int {
	if days, ok := thresholdFromBody(body); ok && valid(val, days) {
		return days
	}
	if days, ok := parseDays(query); ok && valid(val, days) {
		return days
	}
	return fallback
}

func thresholdFromBody(body []byte) (int, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return 0, false
	}

	var req ThresholdRequest
	if err := json.Unmarshal(body, &req); err != nil || len(req.DaysThreshold) == 0 {
		return 0, false
	}

	var number float64
	if err := json.Unmarshal(req.DaysThreshold, &number); err == nil {
		if number != math.Trunc(number) {
			return 0, false
		}
		return int(number), true
	}

	var text string
	if err := json.Unmarshal(req.DaysThreshold, &text); err == nil {
		return parseDays(text)
	}
	return 0, false
}

func parseDays(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return days, true
}

func valid(val *validator.Validator, days int) bool {
	if val == nil {
		return days >= 1 && days <= domain.MaxThresholdDays
	}
	return val.Struct(thresholdValue{Days: days}) == nil
}
