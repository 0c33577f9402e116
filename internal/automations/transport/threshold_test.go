package transport

import (
	"testing"

	"adsales_backend/platform/validator"
)

func TestResolveThreshold(t *testing.T) {
	val := validator.New()

	cases := []struct {
		name  string
		body  string
		query string
		want  int
	}{
		{"empty body", "", "", 7},
		{"number", `{"days_threshold": 10}`, "", 10},
		{"numeric string", `{"days_threshold": "14"}`, "", 14},
		{"padded string", `{"days_threshold": " 3 "}`, "", 3},
		{"garbage string", `{"days_threshold": "soon"}`, "", 7},
		{"fraction", `{"days_threshold": 2.5}`, "", 7},
		{"zero", `{"days_threshold": 0}`, "", 7},
		{"negative", `{"days_threshold": -4}`, "", 7},
		{"too large", `{"days_threshold": 366}`, "", 7},
		{"upper bound", `{"days_threshold": 365}`, "", 365},
		{"malformed json", `{"days_threshold":`, "", 7},
		{"null", `{"days_threshold": null}`, "", 7},
		{"query fallback", `{}`, "21", 21},
		{"body wins", `{"days_threshold": 2}`, "21", 2},
		{"bad body uses query", `{"days_threshold": "x"}`, "9", 9},
		{"bad query", "", "abc", 7},
	}

	for _, tc := range cases {
		if got := ResolveThreshold(val, []byte(tc.body), tc.query, 7); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestResolveThresholdWithoutValidator(t *testing.T) {
	if got := ResolveThreshold(nil, []byte(`{"days_threshold": 400}`), "", 5); got != 5 {
		t.Fatalf("expected fallback 5, got %d", got)
	}
	if got := ResolveThreshold(nil, []byte(`{"days_threshold": 6}`), "", 5); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}
