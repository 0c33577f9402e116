package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"<b>Harbour</b> Hotel", "Harbour Hotel"},
		{"Fish &amp; Chips", "Fish & Chips"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;ok", "alert(1)ok"},
		{"  plain  ", "plain"},
	}

	for _, tc := range cases {
		if got := StripHTML(tc.input); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	input := `<html><head><title>Digest</title><style>td{color:red}</style></head><body>
<h1>Daily sales digest</h1>
<table><tr><td>Open pipeline</td><td>$3300.00</td></tr>
<tr><td>At-risk deals</td><td>1 worth $800.00</td></tr></table>


<p>No publications are due.</p></body></html>`

	want := "Daily sales digest\nOpen pipeline $3300.00\nAt-risk deals 1 worth $800.00\n\nNo publications are due."
	if got := PlainText(input); got != want {
		t.Fatalf("PlainText mismatch:\n got: %q\nwant: %q", got, want)
	}
}
