package docs

import "testing"

func TestSanitizeDescription(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"  plain text ":                        "plain text",
		"<b>bold</b><script>alert(1)</script>": "<b>bold</b>",
		`<p onclick="x()">para</p>`:            "<p>para</p>",
		"a < b":                                "a &lt; b",
	}
	for in, want := range cases {
		if got := sanitizeDescription(in); got != want {
			t.Fatalf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
