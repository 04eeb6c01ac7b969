package httputil

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://uguu.se/upload", false},
		{"HTTP rejected", "http://uguu.se/upload", true},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"FTP rejected", "ftp://example.com/file", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with port", "https://127.0.0.1:8443/upload", false},
		{"valid with query", "https://uguu.se/upload?output=json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestWithQuery(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		value    string
		expected string
	}{
		{"plain", "https://uguu.se/upload", "text", "https://uguu.se/upload?output=text"},
		{"replaces existing", "https://uguu.se/upload?output=json", "csv", "https://uguu.se/upload?output=csv"},
		{"keeps other params", "https://uguu.se/upload?a=1", "html", "https://uguu.se/upload?a=1&output=html"},
		{"passes value verbatim", "https://uguu.se/upload", "Gyazo", "https://uguu.se/upload?output=Gyazo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithQuery(tt.base, "output", tt.value)
			if err != nil {
				t.Fatalf("WithQuery error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("WithQuery(%q) = %q, want %q", tt.base, got, tt.expected)
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		max      int
		expected string
	}{
		{"short body", "oops", 200, "oops"},
		{"trimmed", "  oops\n", 200, "oops"},
		{"truncated", strings.Repeat("a", 10), 4, "aaaa..."},
		{"rune boundary", "ééé", 3, "é..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snippet([]byte(tt.body), tt.max)
			if got != tt.expected {
				t.Errorf("Snippet(%q, %d) = %q, want %q", tt.body, tt.max, got, tt.expected)
			}
		})
	}
}

func TestNewClientTimeout(t *testing.T) {
	if c := NewClient(0); c.Timeout != DefaultTimeout {
		t.Errorf("NewClient(0).Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if c := NewClient(5e9); c.Timeout.Seconds() != 5 {
		t.Errorf("NewClient(5s).Timeout = %v", c.Timeout)
	}
}
