package urlutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com  ", "https://example.com"},
		{"https://example.com", "https://example.com"},
		{"http://example.com/path?q=1", "http://example.com/path?q=1"},
		{"ftp://host/file", "ftp://host/file"},
		{"example.com/path", "https://example.com/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsLikelyValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com", true},
		{"https://sub.example.com/path#frag", true},
		{"ftp://example.com", false},
		{"https://", false},
		{"example.com", false}, // no scheme until normalized
		{"", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		if got := IsLikelyValid(tt.in); got != tt.want {
			t.Errorf("IsLikelyValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"https://sub.example.com/path", "sub.example.com"},
		{"http://example.com:8080", "example.com:8080"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Host(tt.in); got != tt.want {
			t.Errorf("Host(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example-com"},
		{"sub.example.com:8080", "sub-example-com-8080"},
		{"already_safe-name", "already_safe-name"},
		{"über.example", "über-example"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
