package domain

import "testing"

func TestNormalizeTelegramHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"@durov", "durov"},
		{"durov", "durov"},
		{"https://t.me/durov", "durov"},
		{"http://telegram.me/durov", "durov"},
		{"t.me/durov", "durov"},
		{"https://www.t.me/@durov", "durov"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTelegramHandle(tt.raw); got != tt.want {
			t.Fatalf("NormalizeTelegramHandle(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeTwitterHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"@jack", "jack"},
		{"https://twitter.com/jack", "jack"},
		{"https://x.com/jack", "jack"},
		{"x.com/@jack", "jack"},
		{"jack", "jack"},
	}
	for _, tt := range tests {
		if got := NormalizeTwitterHandle(tt.raw); got != tt.want {
			t.Fatalf("NormalizeTwitterHandle(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeLinkedInHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"linkedin.com/in/jane-doe", "jane-doe"},
		{"jane-doe", "jane-doe"},
		{"https://linkedin.com/company/acme", ""},
	}
	for _, tt := range tests {
		if got := NormalizeLinkedInHandle(tt.raw); got != tt.want {
			t.Fatalf("NormalizeLinkedInHandle(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
