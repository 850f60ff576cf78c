package paths

import (
	"path/filepath"
	"testing"
)

func TestTokenStore(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := TokenStore()
	if err != nil {
		t.Fatalf("TokenStore() error = %v", err)
	}
	if want := filepath.Join(home, ".garminconnect"); got != want {
		t.Errorf("TokenStore() = %q, want %q", got, want)
	}
}

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tilde prefix",
			input: "~/tokens",
			want:  filepath.Join(home, "tokens"),
		},
		{
			name:  "bare tilde",
			input: "~",
			want:  home,
		},
		{
			name:  "absolute path untouched",
			input: "/var/lib/gconnect",
			want:  "/var/lib/gconnect",
		},
		{
			name:  "relative path untouched",
			input: "tokens",
			want:  "tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.input)
			if err != nil {
				t.Fatalf("Expand(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
