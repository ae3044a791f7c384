package centrisbrowser

import "testing"

func TestIsBlockedMarkup(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"cloudflare captcha", `<div id="cf-captcha-container"></div>`, true},
		{"access denied page", `<h1>Access denied</h1><p>You do not have access.</p>`, true},
		{"normal results page", `<div class="property-thumbnail-item"></div>`, false},
		{"lowercase denied is not a match", `<p>access denied</p>`, false},
		{"empty page", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlockedMarkup(tt.html); got != tt.want {
				t.Errorf("IsBlockedMarkup = %v, want %v", got, tt.want)
			}
		})
	}
}
