package retail

import "testing"

func TestBlockDetector_Detect(t *testing.T) {
	detector := NewBlockDetector()

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "regular product page",
			html: `<html><head><title>Presor lateral S10 | Obramat</title></head><body><span class="price">1,80 €</span></body></html>`,
			want: false,
		},
		{
			name: "cloudflare interstitial",
			html: `<html><head><title>Just a moment...</title></head><body></body></html>`,
			want: true,
		},
		{
			name: "access denied title",
			html: `<html><head><title>Access Denied</title></head><body>Reference #18</body></html>`,
			want: true,
		},
		{
			name: "recaptcha widget",
			html: `<html><head><title>Leroy Merlin</title></head><body><div class="g-recaptcha" data-sitekey="x"></div></body></html>`,
			want: true,
		},
		{
			name: "datadome iframe",
			html: `<html><body><iframe src="https://geo.captcha-delivery.com/captcha/?initialCid=1"></iframe></body></html>`,
			want: true,
		},
		{
			name: "mentions cloudflare in scripts only",
			html: `<html><head><title>Tapa terminal</title><script src="https://cdnjs.cloudflare.com/x.js"></script></head><body>0,75 €</body></html>`,
			want: false,
		},
		{
			name: "empty body",
			html: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := detector.Detect(tt.html)
			if got != tt.want {
				t.Errorf("Detect() = %v (%s), want %v", got, reason, tt.want)
			}
			if got && reason == "" {
				t.Error("Detect() returned no reason for a blocked page")
			}
		})
	}
}
