package retail

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BlockDetector recognizes bot walls and CAPTCHA challenges served in place
// of a product page.
type BlockDetector struct {
	titleMarkers      []string
	challengeSelector string
}

// NewBlockDetector creates a detector with the known challenge markers
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		titleMarkers: []string{
			"access denied",
			"acceso denegado",
			"attention required",
			"just a moment",
			"un momento",
			"are you a robot",
			"verify you are human",
			"security check",
			"captcha",
			"pardon our interruption",
		},
		challengeSelector: strings.Join([]string{
			".g-recaptcha",
			".h-captcha",
			".cf-turnstile",
			"#challenge-form",
			"#cf-challenge-running",
			"form#captcha-form",
			"iframe[src*='captcha-delivery.com']",
		}, ", "),
	}
}

// Detect reports whether html is a challenge page, with a short reason.
// Unparseable HTML is not considered blocked.
func (d *BlockDetector) Detect(html string) (bool, string) {
	if strings.TrimSpace(html) == "" {
		return false, ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, ""
	}

	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	for _, marker := range d.titleMarkers {
		if strings.Contains(title, marker) {
			return true, "title: " + title
		}
	}

	if sel := doc.Find(d.challengeSelector); sel.Length() > 0 {
		class, _ := sel.First().Attr("class")
		id, _ := sel.First().Attr("id")
		return true, "challenge element: " + strings.TrimSpace(goquery.NodeName(sel.First())+" "+id+" "+class)
	}

	return false, ""
}
