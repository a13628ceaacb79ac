package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultQuantityWindow is the number of characters inspected on each side
// of a price match.
const DefaultQuantityWindow = 500

const (
	minQuantity = 1
	maxQuantity = 100
)

// Pack-size phrasings in priority order. Text is case-folded before matching.
var packSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d+)\s*uds?\b`),           // "2UDS", "10 ud"
	regexp.MustCompile(`\b(\d+)\s*unidad(?:es)?\b`),  // "5 unidades"
	regexp.MustCompile(`\bpack\s*(?:de\s*)?(\d+)\b`), // "pack de 5"
	regexp.MustCompile(`\bbolsa\s*de\s*(\d+)\b`),     // "bolsa de 20"
	regexp.MustCompile(`\bcaja\s*de\s*(\d+)\b`),      // "caja de 50"
	regexp.MustCompile(`\bpack\s*of\s*(\d+)\b`),      // "pack of 4"
	regexp.MustCompile(`\bbag\s*of\s*(\d+)\b`),       // "bag of 10"
	regexp.MustCompile(`\bbox\s*of\s*(\d+)\b`),       // "box of 25"
	regexp.MustCompile(`\b(\d+)\s*(?:pcs|pzs|piezas|pieces)\b`),
	regexp.MustCompile(`\b(\d+)\s*units?\b`),
	regexp.MustCompile(`\b(\d+)\s*(?:tornillos|presores|tuercas|arandelas|bolts|clamps|screws)\b`),
}

// QuantityDetector finds pack-size indicators around a price match
type QuantityDetector struct {
	radius int
}

// NewQuantityDetector creates a detector inspecting radius characters on
// each side of a match. A non-positive radius uses DefaultQuantityWindow.
func NewQuantityDetector(radius int) *QuantityDetector {
	if radius <= 0 {
		radius = DefaultQuantityWindow
	}
	return &QuantityDetector{radius: radius}
}

// DetectQuantity returns the pack size advertised near offset, or 1 when
// none is found in [1, 100].
func (d *QuantityDetector) DetectQuantity(html string, offset int) int {
	window := d.Window(html, offset)
	if window == "" {
		return minQuantity
	}

	for _, pattern := range packSizePatterns {
		for _, match := range pattern.FindAllStringSubmatch(window, -1) {
			n, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if n >= minQuantity && n <= maxQuantity {
				return n
			}
		}
	}

	return minQuantity
}

// Window returns the case-folded text within radius characters of offset.
func (d *QuantityDetector) Window(html string, offset int) string {
	if html == "" {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(html) {
		offset = len(html)
	}

	start := offset
	for i := 0; i < d.radius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(html[:start])
		start -= size
	}

	end := offset
	for i := 0; i < d.radius && end < len(html); i++ {
		_, size := utf8.DecodeRuneInString(html[end:])
		end += size
	}

	return strings.ToLower(html[start:end])
}

// ClampQuantity maps quantities outside [1, 100] to 1.
func ClampQuantity(quantity int) int {
	if quantity < minQuantity || quantity > maxQuantity {
		return minQuantity
	}
	return quantity
}
