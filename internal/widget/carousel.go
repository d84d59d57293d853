package widget

import (
	"fmt"
	"strings"

	"github.com/veraarmas/telar/internal/paths"
	"github.com/veraarmas/telar/internal/warnings"
)

// Carousel size classes, selected by the maximum height/width ratio across
// all slides: wide panoramas get a short strip, strong portraits a tall one.
const (
	sizeCompact  = "compact"
	sizeDefault  = "default"
	sizeTall     = "tall"
	sizePortrait = "portrait"
)

// parseCarousel parses carousel content: key/value blocks separated by "---"
// lines, one block per slide (image, alt, caption, credit). A slide without
// an image is dropped; a missing image file or missing alt text warns but
// keeps the slide.
func (it *Interpreter) parseCarousel(content string, warn *warnings.List) map[string]any {
	items := make([]map[string]any, 0)
	var ratios []float64

	for blockNum, block := range strings.Split(content, "---") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		data := parseKeyValueBlock(block)

		image, ok := data["image"]
		if !ok {
			warn.Add(carouselWarning(fmt.Sprintf("Carousel item %d missing required field: image", blockNum+1)))
			continue
		}

		if exists, expected := paths.ValidateImagePath(it.assetsDir, image); !exists {
			warn.Add(carouselWarning(fmt.Sprintf("Carousel image not found: %s (expected at %s)", image, expected)))
		}

		alt, ok := data["alt"]
		if !ok {
			warn.Add(carouselWarning(fmt.Sprintf("Carousel item %d missing alt text (accessibility concern)", blockNum+1)))
			alt = ""
		}

		item := map[string]any{
			"image": image,
			"alt":   alt,
		}
		if caption, ok := data["caption"]; ok {
			item["caption"] = it.renderer.RenderInline(caption)
		}
		if credit, ok := data["credit"]; ok {
			item["credit"] = it.renderer.RenderInline(credit)
		}
		items = append(items, item)

		if w, h, ok := it.prober.Dimensions(image); ok && w > 0 {
			ratios = append(ratios, float64(h)/float64(w))
		}
	}

	return map[string]any{
		"items":      items,
		"size_class": sizeClass(ratios),
	}
}

// sizeClass picks the carousel height band from the maximum aspect ratio.
func sizeClass(ratios []float64) string {
	if len(ratios) == 0 {
		return sizeDefault
	}
	max := ratios[0]
	for _, r := range ratios[1:] {
		if r > max {
			max = r
		}
	}
	switch {
	case max < 0.6:
		return sizeCompact
	case max < 1.0:
		return sizeDefault
	case max < 1.5:
		return sizeTall
	default:
		return sizePortrait
	}
}

func carouselWarning(msg string) warnings.Warning {
	return warnings.Warning{
		Type:       warnings.CategoryWidget,
		WidgetType: "carousel",
		Message:    msg,
	}
}
