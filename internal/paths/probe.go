package paths

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"time"

	// Registered for image.DecodeConfig; probing reads headers only.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"
)

// ProbeTimeout bounds a single remote dimension probe. Dimension detection
// is a nice-to-have; a slow host must not stall the batch.
const ProbeTimeout = 10 * time.Second

const probeUserAgent = "Telar/1.0"

// Prober reads image dimensions for carousel size classification. Local
// paths are resolved relative to an images directory; http(s) references are
// fetched with a bounded timeout and never retried.
type Prober struct {
	imagesDir string
	client    *resty.Client
}

// NewProber returns a Prober rooted at imagesDir.
func NewProber(imagesDir string) *Prober {
	client := resty.New().
		SetTimeout(ProbeTimeout).
		SetHeader("User-Agent", probeUserAgent)
	return &Prober{imagesDir: imagesDir, client: client}
}

// Dimensions returns the width and height of the referenced image. Failures
// are silent by contract: a false return means "unknown", never an error the
// caller must handle.
func (p *Prober) Dimensions(imagePath string) (width, height int, ok bool) {
	if IsExternalURL(imagePath) {
		return p.remoteDimensions(imagePath)
	}

	full := filepath.Join(p.imagesDir, imagePath)
	f, err := os.Open(full)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func (p *Prober) remoteDimensions(url string) (int, int, bool) {
	resp, err := p.client.R().Get(url)
	if err != nil || resp.IsError() {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(resp.Body()))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
