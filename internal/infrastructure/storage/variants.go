package storage

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"realty-backend/internal/config"
)

// EncodedVariant is one encoded output image for one tier.
type EncodedVariant struct {
	Tier        string
	Data        []byte
	Width       int
	Height      int
	Quality     int
	Format      string
	Progressive bool
}

// VariantGenerator turns one source image into one encoded variant per
// configured tier. Generation is pure; persisting the variants is the
// media service's job.
type VariantGenerator struct {
	cfg config.MediaConfig
}

func NewVariantGenerator(cfg config.MediaConfig) *VariantGenerator {
	return &VariantGenerator{cfg: cfg}
}

// Generate decodes the source once and produces every tier. Aspect
// ratio is preserved, tiers never upscale, and a tier whose computed
// dimensions equal the source skips the resample entirely.
//
// Quality boost: sources at or under PreserveBytes get +QualityBoost
// (capped at QualityCap) on boosted tiers. Progressive flag: sources
// over InterlaceBytes are marked for progressive encoding. The two
// rules are independent; the boost adjusts the quality value before
// encoding and the progressive flag never feeds back into it.
func (g *VariantGenerator) Generate(data []byte) ([]EncodedVariant, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	srcSize := int64(len(data))

	variants := make([]EncodedVariant, 0, len(g.cfg.Tiers))
	for _, tier := range g.cfg.Tiers {
		w, h := FitDimensions(srcW, srcH, tier.Width, tier.Height)

		var out image.Image
		if w == srcW && h == srcH {
			out = img
		} else {
			out = imaging.Resize(img, w, h, imaging.Lanczos)
		}

		quality := tier.Quality
		if tier.Boost && srcSize <= g.cfg.PreserveBytes {
			quality = min(quality+g.cfg.QualityBoost, g.cfg.QualityCap)
		}

		progressive := srcSize > g.cfg.InterlaceBytes

		encoded, format, err := encodeVariant(out, tier.Format, quality)
		if err != nil {
			return nil, fmt.Errorf("encode failed for tier %s: %w", tier.Name, err)
		}

		variants = append(variants, EncodedVariant{
			Tier:        tier.Name,
			Data:        encoded,
			Width:       w,
			Height:      h,
			Quality:     quality,
			Format:      format,
			Progressive: progressive,
		})
	}

	return variants, nil
}

// FitDimensions scales the source into the tier box preserving aspect
// ratio: wider-than-box sources fit to the target width, taller ones to
// the target height. Output never exceeds the source (resize only, no
// upsize).
func FitDimensions(srcW, srcH, targetW, targetH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}

	srcAspect := float64(srcW) / float64(srcH)
	targetAspect := float64(targetW) / float64(targetH)

	var w, h int
	if srcAspect > targetAspect {
		w = targetW
		h = int(float64(targetW)/srcAspect + 0.5)
	} else {
		h = targetH
		w = int(float64(targetH)*srcAspect + 0.5)
	}

	if w >= srcW || h >= srcH {
		return srcW, srcH
	}
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}
	return w, h
}

// encodeVariant writes the bitmap in the requested format. Formats the
// codec cannot produce are silently downgraded: webp becomes jpeg, and
// progressive output is baseline (image/jpeg encodes baseline only).
func encodeVariant(img image.Image, format string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "png", nil
	case "jpeg", "jpg", "webp", "":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpeg", nil
	default:
		return nil, "", fmt.Errorf("unsupported target format %q", format)
	}
}
