package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/owzim/blick/internal/storage"
)

// Resizer writes a resized copy of the image at src to dst.
type Resizer interface {
	Resize(src, dst string, width, height int, opts Options) error
}

// DrawResizer is the default Resizer. It decodes jpeg, png, gif and webp
// sources and encodes jpeg, png and gif by the extension of dst.
type DrawResizer struct {
	FS     storage.FileSystem
	Scaler draw.Scaler
}

// NewDrawResizer returns a DrawResizer reading and writing through fsys with
// Catmull-Rom resampling.
func NewDrawResizer(fsys storage.FileSystem) *DrawResizer {
	return &DrawResizer{FS: fsys, Scaler: draw.CatmullRom}
}

// Resize scales src to width x height. A zero dimension is derived from the
// other one keeping the aspect ratio; both zero keeps the source size.
// Without upscaling the target is shrunk proportionally to fit the source.
// With cropping the source is cut to the target aspect ratio first,
// otherwise the image is fitted inside the target box.
func (r *DrawResizer) Resize(src, dst string, width, height int, opts Options) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	data, err := r.FS.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}

	bounds := img.Bounds()
	if opts.CropRect != nil {
		bounds = opts.CropRect.Add(bounds.Min).Intersect(bounds)
		if bounds.Empty() {
			return fmt.Errorf("%w: crop rectangle %v outside image", ErrInvalidSize, *opts.CropRect)
		}
	}

	w, h := targetSize(bounds.Dx(), bounds.Dy(), width, height, opts.Upscaling)

	srcRect := bounds
	if opts.Cropping.Enabled && opts.CropRect == nil {
		srcRect = opts.Cropping.cropWindow(bounds, w, h)
	} else if !opts.Cropping.Enabled {
		w, h = fitSize(bounds.Dx(), bounds.Dy(), w, h)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler := r.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	scaler.Scale(out, out.Bounds(), img, srcRect, draw.Src, nil)

	var buf bytes.Buffer
	if err := encode(&buf, out, path.Ext(dst), opts.Quality); err != nil {
		return err
	}
	if err := r.FS.WriteFile(dst, buf.Bytes()); err != nil {
		return fmt.Errorf("writing variant: %w", err)
	}
	return nil
}

// targetSize fills in zero dimensions and applies the upscaling limit.
func targetSize(sw, sh, w, h int, upscaling bool) (int, int) {
	switch {
	case w == 0 && h == 0:
		w, h = sw, sh
	case w == 0:
		w = maxInt(1, roundDiv(sw*h, sh))
	case h == 0:
		h = maxInt(1, roundDiv(sh*w, sw))
	}
	if !upscaling && (w > sw || h > sh) {
		// Shrink by the larger overshoot so the aspect ratio is kept.
		if w*sh > h*sw {
			h = maxInt(1, roundDiv(h*sw, w))
			w = sw
		} else {
			w = maxInt(1, roundDiv(w*sh, h))
			h = sh
		}
	}
	return w, h
}

// fitSize returns the largest size with the aspect ratio of sw x sh that
// fits inside w x h.
func fitSize(sw, sh, w, h int) (int, int) {
	if sw*h > sh*w {
		return w, maxInt(1, roundDiv(sh*w, sw))
	}
	return maxInt(1, roundDiv(sw*h, sh)), h
}

func encode(buf *bytes.Buffer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		if quality < 1 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(buf, img)
	case "gif":
		return gif.Encode(buf, img, nil)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
