// Package imaging shrinks images for upload: it scales them to fit a maximum
// edge length, keeping the aspect ratio, and re-encodes them as JPEG.
package imaging

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io"

	"github.com/nfnt/resize"
)

// Defaults for Options.
const (
	DefaultMaxWidth = 1920
	DefaultQuality  = 80
)

// Sentinel errors.
var (
	ErrInvalidOptions = errors.New("invalid image options")
	ErrDecode         = errors.New("cannot decode image")
)

// Options controls Compress.
type Options struct {
	// MaxWidth bounds both edges of the output.
	MaxWidth int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultOptions returns MaxWidth 1920 and Quality 80.
func DefaultOptions() Options {
	return Options{MaxWidth: DefaultMaxWidth, Quality: DefaultQuality}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.MaxWidth <= 0 {
		return fmt.Errorf("%w: max width must be positive, got %d", ErrInvalidOptions, o.MaxWidth)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("%w: quality must be between 1 and 100, got %d", ErrInvalidOptions, o.Quality)
	}
	return nil
}

// Result describes one compressed image.
type Result struct {
	Source       string
	Destination  string
	Format       string
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	BytesIn      int64
	BytesOut     int64
}

// Fit returns the size of a w x h image scaled by min(maxEdge/w, maxEdge/h).
// The ratio is capped at 1: Fit never upscales, so images that already fit
// keep their size, where a plain min(maxEdge/w, maxEdge/h) would enlarge them.
func Fit(w, h, maxEdge int) (int, int) {
	if w <= 0 || h <= 0 || maxEdge <= 0 {
		return max(w, 0), max(h, 0)
	}
	longest := max(w, h)
	if longest <= maxEdge {
		return w, h
	}
	return max(w*maxEdge/longest, 1), max(h*maxEdge/longest, 1)
}

// Compress decodes an image from r, scales it with Fit and writes it to w as JPEG.
func Compress(r io.Reader, w io.Writer, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	in := &countingReader{r: r}
	img, format, err := image.Decode(bufio.NewReader(in))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	b := img.Bounds()
	res := Result{Format: format, SourceWidth: b.Dx(), SourceHeight: b.Dy()}
	res.Width, res.Height = Fit(b.Dx(), b.Dy(), opts.MaxWidth)
	if res.Width != b.Dx() || res.Height != b.Dy() {
		img = resize.Resize(uint(res.Width), uint(res.Height), img, resize.Lanczos3)
	}

	out := &countingWriter{w: w}
	if err = jpeg.Encode(out, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return Result{}, fmt.Errorf("encoding jpeg: %w", err)
	}
	res.BytesIn = in.n
	res.BytesOut = out.n
	return res, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
