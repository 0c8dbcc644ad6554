package imaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/virtlist/internal/batch"
	"github.com/rshade/virtlist/internal/validate"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// bytesPerMB converts megabytes to bytes.
const bytesPerMB = 1 << 20

// Intake errors.
var (
	ErrTooLarge        = errors.New("image file too large")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// FileOptions controls CompressFiles.
type FileOptions struct {
	Options

	OutDir       string
	MaxBytes     int64
	AllowedTypes []string
	Concurrency  int
	BatchSize    int
	Logger       zerolog.Logger
}

// DefaultAllowedTypes are the MIME types Compress can decode.
func DefaultAllowedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif"}
}

// CheckFile validates the size and sniffed MIME type of the file at path.
func CheckFile(path string, maxBytes int64, allowed []string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if maxBytes > 0 && !validate.FileSize(info.Size(), maxBytes) {
		return fmt.Errorf("%w: %s is %.1f MB, limit %.1f MB", ErrTooLarge, path,
			float64(info.Size())/bytesPerMB, float64(maxBytes)/bytesPerMB)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	mime := http.DetectContentType(head[:n])
	if !validate.FileType(mime, allowed) {
		return fmt.Errorf("%w: %s is %s", ErrUnsupportedType, path, mime)
	}
	return nil
}

// CompressFile checks and compresses src into outDir as <name>.jpg.
func CompressFile(src string, opts FileOptions) (Result, error) {
	allowed := opts.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes()
	}
	if err := CheckFile(src, opts.MaxBytes, allowed); err != nil {
		return Result{}, err
	}

	in, err := os.Open(src)
	if err != nil {
		return Result{}, err
	}
	defer in.Close()

	if err = os.MkdirAll(opts.OutDir, 0o750); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(opts.OutDir, base+".jpg")
	if sameFile(src, dst) {
		dst = filepath.Join(opts.OutDir, base+".min.jpg")
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return Result{}, err
	}
	res, err := Compress(in, out, opts.Options)
	closeErr := out.Close()
	if err != nil {
		_ = os.Remove(dst)
		return Result{}, fmt.Errorf("%s: %w", src, err)
	}
	if closeErr != nil {
		return Result{}, closeErr
	}

	res.Source = src
	res.Destination = dst
	return res, nil
}

// CompressFiles compresses every path in batches, running up to
// opts.Concurrency files at once. Successful results are returned even when
// some files fail; the failures are joined into the error.
func CompressFiles(ctx context.Context, paths []string, opts FileOptions) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	workers := max(opts.Concurrency, 1)
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		// Spread the files evenly over the workers.
		batchSize = min(max((len(paths)+workers-1)/workers, batch.MinBatchSize), batch.MaxBatchSize)
	}
	proc, err := batch.NewProcessor[string](batchSize)
	if err != nil {
		return nil, err
	}
	proc.WithProgressCallback(func(s batch.ProgressSnapshot) {
		opts.Logger.Debug().
			Int("processed", s.ProcessedItems).
			Int("total", s.TotalItems).
			Float64("percent", s.PercentComplete).
			Msg("image batch done")
	})

	var (
		mu      sync.Mutex
		results []Result
	)
	err = proc.ProcessConcurrent(ctx, paths, func(ctx context.Context, files []string, _ int) error {
		var errs []error
		for _, src := range files {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			res, fileErr := CompressFile(src, opts)
			if fileErr != nil {
				errs = append(errs, fileErr)
				continue
			}
			opts.Logger.Info().
				Str("source", res.Source).
				Str("destination", res.Destination).
				Int64("bytes_in", res.BytesIn).
				Int64("bytes_out", res.BytesOut).
				Msg("image compressed")
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}
		return errors.Join(errs...)
	}, workers)
	return results, err
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
