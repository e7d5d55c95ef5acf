// Package service orchestrates the statement transform pipeline: detection,
// extraction, standardization. Each transform is stateless and independent,
// so batches run one worker per file with no coordination beyond collecting
// results in input order.
package service

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/detect"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/extract"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/standardize"
)

// Options configures one transform call.
type Options struct {
	// DateFormat is the target date rendering; unknown values fall back to
	// the default.
	DateFormat string
	// IncludeMetadata controls whether the output carries the metadata table.
	IncludeMetadata bool
}

// DefaultOptions returns the standard transform configuration.
func DefaultOptions() Options {
	return Options{
		DateFormat:      standardize.DefaultDateFormat,
		IncludeMetadata: true,
	}
}

// Meta describes one processed file.
type Meta struct {
	FileName        string   `json:"file_name"`
	ProcessedAt     string   `json:"processed_at"`
	StandardHeaders []string `json:"standard_headers"`
}

// Result is the sole artifact crossing the boundary to callers. On failure
// Success is false and Error/FileName are set; there is no partial result.
type Result struct {
	Success          bool                      `json:"success"`
	AccountInfo      *extract.AccountInfo      `json:"account_info,omitempty"`
	Transactions     []standardize.Transaction `json:"transactions,omitempty"`
	OriginalFormat   string                    `json:"original_format,omitempty"`
	RecordsProcessed int                       `json:"records_processed,omitempty"`
	Metadata         *Meta                     `json:"metadata,omitempty"`

	Error    string `json:"error,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Service runs statement transforms against a fixed profile registry.
type Service struct {
	detector *detect.Detector
	logger   *slog.Logger
}

// New creates a transform service over the given registry.
func New(profiles []profile.Profile, logger *slog.Logger) *Service {
	return &Service{
		detector: detect.New(profiles),
		logger:   logger,
	}
}

// Transform converts one loaded grid into a standardized result. Structural
// failure to locate the transaction table is reported in the result, not
// raised; cell-level ambiguity is absorbed by the standardizer.
func (s *Service) Transform(g grid.Grid, fileName string, opts Options) Result {
	p := s.detector.Detect(g)
	s.logger.Info("detected statement format",
		slog.String("file", fileName),
		slog.String("format", p.Name))

	info := extract.ExtractAccountInfo(g, p)

	raws, err := extract.Transactions(g, p)
	if err != nil {
		s.logger.Warn("transform failed",
			slog.String("file", fileName),
			slog.Any("error", err))
		return Result{
			Success:  false,
			Error:    err.Error(),
			FileName: fileName,
		}
	}

	dateFormat := opts.DateFormat
	if dateFormat == "" {
		dateFormat = standardize.DefaultDateFormat
	}
	txs, degraded := standardize.Apply(raws, p, dateFormat)
	for _, d := range degraded {
		s.logger.Warn("cell conversion degraded",
			slog.String("file", fileName),
			slog.Int("row", d.Row),
			slog.String("field", string(d.Field)),
			slog.String("value", d.Value))
	}

	headers := make([]string, len(profile.StandardFields))
	for i, f := range profile.StandardFields {
		headers[i] = string(f)
	}

	s.logger.Info("transform complete",
		slog.String("file", fileName),
		slog.Int("records", len(txs)))

	return Result{
		Success:          true,
		AccountInfo:      &info,
		Transactions:     txs,
		OriginalFormat:   p.Name,
		RecordsProcessed: len(txs),
		Metadata: &Meta{
			FileName:        fileName,
			ProcessedAt:     time.Now().UTC().Format(time.RFC3339),
			StandardHeaders: headers,
		},
	}
}

// BatchFile is one input to TransformBatch.
type BatchFile struct {
	FileName string
	Grid     grid.Grid
}

// TransformBatch transforms files concurrently and returns results in input
// order. One file's failure never aborts its siblings; a canceled context
// marks the remaining files as failed.
func (s *Service) TransformBatch(ctx context.Context, files []BatchFile, opts Options) []Result {
	results := make([]Result, len(files))
	if len(files) == 0 {
		return results
	}

	workers := runtime.NumCPU()
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.Transform(files[i].Grid, files[i].FileName, opts)
			}
		}()
	}

	for i := range files {
		select {
		case <-ctx.Done():
			results[i] = Result{
				Success:  false,
				Error:    ctx.Err().Error(),
				FileName: files[i].FileName,
			}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
