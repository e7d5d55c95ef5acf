// Package handler exposes the statement transform pipeline over HTTP. The
// JSON shapes mirror the transform result contract; per-file failures are
// reported inline and never abort the rest of a batch.
package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/extract"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/project"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/service"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/workbook"
	"github.com/FACorreiaa/bank-statement-standardizer/pkg/storage"
)

const previewRows = 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the statement transform API.
type Handler struct {
	svc            *service.Service
	store          *storage.Store
	defaults       service.Options
	maxUploadBytes int64
	logger         *slog.Logger
}

// New creates a handler. defaults supplies the transform options used when a
// request does not override them.
func New(svc *service.Service, store *storage.Store, defaults service.Options, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		svc:            svc,
		store:          store,
		defaults:       defaults,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/transform", h.Transform)
	mux.HandleFunc("GET /api/preview/{file}", h.Preview)
	mux.HandleFunc("GET /api/download/{file}", h.Download)
	mux.HandleFunc("GET /api/health", h.Health)
}

// fileResult is one file's outcome, the transform result plus the stored
// output file when generation succeeded.
type fileResult struct {
	service.Result
	OutputFile    string `json:"output_file,omitempty"`
	DownloadReady bool   `json:"download_ready,omitempty"`
}

type transformResponse struct {
	Success        bool         `json:"success"`
	Results        []fileResult `json:"results"`
	TotalProcessed int          `json:"total_processed"`
	TotalFailed    int          `json:"total_failed"`
}

// Transform accepts a multipart upload of statement files, standardizes each
// one, and stores the generated workbooks for download.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	opts := h.requestOptions(r)

	results := make([]fileResult, len(files))
	var batch []service.BatchFile
	var batchIdx []int

	for i, fh := range files {
		ext := filepath.Ext(fh.Filename)
		if !workbook.SupportedExtension(ext) {
			results[i] = failure(fh.Filename, "invalid file format")
			continue
		}

		g, err := h.loadUpload(fh)
		if err != nil {
			h.logger.Warn("failed to load upload",
				slog.String("file", fh.Filename),
				slog.Any("error", err))
			results[i] = failure(fh.Filename, err.Error())
			continue
		}

		batch = append(batch, service.BatchFile{FileName: fh.Filename, Grid: g})
		batchIdx = append(batchIdx, i)
	}

	for j, res := range h.svc.TransformBatch(r.Context(), batch, opts) {
		i := batchIdx[j]
		results[i] = fileResult{Result: res}
		if !res.Success {
			continue
		}

		outputFile := "standardized_" + filepath.Base(batch[j].FileName)
		if !strings.HasSuffix(strings.ToLower(outputFile), ".xlsx") {
			outputFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".xlsx"
		}

		if err := h.writeOutput(outputFile, res, opts); err != nil {
			h.logger.Error("failed to generate standardized file",
				slog.String("file", batch[j].FileName),
				slog.Any("error", err))
			results[i] = failure(batch[j].FileName, "failed to generate standardized file")
			continue
		}

		results[i].OutputFile = outputFile
		results[i].DownloadReady = true
	}

	resp := transformResponse{Success: true, Results: results}
	for _, res := range results {
		if res.Success {
			resp.TotalProcessed++
			filesProcessed.Inc()
		} else {
			resp.TotalFailed++
			filesFailed.Inc()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// loadUpload persists one uploaded file and reads it back as a grid. The
// stored copy is removed once the grid is in memory; only generated output
// stays in the store.
func (h *Handler) loadUpload(fh *multipart.FileHeader) (grid.Grid, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	stored, err := h.store.Save(fh.Filename, f)
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.store.Remove(stored) }()

	path, err := h.store.Path(stored)
	if err != nil {
		return nil, err
	}
	return workbook.Load(path)
}

func (h *Handler) requestOptions(r *http.Request) service.Options {
	opts := h.defaults
	if v := r.FormValue("date_format"); v != "" {
		opts.DateFormat = v
	}
	if v := r.FormValue("include_metadata"); v != "" {
		opts.IncludeMetadata = strings.EqualFold(v, "true")
	}
	return opts
}

// writeOutput projects a successful result into a workbook and stores it.
func (h *Handler) writeOutput(name string, res service.Result, opts service.Options) error {
	var info extract.AccountInfo
	if res.AccountInfo != nil {
		info = *res.AccountInfo
	}
	processedAt := ""
	if res.Metadata != nil {
		processedAt = res.Metadata.ProcessedAt
	}

	tables := project.Project(project.Input{
		Transactions:   res.Transactions,
		AccountInfo:    info,
		OriginalFormat: res.OriginalFormat,
		ProcessedAt:    processedAt,
	}, opts.IncludeMetadata)

	var buf bytes.Buffer
	if err := workbook.Write(tables, &buf); err != nil {
		return err
	}
	return h.store.Put(name, buf.Bytes())
}

// Preview returns the first transactions of a generated workbook plus its
// re-read account metadata.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")

	path, err := h.store.Path(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	preview, err := workbook.ReadPreview(path, previewRows)
	if err != nil {
		h.logger.Error("failed to read preview",
			slog.String("file", name),
			slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("could not read file: %s", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"headers":         preview.Headers,
		"data":            preview.Rows,
		"total_records":   preview.TotalRecords,
		"preview_records": preview.PreviewRecords,
		"account_info": map[string]string{
			"account_number": preview.AccountNumber,
			"account_name":   preview.AccountName,
		},
		"format":     preview.Format,
		"date_range": preview.DateRange,
	})
}

// Download serves a generated workbook as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")

	path, err := h.store.Path(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// Health reports service liveness and the accepted upload formats.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"supported_formats": []string{"xlsx", "xlsm", "xltx", "xltm", "csv"},
		"upload_folder":     h.store.Dir(),
	})
}

func failure(fileName, msg string) fileResult {
	return fileResult{Result: service.Result{
		Success:  false,
		Error:    msg,
		FileName: fileName,
	}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
