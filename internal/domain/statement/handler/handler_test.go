package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/profile"
	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/service"
	"github.com/FACorreiaa/bank-statement-standardizer/pkg/storage"
)

const statementCSV = `Statement of Account,,,,
JOHN DOE ENTERPRISES,,,,
Account No:,1021040521,,,
Opening Balance,"50,000.00",,,
,,,,
Transaction Date,Description,Debit,Credit,Balance
02/01/2024,POS PURCHASE,1500.00,,48500.00
03/01/2024,SALARY PAYMENT,,250000.00,298500.00
`

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	store, err := storage.New(t.TempDir(), 1<<20)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	svc := service.New(profile.Builtin(), logger)
	h := New(svc, store, service.DefaultOptions(), 1<<20, logger)

	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func uploadRequest(t *testing.T, fileName, content string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transform", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doJSON(t *testing.T, mux *http.ServeMux, req *http.Request, out any) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestTransformEndpoint(t *testing.T) {
	t.Run("standardizes an uploaded statement", func(t *testing.T) {
		mux := newTestMux(t)

		var resp transformResponse
		rec := doJSON(t, mux, uploadRequest(t, "stmt.csv", statementCSV, nil), &resp)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.TotalProcessed)
		assert.Equal(t, 0, resp.TotalFailed)
		require.Len(t, resp.Results, 1)

		res := resp.Results[0]
		assert.True(t, res.Result.Success)
		assert.Equal(t, 2, res.RecordsProcessed)
		assert.Equal(t, "standardized_stmt.xlsx", res.OutputFile)
		assert.True(t, res.DownloadReady)
		require.NotNil(t, res.AccountInfo)
		assert.Equal(t, "1021040521", res.AccountInfo.AccountNumber)
	})

	t.Run("rejects requests without files", func(t *testing.T) {
		mux := newTestMux(t)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("date_format", "DD/MM/YYYY"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/transform", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		var resp map[string]any
		rec := doJSON(t, mux, req, &resp)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "no files uploaded", resp["error"])
	})

	t.Run("reports unsupported extensions per file", func(t *testing.T) {
		mux := newTestMux(t)

		var resp transformResponse
		rec := doJSON(t, mux, uploadRequest(t, "stmt.pdf", "not a spreadsheet", nil), &resp)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, resp.TotalFailed)
		require.Len(t, resp.Results, 1)
		assert.False(t, resp.Results[0].Result.Success)
		assert.Equal(t, "invalid file format", resp.Results[0].Error)
		assert.Equal(t, "stmt.pdf", resp.Results[0].FileName)
	})

	t.Run("honors date format override", func(t *testing.T) {
		mux := newTestMux(t)

		var resp transformResponse
		doJSON(t, mux, uploadRequest(t, "stmt.csv", statementCSV, map[string]string{
			"date_format": "YYYY-MM-DD",
		}), &resp)

		require.Len(t, resp.Results, 1)
		require.NotEmpty(t, resp.Results[0].Transactions)
		assert.Equal(t, "2024-01-02", resp.Results[0].Transactions[0][profile.TranDate])
	})
}

func TestPreviewAndDownloadEndpoints(t *testing.T) {
	mux := newTestMux(t)

	var resp transformResponse
	doJSON(t, mux, uploadRequest(t, "stmt.csv", statementCSV, nil), &resp)
	require.Len(t, resp.Results, 1)
	require.True(t, resp.Results[0].Result.Success)
	output := resp.Results[0].OutputFile

	t.Run("preview returns transactions and account info", func(t *testing.T) {
		var preview struct {
			Success      bool                `json:"success"`
			Headers      []string            `json:"headers"`
			Data         []map[string]string `json:"data"`
			TotalRecords int                 `json:"total_records"`
			AccountInfo  map[string]string   `json:"account_info"`
			DateRange    string              `json:"date_range"`
		}
		rec := doJSON(t, mux, httptest.NewRequest(http.MethodGet, "/api/preview/"+output, nil), &preview)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, preview.Success)
		want := make([]string, len(profile.StandardFields))
		for i, f := range profile.StandardFields {
			want[i] = string(f)
		}
		assert.Equal(t, want, preview.Headers)
		assert.Equal(t, 2, preview.TotalRecords)
		assert.Equal(t, "1021040521", preview.AccountInfo["account_number"])
		assert.Equal(t, "02/01/2024 to 03/01/2024", preview.DateRange)
	})

	t.Run("preview of missing file is 404", func(t *testing.T) {
		rec := doJSON(t, mux, httptest.NewRequest(http.MethodGet, "/api/preview/nope.xlsx", nil), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("download serves the workbook as an attachment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/"+output, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), output)
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("download of missing file is 404", func(t *testing.T) {
		rec := doJSON(t, mux, httptest.NewRequest(http.MethodGet, "/api/download/nope.xlsx", nil), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestMux(t)

	var resp map[string]any
	rec := doJSON(t, mux, httptest.NewRequest(http.MethodGet, "/api/health", nil), &resp)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", resp["status"])
}
