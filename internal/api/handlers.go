package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/MrWong99/wordsmith/internal/batch"
	"github.com/MrWong99/wordsmith/internal/document"
	"github.com/MrWong99/wordsmith/internal/gateway"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// ── operations ─────────────────────────────────────────────────────────────

type operationInfo struct {
	Name   analysis.Operation `json:"name"`
	Title  string             `json:"title"`
	Shape  analysis.Shape     `json:"shape"`
	Remote bool               `json:"remote"`
}

func (h *Handler) handleOperations(w http.ResponseWriter, _ *http.Request) {
	ops := analysis.Operations()
	out := make([]operationInfo, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationInfo{Name: op, Title: op.Title(), Shape: op.Shape(), Remote: op.Remote()})
	}
	writeJSON(w, http.StatusOK, out)
}

// ── run / analyze ──────────────────────────────────────────────────────────

type runRequest struct {
	Operation string          `json:"operation"`
	Text      string          `json:"text"`
	Params    analysis.Params `json:"params"`
}

type runResponse struct {
	Result       analysis.Result       `json:"result"`
	Notification analysis.Notification `json:"notification"`
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	op, err := analysis.ParseOperation(req.Operation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, note := h.runner.Resolve(r.Context(), op, req.Text, req.Params)
	writeJSON(w, http.StatusOK, runResponse{Result: res, Notification: note})
}

type analyzeRequest struct {
	Operations []string        `json:"operations"`
	Text       string          `json:"text"`
	Params     analysis.Params `json:"params"`
}

type analyzeResponse struct {
	Results []runResponse `json:"results"`
}

// handleAnalyze resolves several operations on one text concurrently.
// Results keep the request order.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Operations) == 0 {
		writeError(w, http.StatusBadRequest, "operations must not be empty")
		return
	}
	ops := make([]analysis.Operation, len(req.Operations))
	for i, name := range req.Operations {
		op, err := analysis.ParseOperation(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ops[i] = op
	}

	results := make([]runResponse, len(ops))
	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Go(func() {
			res, note := h.runner.Resolve(r.Context(), op, req.Text, req.Params)
			results[i] = runResponse{Result: res, Notification: note}
		})
	}
	wg.Wait()
	writeJSON(w, http.StatusOK, analyzeResponse{Results: results})
}

type statisticsRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	var req statisticsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.runner.Statistics(req.Text))
}

// ── batch ──────────────────────────────────────────────────────────────────

type batchResponse struct {
	Rows []batch.Row `json:"rows"`
}

// handleBatch analyzes the "files" parts of a multipart upload. With
// ?format=csv the rows are returned as a CSV attachment.
func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBody)
	if err := r.ParseMultipartForm(maxBatchBody); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, `no files in form field "files"`)
		return
	}
	files := make([]batch.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("open %s: %v", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("read %s: %v", fh.Filename, err))
			return
		}
		files = append(files, batch.File{Name: fh.Filename, Content: data})
	}

	rows := h.batch.Process(r.Context(), files)
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="batch-analysis.csv"`)
		if err := batch.WriteCSV(w, rows); err != nil {
			observe.Logger(r.Context()).Warn("batch csv write failed", "err", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Rows: rows})
}

// ── documents ──────────────────────────────────────────────────────────────

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := h.docs.List(r.Context(), document.Query{
		Search: q.Get("search"),
		Filter: q.Get("filter"),
		Sort:   q.Get("sort"),
	})
	if err != nil {
		storeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []document.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

type uploadRequest struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.docs.Upload(r.Context(), document.Upload{
		Name:    req.Name,
		Type:    req.Type,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if errors.Is(err, document.ErrEmptyName) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

var exportFilenames = map[string]string{
	document.FormatJSON:    "documents-export.json",
	document.FormatCSV:     "documents-export.csv",
	document.FormatSummary: "documents-summary.txt",
}

// handleExportDocuments renders every document that matches the list query
// parameters in the requested format (json by default).
func (h *Handler) handleExportDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = document.FormatJSON
	}
	filename, ok := exportFilenames[format]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}
	docs, err := h.docs.List(r.Context(), document.Query{
		Search: q.Get("search"),
		Filter: q.Get("filter"),
		Sort:   q.Get("sort"),
	})
	if err != nil {
		storeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", document.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := document.Export(w, docs, format); err != nil {
		observe.Logger(r.Context()).Warn("document export failed", "format", format, "err", err)
	}
}

// ── status / credentials ───────────────────────────────────────────────────

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checker.Status(r.Context()))
}

type credentialsRequest struct {
	Key     string `json:"key"`
	Persist bool   `json:"persist"`
}

type credentialsResponse struct {
	Check gateway.KeyCheck `json:"check"`
	Saved bool             `json:"saved"`
}

// handleCredentials tests a candidate key and, when asked, persists it. A
// failing key is reported in the check result, not as an HTTP error.
func (h *Handler) handleCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		writeError(w, http.StatusBadRequest, "key must not be empty")
		return
	}

	check, testErr := h.checker.TestKey(r.Context(), req.Key)
	resp := credentialsResponse{Check: check}
	if testErr != nil || !req.Persist {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if h.keys == nil {
		writeError(w, http.StatusBadRequest, "key persistence is not configured")
		return
	}

	h.saveMu.Lock()
	err := h.keys.Save(req.Key)
	if err == nil && h.onKeySaved != nil {
		h.onKeySaved()
	}
	h.saveMu.Unlock()
	if err != nil {
		observe.Logger(r.Context()).Error("save api key", "err", err)
		writeError(w, http.StatusInternalServerError, "could not save key")
		return
	}
	observe.Logger(r.Context()).Info("api key saved")
	resp.Saved = true
	writeJSON(w, http.StatusOK, resp)
}
