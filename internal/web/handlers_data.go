package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/racechart/internal/core"
	"github.com/JonMunkholm/racechart/internal/logging"
	"github.com/JonMunkholm/racechart/internal/render"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file size limit.
const multipartOverhead = 64 << 10

type addRowRequest struct {
	Label string `json:"label" jsonschema_description:"Dimension name"`
	// Values is either a JSON array of numbers or the form text "1.7, 1.8, ...".
	Values json.RawMessage `json:"values" jsonschema_description:"One value per step: number array or comma-separated text"`
}

type importResponse struct {
	Frame  core.Frame        `json:"frame"`
	Report core.DecodeReport `json:"report"`
}

// handleImport replaces the session's table with an uploaded CSV file.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	logger := logging.WithFields(r.Context(), "filename", header.Filename, "size", header.Size)
	logger.Info("import started")

	frame, report, err := s.service.Import(r.Context(), sess.ID(), file, header.Size)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logger.Info("import completed",
		"rows", report.RowsKept,
		"skipped", len(report.Skipped),
		"zeroed_cells", report.ZeroedCells,
	)
	writeJSON(w, http.StatusOK, importResponse{Frame: frame, Report: report})
}

// handlePreviewImport reports what an import of the uploaded file would keep
// and skip. The session is not changed.
func (s *Server) handlePreviewImport(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	resp, err := s.service.PreviewImport(r.Context(), file, header.Size)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("import previewed",
		"filename", header.Filename,
		"rows", resp.Summary.KeptRows,
		"skipped", resp.Summary.SkippedRows,
	)
	writeJSON(w, http.StatusOK, resp)
}

// formFile pulls the "file" part out of a multipart upload, writing the error
// response itself when there is no usable file.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
			err = fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		} else {
			err = fmt.Errorf("%w: %v", core.ErrNoFile, err)
		}
		s.respondError(w, r, err, statusFor(err))
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		err = fmt.Errorf("%w: %v", core.ErrNoFile, err)
		s.respondError(w, r, err, statusFor(err))
		return nil, nil, false
	}

	if !looksLikeCSV(header.Filename, header.Header.Get("Content-Type")) {
		file.Close()
		r.MultipartForm.RemoveAll()
		err := fmt.Errorf("%w: %q is not a CSV file", core.ErrNoFile, header.Filename)
		s.respondError(w, r, err, statusFor(err))
		return nil, nil, false
	}

	return file, header, true
}

func looksLikeCSV(filename, contentType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return true
	}
	return strings.HasPrefix(contentType, "text/csv") || strings.HasPrefix(contentType, "text/plain")
}

// handleExport downloads the session's table in import format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var buf bytes.Buffer
	if err := sess.ExportCSV(&buf); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="race-data.csv"`)
	w.Write(buf.Bytes())
}

// handleChartPNG renders the current frame as a PNG. ?width= and ?height=
// are clamped to 200-2000.
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	opts := render.ChartOptions{
		Width:  dimensionParam(r, "width", 800),
		Height: dimensionParam(r, "height", 480),
	}

	var buf bytes.Buffer
	if err := render.FramePNG(&buf, sess.Frame(), opts); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// dimensionParam parses an image dimension query parameter.
func dimensionParam(r *http.Request, name string, defaultVal int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return defaultVal
	}
	return min(max(v, 200), 2000)
}

// handleAddRow appends a row from either a number array or form text.
func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req addRowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var (
		frame core.Frame
		err   error
		text  string
		nums  []float64
	)
	switch {
	case json.Unmarshal(req.Values, &text) == nil:
		frame, err = sess.AddRowText(req.Label, text)
	case json.Unmarshal(req.Values, &nums) == nil:
		frame, err = sess.AddRow(req.Label, nums)
	default:
		err = fmt.Errorf("add row: values must be text or a number array: %w", core.ErrInvalidInput)
	}
	s.respondFrame(w, r, http.StatusCreated, frame, err)
}

// handleDeleteRow removes the row at {index} in table order.
func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		err = fmt.Errorf("row index %q: %w", chi.URLParam(r, "index"), core.ErrIndexOutOfRange)
		s.respondError(w, r, err, statusFor(err))
		return
	}

	frame, err := sess.RemoveRow(index)
	s.respondFrame(w, r, http.StatusOK, frame, err)
}
