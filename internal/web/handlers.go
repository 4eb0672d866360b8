package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/JonMunkholm/racechart/internal/core"
	"github.com/JonMunkholm/racechart/internal/web/templates"
)

// TemplateFilename is the download name of the import template.
const TemplateFilename = "sample-data-template.csv"

// maxJSONBody caps small JSON request bodies.
const maxJSONBody = 64 << 10

// handlePage starts a session and renders the race page for it.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sampleKey := r.URL.Query().Get("sample")
	if sampleKey == "" {
		sampleKey = s.cfg.Playback.DefaultSample
	}

	sess, err := s.service.CreateSession(r.Context(), sampleKey)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Page(templates.PageParams{
		Frame:         sess.Frame(),
		Samples:       core.Samples(),
		SampleKey:     sampleKey,
		MaxImportSize: s.cfg.Import.MaxFileSize,
	}).Render(r.Context(), w)
}

// handleHealth reports liveness and load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"sessions":       s.service.SessionCount(),
		"imports_active": s.service.ImportsActive(),
	})
}

// handleListSamples returns the built-in datasets.
func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Samples())
}

// handleDownloadTemplate serves a sample in import format.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("sample")
	if key == "" {
		key = s.cfg.Playback.DefaultSample
	}

	def, err := core.GetSample(key)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, TemplateFilename))
	w.Write([]byte(def.Template()))
}

// handleSchema describes the API payloads as JSON Schema.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"frame":         generateSchema[core.Frame](),
		"decode_report": generateSchema[core.DecodeReport](),
		"sample_info":   generateSchema[core.SampleInfo](),
		"add_row":       generateSchema[addRowRequest](),
		"speed":         generateSchema[speedRequest](),
		"metric":        generateSchema[metricRequest](),
		"import":        generateSchema[importResponse](),
		"error":         generateSchema[ErrorResponse](),
	})
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// decodeJSON reads a small JSON body into v. Malformed bodies are input
// errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %v: %w", err, core.ErrInvalidInput)
	}
	return nil
}

// respondFrame writes the frame a session operation returned, or its error.
func (s *Server) respondFrame(w http.ResponseWriter, r *http.Request, status int, frame core.Frame, err error) {
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, status, frame)
}
