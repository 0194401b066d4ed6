// ABOUTME: JSON handlers for automaton upload, lookup, lint, word processing, runs, renders, and reports.
// ABOUTME: Maps dfa failure kinds and store lookups to HTTP status codes.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/2389-research/automata/dfa"
	"github.com/2389-research/automata/dfa/validator"
	"github.com/2389-research/automata/render"
	"github.com/2389-research/automata/store"
	"github.com/go-chi/chi/v5"
)

// automatonResponse is the JSON shape of a stored automaton.
type automatonResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	CreatedAt   time.Time        `json:"created_at"`
	Automaton   *dfa.Automaton   `json:"automaton,omitempty"`
	Source      string           `json:"source,omitempty"`
	Diagnostics []diagnosticJSON `json:"diagnostics,omitempty"`
}

type diagnosticJSON struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	State    string `json:"state,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

type processRequest struct {
	Words []any `json:"words"`
	Trace bool  `json:"trace"`
}

type inlineProcessRequest struct {
	Automaton json.RawMessage `json:"automaton"`
	Words     []any           `json:"words"`
	Trace     bool            `json:"trace"`
}

type processResponse struct {
	RunID   string         `json:"run_id,omitempty"`
	Results dfa.Result     `json:"results"`
	Counts  map[string]int `json:"counts"`
	Traces  []dfa.Trace    `json:"traces,omitempty"`
}

type runResponse struct {
	ID          string     `json:"id"`
	AutomatonID string     `json:"automaton_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Accepted    int        `json:"accepted"`
	Rejected    int        `json:"rejected"`
	Invalid     int        `json:"invalid"`
	Results     dfa.Result `json:"results,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListAutomata()
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]automatonResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, automatonResponse{ID: rec.ID.String(), Name: rec.Name, CreatedAt: rec.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreate accepts the text format (default), JSON, or YAML depending on Content-Type.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeStatus(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	a, err := decodeAutomaton(r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "untitled"
	}
	rec, err := s.store.SaveAutomaton(name, a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Printf("automaton created id=%s name=%q states=%d rules=%d", rec.ID, rec.Name, len(a.States()), len(a.Rules()))

	writeJSON(w, http.StatusCreated, automatonResponse{
		ID:          rec.ID.String(),
		Name:        rec.Name,
		CreatedAt:   rec.CreatedAt,
		Automaton:   a,
		Diagnostics: toDiagnosticJSON(validator.Lint(a)),
	})
}

func decodeAutomaton(contentType string, body []byte) (*dfa.Automaton, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/json":
		return dfa.DecodeJSON(body)
	case "application/yaml", "application/x-yaml", "text/yaml":
		return dfa.DecodeYAML(body)
	default:
		return dfa.Parse(string(body))
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, a, ok := s.loadAutomaton(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, automatonResponse{
		ID:        rec.ID.String(),
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Automaton: a,
		Source:    dfa.Serialize(a),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "automatonID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteAutomaton(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	_, a, ok := s.loadAutomaton(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDiagnosticJSON(validator.Lint(a)))
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	rec, a, ok := s.loadAutomaton(w, r)
	if !ok {
		return
	}

	var req processRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	resp, err := s.evaluate(r, a, req.Words, req.Trace)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sum, err := s.store.RecordRun(rec.ID, resp.Results)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.RunID = sum.ID.String()
	log.Printf("run recorded id=%s automaton=%s words=%d accepted=%d rejected=%d invalid=%d",
		sum.ID, rec.ID, len(req.Words), sum.Accepted, sum.Rejected, sum.Invalid)

	writeJSON(w, http.StatusOK, resp)
}

// handleProcessInline evaluates words against an automaton carried in the
// request. The automaton is either a text-format JSON string or a definition
// object. Nothing is persisted.
func (s *Server) handleProcessInline(w http.ResponseWriter, r *http.Request) {
	var req inlineProcessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	a, err := inlineAutomaton(req.Automaton)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.evaluate(r, a, req.Words, req.Trace)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func inlineAutomaton(raw json.RawMessage) (*dfa.Automaton, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "" || trimmed == "null":
		return nil, &dfa.LoadError{Kind: dfa.ErrStructuralIntegrity, Reason: `missing field "automaton"`}
	case strings.HasPrefix(trimmed, `"`):
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, &dfa.LoadError{Kind: dfa.ErrMalformedStructure, Reason: "invalid automaton string", Err: err}
		}
		return dfa.Parse(text)
	case strings.HasPrefix(trimmed, "{"):
		return dfa.DecodeJSON(raw)
	default:
		return nil, &dfa.LoadError{Kind: dfa.ErrTypeMismatch, Reason: "automaton must be a string or an object"}
	}
}

func (s *Server) evaluate(r *http.Request, a *dfa.Automaton, values []any, withTrace bool) (*processResponse, error) {
	if values == nil {
		return nil, &dfa.LoadError{Kind: dfa.ErrTypeMismatch, Reason: `"words" must be a list`}
	}
	words, err := dfa.Words(values)
	if err != nil {
		return nil, err
	}
	result, err := dfa.ProcessParallel(r.Context(), a, words, s.workers)
	if err != nil {
		return nil, err
	}

	resp := &processResponse{
		Results: result,
		Counts: map[string]int{
			string(dfa.Accepted): result.Count(dfa.Accepted),
			string(dfa.Rejected): result.Count(dfa.Rejected),
			string(dfa.Invalid):  result.Count(dfa.Invalid),
		},
	}
	if withTrace {
		resp.Traces = make([]dfa.Trace, 0, len(words))
		for _, word := range words {
			resp.Traces = append(resp.Traces, a.Trace(word))
		}
	}
	return resp, nil
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := s.loadAutomaton(w, r)
	if !ok {
		return
	}
	runs, err := s.store.ListRuns(rec.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]runResponse, 0, len(runs))
	for _, sum := range runs {
		out = append(out, toRunResponse(sum, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	run, err := s.store.GetRun(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(run.RunSummary, run.Result))
}

var renderContentTypes = map[string]string{
	"dot": "text/vnd.graphviz; charset=utf-8",
	"svg": "image/svg+xml",
	"png": "image/png",
}

// handleRender draws the automaton; ?word= overlays that word's trace.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	_, a, ok := s.loadAutomaton(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "dot"
	}
	contentType, known := renderContentTypes[format]
	if !known {
		writeStatus(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	var trace *dfa.Trace
	if r.URL.Query().Has("word") {
		tr := a.Trace(r.URL.Query().Get("word"))
		trace = &tr
	}

	data, err := s.cache.Render(r.Context(), a, trace, format)
	if err != nil {
		log.Printf("render failed id=%s format=%s err=%v", RequestIDFrom(r.Context()), format, err)
		writeStatus(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>
`))

// handleReport renders the markdown report as HTML, including the latest run when one exists.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rec, a, ok := s.loadAutomaton(w, r)
	if !ok {
		return
	}

	var result dfa.Result
	runs, err := s.store.ListRuns(rec.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(runs) > 0 {
		run, err := s.store.GetRun(runs[len(runs)-1].ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result = run.Result
	}

	html, err := render.MarkdownToHTML(render.Markdown(rec.Name, a, validator.Lint(a), result))
	if err != nil {
		writeStatus(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := reportPage.Execute(w, map[string]any{"Title": rec.Name, "Body": template.HTML(html)}); err != nil {
		log.Printf("error rendering report id=%s: %v", rec.ID, err)
	}
}

// loadAutomaton resolves {automatonID} and writes the error response itself on failure.
func (s *Server) loadAutomaton(w http.ResponseWriter, r *http.Request) (store.AutomatonRecord, *dfa.Automaton, bool) {
	id, err := store.ParseID(chi.URLParam(r, "automatonID"))
	if err != nil {
		writeError(w, r, err)
		return store.AutomatonRecord{}, nil, false
	}
	rec, a, err := s.store.GetAutomaton(id)
	if err != nil {
		writeError(w, r, err)
		return store.AutomatonRecord{}, nil, false
	}
	return rec, a, true
}

func toRunResponse(sum store.RunSummary, result dfa.Result) runResponse {
	return runResponse{
		ID:          sum.ID.String(),
		AutomatonID: sum.AutomatonID.String(),
		CreatedAt:   sum.CreatedAt,
		Accepted:    sum.Accepted,
		Rejected:    sum.Rejected,
		Invalid:     sum.Invalid,
		Results:     result,
	}
}

func toDiagnosticJSON(diags []dfa.Diagnostic) []diagnosticJSON {
	out := make([]diagnosticJSON, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagnosticJSON{
			Severity: d.Severity,
			Rule:     d.Rule,
			Message:  d.Message,
			State:    d.State,
			Symbol:   d.Symbol,
		})
	}
	return out
}

// statusFor maps failure kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, dfa.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, dfa.ErrTypeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, dfa.ErrMalformedStructure), errors.Is(err, dfa.ErrStructuralIntegrity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("web error id=%s path=%s err=%v", RequestIDFrom(r.Context()), r.URL.Path, err)
	}
	writeStatus(w, status, err.Error())
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}
