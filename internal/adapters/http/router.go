package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
	"github.com/TomasMBBrito/Projeto-DAE/internal/observability/metrics"
)

const serviceName = "api"

// Router exposes the publication pipeline over HTTP. Authentication happens
// upstream; the gateway forwards the caller identity in X-User.
type Router struct {
	ingestUC       ports.PublicationIngestor
	readUC         ports.PublicationReader
	editUC         ports.PublicationEditor
	metrics        *metrics.HTTPServerMetrics
	maxUploadBytes int64
}

func NewRouter(
	ingestUC ports.PublicationIngestor,
	readUC ports.PublicationReader,
	editUC ports.PublicationEditor,
	m *metrics.HTTPServerMetrics,
	maxUploadBytes int64,
) *Router {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}
	return &Router{
		ingestUC:       ingestUC,
		readUC:         readUC,
		editUC:         editUC,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/publications", rt.publications)
	mux.HandleFunc("/v1/publications/", rt.publicationByID)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) publications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.createPublication(w, r)
	case http.MethodGet:
		rt.listPublications(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) createPublication(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable file upload"})
		return
	}

	pubDate, err := parseDate(r.FormValue("publicationDate"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "publicationDate must be YYYY-MM-DD"})
		return
	}

	pub, err := rt.ingestUC.Ingest(r.Context(), ports.IngestRequest{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("summary"),
		ScientificArea:  r.FormValue("scientificArea"),
		PublicationDate: pubDate,
		Authors:         parseList(r.FormValue("authors")),
		TagIDs:          parseIDList(r.FormValue("tagIds")),
		Submitter:       actor,
		FileName:        fileHeader.Filename,
		FileBytes:       fileBytes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordIngest(serviceName, string(pub.SummaryState))
	}

	// 201 when the submitter supplied a description, 202 while the summary
	// is being generated in the background.
	switch pub.SummaryState {
	case domain.SummaryNotNeeded:
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":     pub.ID,
			"status": "completed",
		})
	case domain.SummaryFailed:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"id":          pub.ID,
			"status":      "failed",
			"description": pub.Description,
		})
	default:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"id":          pub.ID,
			"status":      "processing",
			"description": pub.Description,
		})
	}
}

func (rt *Router) listPublications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	pubs, err := rt.readUC.List(r.Context(), actor, r.URL.Query().Get("q"), r.URL.Query().Get("area"))
	if err != nil {
		writeError(w, err)
		return
	}
	if pubs == nil {
		pubs = []domain.Publication{}
	}
	writeJSON(w, http.StatusOK, pubs)
}

func (rt *Router) publicationByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/publications/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid publication id"})
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		rt.getPublication(w, r, id, actor)
	case action == "audit" && r.Method == http.MethodGet:
		rt.getAuditTrail(w, r, id, actor)
	case action == "description" && r.Method == http.MethodPut:
		rt.updateDescription(w, r, id, actor)
	case action == "visibility" && r.Method == http.MethodPost:
		rt.setVisibility(w, r, id, actor)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) getAuditTrail(w http.ResponseWriter, r *http.Request, id int64, actor string) {
	records, err := rt.readUC.Trail(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (rt *Router) getPublication(w http.ResponseWriter, r *http.Request, id int64, actor string) {
	pub, err := rt.readUC.GetByID(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pub)
}

// updateDescription is the manual, synchronous path: a plain field update
// plus an audit record, never routed through the async pipeline.
func (rt *Router) updateDescription(w http.ResponseWriter, r *http.Request, id int64, actor string) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if err := rt.editUC.UpdateDescription(r.Context(), id, req.Description, actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (rt *Router) setVisibility(w http.ResponseWriter, r *http.Request, id int64, actor string) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if err := rt.editUC.SetVisibility(r.Context(), id, req.Visible, actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := strings.TrimSpace(r.Header.Get("X-User"))
	if actor == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing X-User header"})
		return "", false
	}
	return actor, true
}

func parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseList accepts both plain comma-separated values and the bracketed
// JSON-ish form the frontend sends.
func parseList(raw string) []string {
	raw = strings.NewReplacer("[", "", "]", "", `"`, "").Replace(raw)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDList(raw string) []int64 {
	var out []int64
	for _, p := range parseList(raw) {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
