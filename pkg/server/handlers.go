package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lanewise/snapgraph/pkg/cache"
	"github.com/lanewise/snapgraph/pkg/errors"
	"github.com/lanewise/snapgraph/pkg/history"
	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/pipeline"
)

// maxBodyBytes caps request bodies. Snapshot payloads are document text;
// anything past this is a client bug.
const maxBodyBytes = 1 << 20

// workspaceResponse is the body for GET /api/workspace.
type workspaceResponse struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CurrentID string    `json:"current_id,omitempty"`
	Dirty     bool      `json:"dirty"`
	Versions  int       `json:"versions"`
	Timelines int       `json:"timelines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// versionInfo is a history.Record without its payload. Listings stay light;
// GET /api/snapshots/{id} serves the full record.
type versionInfo struct {
	ID         string   `json:"id"`
	ShortID    string   `json:"short_id"`
	Message    string   `json:"message,omitempty"`
	Label      string   `json:"label,omitempty"`
	Timestamp  float64  `json:"timestamp"`
	TimelineID string   `json:"timeline_id"`
	ParentIDs  []string `json:"parent_ids,omitempty"`
	Current    bool     `json:"current,omitempty"`
}

// historyResponse is the body for GET /api/history.
type historyResponse struct {
	Versions  []versionInfo      `json:"versions"`
	Timelines []history.Timeline `json:"timelines"`
}

// commitRequest is the body for POST /api/commit. A non-empty label saves a
// named version; otherwise message becomes the snapshot message.
type commitRequest struct {
	Message string          `json:"message"`
	Label   string          `json:"label,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// forkRequest is the body for POST /api/timelines.
type forkRequest struct {
	FromID string `json:"from_id"`
	Label  string `json:"label,omitempty"`
}

// activateResponse is the body for POST /api/snapshots/{id}/activate.
type activateResponse struct {
	ID         string `json:"id"`
	WasCurrent bool   `json:"was_current"`
}

// dirtyRequest is the body for POST /api/workspace/dirty. Editors flag
// unsaved changes here so the graph shows the uncommitted row.
type dirtyRequest struct {
	Dirty bool `json:"dirty"`
}

// errorResponse is the body for every non-2xx response.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func versionOf(rec history.Record, current bool) versionInfo {
	return versionInfo{
		ID:         rec.ID,
		ShortID:    history.ShortID(rec.ID),
		Message:    rec.Message,
		Label:      rec.Label,
		Timestamp:  rec.Timestamp,
		TimelineID: rec.TimelineID,
		ParentIDs:  rec.ParentIDs,
		Current:    current,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	cur, _ := s.store.Current()
	writeJSON(w, http.StatusOK, workspaceResponse{
		Name:      s.store.Name(),
		Path:      s.store.Path(),
		CurrentID: cur.ID,
		Dirty:     s.store.Dirty(),
		Versions:  len(s.store.Versions()),
		Timelines: len(s.store.Timelines()),
		UpdatedAt: s.store.UpdatedAt(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	cur, _ := s.store.Current()
	recs := s.store.Versions()

	versions := make([]versionInfo, 0, len(recs))
	for _, rec := range recs {
		versions = append(versions, versionOf(rec, rec.ID == cur.ID))
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Versions:  versions,
		Timelines: s.store.Timelines(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.notModified(w, r) {
		return
	}

	res, _, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), s.store.Feed(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := layout.Marshal(res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	if s.notModified(w, r) {
		return
	}

	res, _, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), s.store.Feed(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), res, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Message == "" && req.Label == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "message or label is required"))
		return
	}

	var (
		rec history.Record
		err error
	)
	if req.Label != "" {
		rec, err = s.store.SaveWithLabel(r.Context(), req.Label, req.Payload)
	} else {
		rec, err = s.store.Commit(r.Context(), req.Message, req.Payload)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, versionOf(rec, true))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.store.Snapshot(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wasCurrent, err := s.store.Activate(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activateResponse{ID: id, WasCurrent: wasCurrent})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, versionOf(rec, true))
}

// handlePreview returns the full record, payload included, since the client
// previews by showing the old content.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleClearPreview(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearPreview(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFork(w http.ResponseWriter, r *http.Request) {
	var req forkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.FromID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "from_id is required"))
		return
	}

	tl, err := s.store.Fork(r.Context(), req.FromID, req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tl)
}

func (s *Server) handleDirty(w http.ResponseWriter, r *http.Request) {
	var req dirtyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.MarkDirty(r.Context(), req.Dirty); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestOptions clones the base options and applies per-request query
// parameters. Unknown values fail fast so a typo gets a 400 instead of a
// render of the wrong thing.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	q := r.URL.Query()

	if engine := q.Get("engine"); engine != "" {
		if err := pipeline.ValidateEngine(engine); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "engine parameter")
		}
		opts.Engine = engine
	}
	if raw := q.Get("labels"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "labels parameter: %q is not a boolean", raw)
		}
		opts.Labels = v
	}
	if raw := q.Get("background"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "background parameter: %q is not a boolean", raw)
		}
		opts.Background = v
	}

	return opts, nil
}

// revision stamps the workspace state for conditional GETs. Every persisted
// mutation bumps Store.UpdatedAt, so the tag changes exactly when the graph
// can. Query parameters are folded in because they select the variant.
func (s *Server) revision(r *http.Request) string {
	rev := s.runner.Keyer.FeedKey(s.store.Path(), cache.FeedKeyOpts{
		UpdatedAt: s.store.UpdatedAt().UnixNano(),
	})
	if q := r.URL.RawQuery; q != "" {
		rev = cache.Hash([]byte(rev + "?" + q))
	}
	return `"` + rev + `"`
}

// notModified sets the ETag and answers 304 when the client already holds
// the current revision.
func (s *Server) notModified(w http.ResponseWriter, r *http.Request) bool {
	tag := s.revision(r)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeSnapshotNotFound, errors.ErrCodeTimelineNotFound,
		errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTimestamp,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidTheme,
		errors.ErrCodeInvalidPath, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
