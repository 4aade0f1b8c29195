package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lanewise/snapgraph/pkg/errors"
	"github.com/lanewise/snapgraph/pkg/layout"
)

// Store is a file-backed workspace store. The workspace is held in memory
// and written back as indented JSON after every mutation, so the file stays
// inspectable and survives crashes between operations.
type Store struct {
	mu   sync.RWMutex
	path string
	ws   *Workspace
}

// DefaultPath returns the workspace file under the user's config directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeWorkspace, err, "get home dir")
	}
	return filepath.Join(home, ".config", "snapgraph", "workspace.json"), nil
}

// Open loads the workspace at path, or creates a fresh one named after the
// file if none exists yet. The fresh workspace is not written until the
// first mutation.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWorkspace, err, "create workspace dir")
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		s.ws = New(name)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeWorkspace, err, "read workspace %s", path)
	default:
		var ws Workspace
		if err := json.Unmarshal(data, &ws); err != nil {
			return nil, errors.Wrap(errors.ErrCodeWorkspace, err, "parse workspace %s", path)
		}
		if ws.Snapshots == nil {
			ws.Snapshots = make(map[string]*Record)
		}
		if len(ws.Timelines) == 0 {
			fresh := New(ws.Name)
			ws.Timelines = fresh.Timelines
			ws.TimelineOrder = fresh.TimelineOrder
			ws.CurrentTimeline = MainTimelineID
		}
		s.ws = &ws
	}
	return s, nil
}

// Path returns the workspace file path.
func (s *Store) Path() string { return s.path }

// Name returns the workspace name.
func (s *Store) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Name
}

// Feed returns the layout engine input for the workspace's present state.
func (s *Store) Feed() layout.Input {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Feed()
}

// Versions lists the current timeline's history newest-first.
func (s *Store) Versions() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Versions()
}

// Tips returns each timeline's tip record in timeline creation order.
func (s *Store) Tips() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Tips()
}

// Timelines returns all timelines in creation order.
func (s *Store) Timelines() []Timeline {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Timeline, 0, len(s.ws.TimelineOrder))
	for _, id := range s.ws.TimelineOrder {
		if tl, ok := s.ws.Timelines[id]; ok {
			out = append(out, *tl)
		}
	}
	return out
}

// Snapshot returns the record with the given id.
func (s *Store) Snapshot(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Snapshot(id)
}

// Current returns the snapshot the workspace content is based on.
func (s *Store) Current() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Current()
}

// Dirty reports whether the workspace has unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Dirty
}

// UpdatedAt returns the time of the last persisted mutation. Callers use it
// as a revision stamp for cache keys.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.UpdatedAt
}

// Commit appends a snapshot with the given message and payload.
//
// The commit extends the timeline whose tip is the base snapshot (the
// viewed one when previewing, the current one otherwise). When the base is
// not a tip, the commit forks a fresh timeline first, so existing history
// is never abandoned. The new snapshot becomes current and clears the
// dirty and preview state.
func (s *Store) Commit(ctx context.Context, message string, payload json.RawMessage) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(message, "", payload)
}

// SaveWithLabel commits the payload as a named version. The label doubles
// as the snapshot message.
func (s *Store) SaveWithLabel(ctx context.Context, label string, payload json.RawMessage) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(label, label, payload)
}

// Restore appends a new snapshot carrying the payload of an old one, and
// makes it current. History is never rewritten: restores stack on top.
func (s *Store) Restore(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.ws.Snapshots[id]
	if !ok {
		return Record{}, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s", id)
	}

	// A restore always lands on the current timeline, not on a preview fork.
	s.ws.ViewingID = ""

	message := fmt.Sprintf("Restored from version %s", ShortID(id))
	return s.commitLocked(message, "", rec.Payload)
}

// Preview marks a snapshot as being viewed without moving the current one.
func (s *Store) Preview(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.ws.Snapshots[id]
	if !ok {
		return Record{}, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s", id)
	}

	s.ws.ViewingID = id
	if err := s.persistLocked(); err != nil {
		return Record{}, err
	}
	return *rec, nil
}

// ClearPreview returns the view to the current snapshot.
func (s *Store) ClearPreview(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ws.ViewingID = ""
	return s.persistLocked()
}

// Activate makes a snapshot current: the workspace content switches to it,
// the current timeline follows the snapshot's own, and any preview or dirty
// state is dropped. Returns whether the snapshot was already current.
func (s *Store) Activate(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.ws.Snapshots[id]
	if !ok {
		return false, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s", id)
	}

	wasCurrent := s.ws.CurrentID == id
	s.ws.CurrentID = id
	s.ws.CurrentTimeline = rec.TimelineID
	s.ws.ViewingID = ""
	s.ws.Dirty = false

	if err := s.persistLocked(); err != nil {
		return wasCurrent, err
	}
	return wasCurrent, nil
}

// MarkDirty records whether the workspace has unsaved changes.
func (s *Store) MarkDirty(ctx context.Context, dirty bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ws.Dirty = dirty
	return s.persistLocked()
}

// Fork creates a new timeline rooted at the given snapshot and switches to
// it, so the next commit lands on the fork. Until that commit, the fork's
// tip stays the shared snapshot and the graph shows it as an alias.
func (s *Store) Fork(ctx context.Context, fromID, label string) (Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ws.Snapshots[fromID]; !ok {
		return Timeline{}, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s", fromID)
	}

	tl := s.forkLocked(fromID, label)
	s.ws.CurrentTimeline = tl.ID
	s.ws.CurrentID = fromID
	s.ws.ViewingID = ""

	if err := s.persistLocked(); err != nil {
		return Timeline{}, err
	}
	return *tl, nil
}

func (s *Store) commitLocked(message, label string, payload json.RawMessage) (Record, error) {
	w := s.ws

	baseID := w.CurrentID
	if w.ViewingPast() {
		baseID = w.ViewingID
	}

	if baseID != "" {
		base, ok := w.Snapshots[baseID]
		if !ok {
			return Record{}, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s", baseID)
		}
		curTL := w.Timelines[w.CurrentTimeline]
		baseTL := w.Timelines[base.TimelineID]
		switch {
		case curTL != nil && curTL.TipID == base.ID:
			// Already positioned on a tip (a fresh fork included).
		case baseTL != nil && baseTL.TipID == base.ID:
			w.CurrentTimeline = baseTL.ID
		default:
			fork := s.forkLocked(base.ID, "Fork of "+ShortID(base.ID))
			w.CurrentTimeline = fork.ID
		}
		w.CurrentID = base.ID
		w.ViewingID = ""
	}

	rec := &Record{
		ID:         uuid.NewString(),
		Message:    message,
		Label:      label,
		Timestamp:  float64(time.Now().UnixMilli()),
		TimelineID: w.CurrentTimeline,
		Payload:    payload,
	}
	if w.CurrentID != "" {
		rec.ParentIDs = []string{w.CurrentID}
	}

	w.Snapshots[rec.ID] = rec
	w.Timelines[w.CurrentTimeline].TipID = rec.ID
	w.CurrentID = rec.ID
	w.Dirty = false
	w.ViewingID = ""

	if err := s.persistLocked(); err != nil {
		return Record{}, err
	}
	return *rec, nil
}

func (s *Store) forkLocked(fromID, label string) *Timeline {
	id := "tl-" + ShortID(uuid.NewString())
	tl := &Timeline{
		ID:        id,
		Label:     label,
		LaneHint:  "lane-" + id,
		TipID:     fromID,
		CreatedAt: time.Now(),
	}
	s.ws.addTimeline(tl)
	return tl
}

func (s *Store) persistLocked() error {
	s.ws.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s.ws, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWorkspace, err, "marshal workspace")
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeWorkspace, err, "write workspace %s", s.path)
	}
	return nil
}
