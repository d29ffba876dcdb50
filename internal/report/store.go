package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	ErrNoReport       = errors.New("no report initialized")
	ErrUnknownSection = errors.New("unknown report section")
	ErrInvalidSection = errors.New("invalid section value")
	ErrSaveInProgress = errors.New("draft save already in progress")
	ErrSaveFailed     = errors.New("draft could not be saved")
	ErrReportChanged  = errors.New("a different report is open")
)

// Metadata travels with the report but is not itself a section.
type Metadata struct {
	FileName     string `json:"fileName"`
	SubmissionID string `json:"submissionId,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
	ProjectName  string `json:"projectName,omitempty"`
	Dirty        bool   `json:"-"`
}

// Submitted reports whether the remote service has accepted the report.
func (m Metadata) Submitted() bool {
	return strings.TrimSpace(m.SubmissionID) != ""
}

// MetadataPatch carries the metadata fields to overwrite; nil fields are kept.
type MetadataPatch struct {
	FileName     *string `json:"fileName,omitempty"`
	SubmissionID *string `json:"submissionId,omitempty"`
	ProjectID    *string `json:"projectId,omitempty"`
	ProjectName  *string `json:"projectName,omitempty"`
}

// Snapshot is a complete, detached copy of one report.
type Snapshot struct {
	Sections
	Metadata
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{Sections: s.Sections.Clone(), Metadata: s.Metadata}
}

// DraftSaver persists a snapshot under a file name. It reports success
// instead of failing; storage faults are the saver's to log.
type DraftSaver interface {
	SaveDraft(ctx context.Context, fileName string, snapshot Snapshot) bool
}

// Store holds the single report currently being edited. Editing screens
// address it one section at a time; sections never see each other.
type Store struct {
	drafts DraftSaver

	mu      sync.Mutex
	current *Snapshot
	// revision counts every change; generation counts only reports opened
	// or closed, so it identifies the open report across edits.
	revision   uint64
	generation uint64

	saving atomic.Bool
}

func NewStore(drafts DraftSaver) *Store {
	return &Store{drafts: drafts}
}

// InitializeNewReport discards whatever was open and starts an empty report.
func (s *Store) InitializeNewReport(fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Snapshot{Metadata: Metadata{FileName: strings.TrimSpace(fileName)}}
	s.revision++
	s.generation++
}

// LoadReport replaces the open report with snapshot. A nested report body is
// flattened here so every reader sees one shape.
func (s *Store) LoadReport(snapshot Snapshot) {
	loaded := snapshot.Clone()
	loaded.Sections = loaded.Sections.Normalize()
	loaded.Dirty = false

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &loaded
	s.revision++
	s.generation++
}

// UpdateSection replaces one section and marks the report dirty.
func (s *Store) UpdateSection(name SectionName, value any) error {
	return s.UpdateMultipleSections(map[SectionName]any{name: value})
}

// UpdateMultipleSections applies several section writes together: every
// value is decoded first, and nothing is written unless all of them decode.
func (s *Store) UpdateMultipleSections(values map[SectionName]any) error {
	staged := Sections{}
	for name, value := range values {
		if err := staged.Set(name, value); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoReport
	}
	for name := range values {
		slot := slots[name]
		slot.assign(&s.current.Sections, slot.valuePtr(&staged))
	}
	s.current.Dirty = true
	s.revision++
	return nil
}

// UpdateMetadata merges patch into the report metadata. The dirty flag is
// left alone.
func (s *Store) UpdateMetadata(patch MetadataPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoReport
	}
	s.applyMetadata(patch)
	return nil
}

// UpdateMetadataFor is UpdateMetadata for callers that read the report
// earlier through Current: the patch is applied only while that same report
// is still open, otherwise ErrReportChanged is returned.
func (s *Store) UpdateMetadataFor(generation uint64, patch MetadataPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoReport
	}
	if s.generation != generation {
		return ErrReportChanged
	}
	s.applyMetadata(patch)
	return nil
}

func (s *Store) applyMetadata(patch MetadataPatch) {
	if patch.FileName != nil {
		s.current.FileName = strings.TrimSpace(*patch.FileName)
	}
	if patch.SubmissionID != nil {
		s.current.SubmissionID = strings.TrimSpace(*patch.SubmissionID)
	}
	if patch.ProjectID != nil {
		s.current.ProjectID = *patch.ProjectID
	}
	if patch.ProjectName != nil {
		s.current.ProjectName = *patch.ProjectName
	}
}

// SaveDraft writes the open report to the draft store under its current file
// name. Repeated calls overwrite. Only one save runs at a time.
func (s *Store) SaveDraft(ctx context.Context) error {
	if s.drafts == nil {
		return fmt.Errorf("%w: no draft store configured", ErrSaveFailed)
	}
	if !s.saving.CompareAndSwap(false, true) {
		return ErrSaveInProgress
	}
	defer s.saving.Store(false)

	snapshot, revision, ok := s.snapshot()
	if !ok {
		return ErrNoReport
	}
	if !s.drafts.SaveDraft(ctx, snapshot.FileName, snapshot) {
		return ErrSaveFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// edits made while the write was running stay dirty
	if s.current != nil && s.revision == revision {
		s.current.Dirty = false
	}
	return nil
}

// ClearReport closes the report without starting another one.
func (s *Store) ClearReport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.revision++
	s.generation++
}

// Snapshot returns a copy of the open report, or false if none is open.
func (s *Store) Snapshot() (Snapshot, bool) {
	snapshot, _, ok := s.snapshot()
	return snapshot, ok
}

// Current is Snapshot plus the generation of the open report, for use with
// UpdateMetadataFor.
func (s *Store) Current() (Snapshot, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, s.generation, false
	}
	return s.current.Clone(), s.generation, true
}

func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Store) snapshot() (Snapshot, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, s.revision, false
	}
	return s.current.Clone(), s.revision, true
}
