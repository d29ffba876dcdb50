package draft

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
	"github.com/rs/zerolog"
)

const (
	DefaultPrefix = "cmvr_draft_"

	// fallback names when a report has no file name or title yet
	tempFileName  = "temp"
	untitledDraft = "Untitled Draft"
)

var _ report.DraftSaver = (*Store)(nil)

// Record is the persisted form of a draft: the report snapshot with the
// save stamps injected beside its sections.
type Record struct {
	report.Snapshot
	SavedAt   time.Time `json:"savedAt,omitzero"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Summary is one row of the draft picker.
type Summary struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	FileName  string    `json:"fileName"`
	LastSaved time.Time `json:"lastSaved"`
	Submitted bool      `json:"submitted"`
}

// Fault describes the most recent storage failure the store absorbed.
type Fault struct {
	Op  string    `json:"op"`
	Key string    `json:"key,omitempty"`
	Err error     `json:"-"`
	At  time.Time `json:"at"`
}

func (f Fault) Error() string {
	if f.Key == "" {
		return f.Op + ": " + f.Err.Error()
	}
	return f.Op + " " + f.Key + ": " + f.Err.Error()
}

func (f Fault) Unwrap() error {
	return f.Err
}

// Store is the draft namespace over a Backend. None of its operations fail:
// storage problems are logged, remembered as the last Fault, and reported as
// an empty, absent or false result.
type Store struct {
	backend Backend
	prefix  string
	now     func() time.Time

	mu    sync.Mutex
	fault *Fault
}

func NewStore(backend Backend, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{backend: backend, prefix: prefix, now: time.Now}
}

// Key derives the storage key for a file name.
func (s *Store) Key(fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = tempFileName
	}
	return s.prefix + name
}

func (s *Store) ListDraftKeys(ctx context.Context) []string {
	keys, err := s.backend.Keys(ctx, s.prefix)
	if err != nil {
		s.recordFault(ctx, "list", "", err)
		return []string{}
	}
	return keys
}

// ListDraftSummaries decodes every draft in the namespace, newest first.
// Entries that cannot be read are skipped.
func (s *Store) ListDraftSummaries(ctx context.Context) []Summary {
	keys := s.ListDraftKeys(ctx)
	summaries := make([]Summary, 0, len(keys))
	for _, key := range keys {
		record, ok := s.GetDraft(ctx, key)
		if !ok {
			continue
		}
		summaries = append(summaries, s.summarize(key, record))
	}
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		return cmp.Compare(b.LastSaved.UnixNano(), a.LastSaved.UnixNano())
	})
	return summaries
}

func (s *Store) summarize(key string, record Record) Summary {
	name := strings.TrimSpace(record.ProjectName)
	if name == "" && record.GeneralInfo != nil {
		name = record.GeneralInfo.ProjectName.Trim()
	}
	if name == "" {
		name = strings.TrimSpace(record.FileName)
	}
	if name == "" {
		name = untitledDraft
	}

	lastSaved := record.SavedAt
	if lastSaved.IsZero() {
		lastSaved = record.CreatedAt
	}
	if lastSaved.IsZero() {
		lastSaved = s.now()
	}

	return Summary{
		Key:       key,
		Name:      name,
		FileName:  record.FileName,
		LastSaved: lastSaved,
		Submitted: record.Submitted(),
	}
}

// GetDraft reports false when the key is missing or its value is unreadable.
func (s *Store) GetDraft(ctx context.Context, key string) (Record, bool) {
	data, found, err := s.backend.Get(ctx, key)
	if err != nil {
		s.recordFault(ctx, "get", key, err)
		return Record{}, false
	}
	if !found {
		return Record{}, false
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		s.recordFault(ctx, "decode", key, err)
		return Record{}, false
	}
	return record, true
}

// SaveDraft writes snapshot under the key derived from fileName. The first
// save of a key stamps createdAt; later saves keep it. A failed read of the
// existing value fails the save.
func (s *Store) SaveDraft(ctx context.Context, fileName string, snapshot report.Snapshot) bool {
	key := s.Key(fileName)
	now := s.now().UTC()

	record := Record{Snapshot: snapshot.Clone(), SavedAt: now, CreatedAt: now}
	record.FileName = strings.TrimSpace(fileName)

	// An unreadable backend must not look like a first save.
	data, found, err := s.backend.Get(ctx, key)
	if err != nil {
		s.recordFault(ctx, "get", key, err)
		return false
	}
	if found {
		var existing Record
		if err := json.Unmarshal(data, &existing); err == nil && !existing.CreatedAt.IsZero() {
			record.CreatedAt = existing.CreatedAt
		}
	}

	data, err = json.Marshal(record)
	if err != nil {
		s.recordFault(ctx, "encode", key, err)
		return false
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		s.recordFault(ctx, "save", key, err)
		return false
	}

	zerolog.Ctx(ctx).Debug().Str("component", "draft").Str("key", key).Msg("draft saved")
	return true
}

func (s *Store) DeleteDraft(ctx context.Context, key string) bool {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.recordFault(ctx, "delete", key, err)
		return false
	}
	return true
}

// DeleteAllDrafts removes every key in the namespace and nothing else.
func (s *Store) DeleteAllDrafts(ctx context.Context) bool {
	keys, err := s.backend.Keys(ctx, s.prefix)
	if err != nil {
		s.recordFault(ctx, "list", "", err)
		return false
	}
	if err := s.backend.Delete(ctx, keys...); err != nil {
		s.recordFault(ctx, "delete-all", "", err)
		return false
	}
	return true
}

// LastFault returns the most recent storage failure, if any.
func (s *Store) LastFault() (Fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fault == nil {
		return Fault{}, false
	}
	return *s.fault, true
}

func (s *Store) recordFault(ctx context.Context, op, key string, err error) {
	fault := Fault{Op: op, Key: key, Err: err, At: s.now().UTC()}

	s.mu.Lock()
	s.fault = &fault
	s.mu.Unlock()

	zerolog.Ctx(ctx).Warn().
		Err(err).
		Str("component", "draft").
		Str("op", op).
		Str("key", key).
		Msg("draft storage failure")
}
