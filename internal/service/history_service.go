package service

import (
	"fmt"
	"log"
	"sync"

	"cliphist/internal/clipboard"
	"cliphist/internal/config"
	"cliphist/internal/history"
	"cliphist/internal/search"
	"cliphist/internal/snippets"
	"cliphist/internal/storage"
	"cliphist/pkg/types"
)

// HistoryError describes a failed service operation.
type HistoryError struct {
	Op      string // Operation that failed
	Index   int    // Index involved (if applicable)
	Message string // Error message
	Err     error  // Underlying error
}

func (e *HistoryError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s failed for index %d: %s", e.Op, e.Index, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// Action names exposed on search results.
const (
	ActionCopy    = "copy"
	ActionPaste   = "copy-paste"
	ActionRemove  = "remove"
	ActionSnippet = "snippet"
)

// DisplayTimeLayout is the long-format layout used for result timestamps.
const DisplayTimeLayout = "Monday, January 2, 2006 3:04:05 PM"

// SearchResult is one history entry prepared for display. Rank is the
// entry's position in the full history, not a relevance score.
type SearchResult struct {
	Rank       int      `json:"rank"`
	Text       string   `json:"text"`
	CapturedAt string   `json:"captured_at"`
	Actions    []string `json:"actions"`
}

// Options configures a Service. Paster and Snippets are optional
// capabilities; nil means the corresponding action is not offered.
type Options struct {
	DataDir  string
	Monitor  clipboard.Monitor
	Accessor clipboard.Accessor
	Paster   clipboard.Paster
	Snippets *snippets.Store
	Bridge   storage.Bridge
	Settings config.Settings
}

// Service wires the monitor, ingestion filter and history store together
// with the optional collaborators. All history access goes through it.
type Service struct {
	monitor  clipboard.Monitor
	accessor clipboard.Accessor
	paster   clipboard.Paster
	snippets *snippets.Store
	bridge   storage.Bridge

	history *history.Store
	filter  *history.Filter

	dataDir  string
	settings config.Settings
	cfgMu    sync.Mutex

	handlers []ChangeHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// New creates a Service. Settings should already be clamped by the
// configuration boundary.
func New(opts Options) *Service {
	return &Service{
		monitor:  opts.Monitor,
		accessor: opts.Accessor,
		paster:   opts.Paster,
		snippets: opts.Snippets,
		bridge:   opts.Bridge,
		history:  history.New(opts.Settings.HistoryLimit),
		filter:   history.NewFilter(),
		dataDir:  opts.DataDir,
		settings: opts.Settings,
	}
}

// RegisterHandler adds a new capture handler. Handlers run outside the
// history lock.
func (s *Service) RegisterHandler(handler ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Start loads the persisted history if enabled and begins monitoring. The
// load happens before any concurrent access exists, so no lock is held
// during I/O.
func (s *Service) Start() error {
	if s.Persist() && s.bridge != nil {
		if entries := s.bridge.Load(); len(entries) > 0 {
			s.history = history.NewFromEntries(s.HistoryLimit(), entries)
			log.Printf("Loaded %d history entries", s.history.Len())
		}
	}

	s.monitor.OnChange(s.handleClipboardChange)

	if err := s.monitor.Start(); err != nil {
		return &HistoryError{
			Op:      "Start",
			Index:   -1,
			Message: "failed to start clipboard monitor",
			Err:     err,
		}
	}
	return nil
}

// Stop shuts the monitor down and saves the history if enabled. The save
// snapshot is taken under a brief read lock and written after release.
func (s *Service) Stop() error {
	if err := s.monitor.Stop(); err != nil {
		return &HistoryError{
			Op:      "Stop",
			Index:   -1,
			Message: "failed to stop clipboard monitor",
			Err:     err,
		}
	}

	// Wait for handler fanout to drain
	s.wg.Wait()

	if s.Persist() && s.bridge != nil {
		s.bridge.Save(s.history.Snapshot())
	}
	return nil
}

// handleClipboardChange runs the ingestion pipeline for one observed
// clipboard value. The monitor serializes calls, so the filter state needs
// no extra locking.
func (s *Service) handleClipboardChange(text string) {
	entry, ok := s.filter.Observe(text)
	if !ok {
		return
	}

	s.history.Insert(entry)

	s.mu.RLock()
	handlers := s.handlers // Copy to avoid holding lock during callbacks
	s.mu.RUnlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, handler := range handlers {
			handler.HandleCapture(entry)
		}
	}()
}

// History returns a snapshot of the history, most recent first.
func (s *Service) History() []types.Entry {
	return s.history.Snapshot()
}

// Search runs query against a snapshot of the history using the configured
// fuzzy mode.
func (s *Service) Search(query string) []SearchResult {
	return s.SearchMode(query, s.Fuzzy())
}

// SearchMode runs query with an explicit fuzzy flag.
func (s *Service) SearchMode(query string, fuzzy bool) []SearchResult {
	results := search.Search(query, fuzzy, s.history.Snapshot())

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Rank:       r.Rank,
			Text:       r.Entry.Text,
			CapturedAt: r.Entry.CapturedAt.Format(DisplayTimeLayout),
			Actions:    s.actions(),
		}
	}
	return out
}

// actions lists what the host can do with a result: copy always, paste and
// snippet only when the capability is present.
func (s *Service) actions() []string {
	actions := []string{ActionCopy}
	if s.paster != nil {
		actions = append(actions, ActionPaste)
	}
	actions = append(actions, ActionRemove)
	if s.snippets != nil {
		actions = append(actions, ActionSnippet)
	}
	return actions
}

// EntryAt returns the nth most recent entry (0 being the most recent).
func (s *Service) EntryAt(index int) (types.Entry, error) {
	snap := s.history.Snapshot()
	if index < 0 || index >= len(snap) {
		return types.Entry{}, &HistoryError{
			Op:      "EntryAt",
			Index:   index,
			Message: "entry not found",
		}
	}
	return snap[index], nil
}

// Copy puts text back on the clipboard.
func (s *Service) Copy(text string) error {
	if err := s.accessor.SetText(text); err != nil {
		return &HistoryError{
			Op:      "Copy",
			Index:   -1,
			Message: "failed to set clipboard content",
			Err:     err,
		}
	}
	return nil
}

// CopyAt copies the nth most recent entry.
func (s *Service) CopyAt(index int) error {
	entry, err := s.EntryAt(index)
	if err != nil {
		return err
	}
	return s.Copy(entry.Text)
}

// CopyAndPaste puts text on the clipboard and forwards a paste keystroke to
// the focused window.
func (s *Service) CopyAndPaste(text string) error {
	if s.paster == nil {
		return &HistoryError{
			Op:      "CopyAndPaste",
			Index:   -1,
			Message: "paste is not supported on this host",
		}
	}
	if err := s.paster.SetTextAndPaste(text); err != nil {
		return &HistoryError{
			Op:      "CopyAndPaste",
			Index:   -1,
			Message: "failed to paste clipboard content",
			Err:     err,
		}
	}
	return nil
}

// PasteAt copies and pastes the nth most recent entry.
func (s *Service) PasteAt(index int) error {
	entry, err := s.EntryAt(index)
	if err != nil {
		return err
	}
	return s.CopyAndPaste(entry.Text)
}

// Remove deletes the entry with the given text. It takes the store's write
// lock on its own; a caller acting on search results holds no lock by then.
func (s *Service) Remove(text string) {
	s.history.Remove(text)
}

// SaveSnippet forwards text to the snippets store.
func (s *Service) SaveSnippet(text string) (*types.Snippet, error) {
	if s.snippets == nil {
		return nil, &HistoryError{
			Op:      "SaveSnippet",
			Index:   -1,
			Message: "snippets store is not available",
		}
	}

	snippet, err := s.snippets.Save(text)
	if err != nil {
		return nil, &HistoryError{
			Op:      "SaveSnippet",
			Index:   -1,
			Message: "failed to save snippet",
			Err:     err,
		}
	}
	return snippet, nil
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() config.Settings {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.settings
}

// Fuzzy reports whether fuzzy search is enabled.
func (s *Service) Fuzzy() bool {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.settings.Fuzzy
}

// Persist reports whether history persistence is enabled.
func (s *Service) Persist() bool {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.settings.Persist
}

// HistoryLimit returns the configured history bound.
func (s *Service) HistoryLimit() int {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.settings.HistoryLimit
}

// SetHistoryLimit updates the bound, truncating the history immediately if
// it shrinks. Values below 1 are clamped to 1 here, at the configuration
// boundary, so the store's precondition always holds.
func (s *Service) SetHistoryLimit(limit int) {
	if limit < 1 {
		limit = 1
	}

	s.cfgMu.Lock()
	changed := s.settings.HistoryLimit != limit
	s.settings.HistoryLimit = limit
	s.cfgMu.Unlock()
	if !changed {
		return
	}

	s.history.SetLimit(limit)
	s.saveSettings()
}

// SetPersist updates the persistence toggle. It takes effect on the next
// startup/shutdown cycle.
func (s *Service) SetPersist(v bool) {
	s.cfgMu.Lock()
	changed := s.settings.Persist != v
	s.settings.Persist = v
	s.cfgMu.Unlock()
	if changed {
		s.saveSettings()
	}
}

// SetFuzzy updates the fuzzy search toggle. It affects search immediately.
func (s *Service) SetFuzzy(v bool) {
	s.cfgMu.Lock()
	changed := s.settings.Fuzzy != v
	s.settings.Fuzzy = v
	s.cfgMu.Unlock()
	if changed {
		s.saveSettings()
	}
}

func (s *Service) saveSettings() {
	if s.dataDir == "" {
		return
	}
	if err := config.Save(s.dataDir, s.Settings()); err != nil {
		log.Printf("Failed saving settings: %v", err)
	}
}
