// Package session owns the live task list and keeps its copies in step: the
// local file, the remote blob and the undo history.
//
// Every mutation follows the same sequence under the session lock: change
// the list, write it to the local file, queue it for the remote blob, then
// record it in the undo history. Undo and redo install a recorded state and
// persist it without recording a new one.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/stefanpenner/intentions/pkg/cloud"
	"github.com/stefanpenner/intentions/pkg/store"
	isync "github.com/stefanpenner/intentions/pkg/sync"
	"github.com/stefanpenner/intentions/pkg/task"
	"github.com/stefanpenner/intentions/pkg/undo"
)

var (
	// ErrIndexOutOfRange is returned for a task index outside the list.
	ErrIndexOutOfRange = errors.New("task index out of range")
	// ErrEmptyClipboard is returned by Paste before anything was copied.
	ErrEmptyClipboard = errors.New("clipboard is empty")
)

// Remote reads and overwrites the remote blob. *cloud.Client implements it.
type Remote interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Put(ctx context.Context, url string, body []byte) error
}

// Options configure Open.
type Options struct {
	DataDir         string
	PreferencesFile string
	SyncEnabled     bool
	SyncTimeout     time.Duration
	UndoDepth       int
	Logger          zerolog.Logger
	// Remote defaults to a cloud.Client using SyncTimeout.
	Remote Remote
}

// Session is the single owner of the task list. It is safe for concurrent use.
type Session struct {
	logger    zerolog.Logger
	prefsPath string
	remote    Remote
	timeout   time.Duration
	worker    *isync.Worker // nil when sync is disabled
	cloudURL  atomic.Pointer[string]

	mu          gosync.Mutex
	prefs       store.Preferences
	tasks       []*task.Task
	history     *undo.Queue[[]*task.Task]
	clipboard   []byte
	lastWritten []byte // local file contents as of our last write
}

// Open loads preferences and the task list, replaces the list with the
// remote copy when one can be fetched, and writes the result back locally.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger.With().Str("component", "session").Logger()

	s := &Session{
		logger:    logger,
		prefsPath: opts.PreferencesFile,
		remote:    opts.Remote,
		timeout:   opts.SyncTimeout,
	}
	if s.remote == nil {
		s.remote = cloud.New(opts.SyncTimeout, logger)
	}

	s.prefs = store.LoadPreferences(logger, opts.PreferencesFile, opts.DataDir)
	s.setCloudURL(s.prefs.CloudSaveLocation)

	tasks := sanitize(store.LoadOr(logger, s.prefs.LocalSaveLocation, []*task.Task{}))
	if opts.SyncEnabled {
		if remote, err := s.fetchRemote(ctx); err != nil {
			s.logRemoteErr(err, "remote list unavailable, keeping local copy")
		} else {
			logger.Info().Int("tasks", len(remote)).Msg("replaced local list with remote copy")
			tasks = remote
		}
		s.worker = isync.NewWorker(s.putRemote, opts.SyncTimeout, logger)
	}
	s.tasks = tasks

	snap, err := encodeList(s.tasks)
	if err != nil {
		return nil, err
	}
	s.writeLocal(snap)
	s.history = undo.NewFromSnapshot(snap, opts.UndoDepth, undo.JSONCodec[[]*task.Task]{})

	logger.Debug().
		Str("local", s.prefs.LocalSaveLocation).
		Bool("sync", s.worker != nil).
		Int("tasks", len(s.tasks)).
		Msg("session opened")
	return s, nil
}

// Close waits for pending remote writes, giving up when ctx expires.
func (s *Session) Close(ctx context.Context) error {
	if s.worker == nil {
		return nil
	}
	return s.worker.Close(ctx)
}

// LocalPath is the file holding the local copy of the list.
func (s *Session) LocalPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.LocalSaveLocation
}

// Preferences returns the loaded preferences.
func (s *Session) Preferences() store.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SyncEnabled reports whether remote writes are queued after mutations.
func (s *Session) SyncEnabled() bool {
	return s.worker != nil
}

// SyncStatus reports the remote writer's progress.
func (s *Session) SyncStatus() isync.Status {
	if s.worker == nil {
		return isync.Status{}
	}
	return s.worker.Status()
}

// commit persists the current list and records it in the undo history.
// Callers hold s.mu.
func (s *Session) commit(op string) error {
	snap, err := encodeList(s.tasks)
	if err != nil {
		return err
	}
	s.persist(snap)
	s.history.RegisterSnapshot(snap)
	s.logger.Debug().Str("op", op).Int("tasks", len(s.tasks)).Msg("committed")
	return nil
}

// persist writes snap locally and queues it for the remote blob.
func (s *Session) persist(snap []byte) {
	s.writeLocal(snap)
	if s.worker != nil && s.cloudLocation() != "" {
		s.worker.Push(snap)
	}
}

func (s *Session) writeLocal(snap []byte) {
	path := s.prefs.LocalSaveLocation
	if err := store.WriteFile(path, snap); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("local save failed")
		return
	}
	s.lastWritten = snap
}

func (s *Session) putRemote(ctx context.Context, snap []byte) error {
	return s.remote.Put(ctx, s.cloudLocation(), snap)
}

func (s *Session) fetchRemote(ctx context.Context) ([]*task.Task, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	body, err := s.remote.Get(ctx, s.cloudLocation())
	if err != nil {
		return nil, err
	}
	tasks, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("decode remote list: %w", err)
	}
	return tasks, nil
}

func (s *Session) logRemoteErr(err error, msg string) {
	evt := s.logger.Warn()
	if errors.Is(err, cloud.ErrNoLocation) {
		evt = s.logger.Debug()
	}
	evt.Err(err).Msg(msg)
}

func (s *Session) cloudLocation() string {
	if p := s.cloudURL.Load(); p != nil {
		return *p
	}
	return ""
}

func (s *Session) setCloudURL(url string) {
	s.cloudURL.Store(&url)
}

// install replaces the live list with the decoded snap. Callers hold s.mu.
func (s *Session) install(snap []byte) error {
	tasks, err := decodeList(snap)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

func (s *Session) at(i int) (*task.Task, error) {
	if i < 0 || i >= len(s.tasks) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.tasks))
	}
	return s.tasks[i], nil
}

func encodeList(tasks []*task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode task list: %w", err)
	}
	return data, nil
}

func decodeList(data []byte) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return sanitize(tasks), nil
}

// sanitize drops null entries so the list never holds nil tasks.
func sanitize(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
