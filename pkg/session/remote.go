package session

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/stefanpenner/intentions/pkg/cloud"
	"github.com/stefanpenner/intentions/pkg/store"
	"github.com/stefanpenner/intentions/pkg/task"
)

// Reload re-reads the local file after an outside change. Content equal to
// what the session last wrote, or an unreadable file, leaves the list as it
// is. A different list becomes the live list and is recorded as a new undo
// state so the outside edit can be undone. It reports whether the list
// changed.
func (s *Session) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.prefs.LocalSaveLocation
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", path, err)
	}
	if bytes.Equal(data, s.lastWritten) || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}

	tasks, err := decodeList(data)
	if err != nil {
		// Usually a write still in progress; the next event will retry.
		s.logger.Debug().Err(err).Str("path", path).Msg("reload skipped")
		return false, nil
	}

	same, err := sameList(s.tasks, tasks)
	if err != nil {
		return false, err
	}
	if same {
		s.lastWritten = data
		return false, nil
	}

	s.tasks = tasks
	snap, err := encodeList(tasks)
	if err != nil {
		return false, err
	}
	s.lastWritten = data
	if s.worker != nil && s.cloudLocation() != "" {
		s.worker.Push(snap)
	}
	s.history.RegisterSnapshot(snap)
	s.logger.Info().Str("path", path).Int("tasks", len(tasks)).Msg("reloaded after outside change")
	return true, nil
}

// PullRemote replaces the live list with the remote copy, as at startup,
// and records the result as a new undo state.
func (s *Session) PullRemote(ctx context.Context) error {
	if s.cloudLocation() == "" {
		return cloud.ErrNoLocation
	}
	tasks, err := s.fetchRemote(ctx)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = tasks
	snap, err := encodeList(s.tasks)
	if err != nil {
		return err
	}
	s.writeLocal(snap)
	s.history.RegisterSnapshot(snap)
	return nil
}

// PushRemote writes the current list to the remote blob and waits for the
// write to finish.
func (s *Session) PushRemote(ctx context.Context) error {
	if s.cloudLocation() == "" {
		return cloud.ErrNoLocation
	}

	s.mu.Lock()
	snap, err := encodeList(s.tasks)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.worker == nil {
		return s.putRemote(ctx, snap)
	}
	s.worker.Push(snap)
	return s.worker.Flush(ctx)
}

// SetCloudLocation stores a new blob URL in the preferences file. An empty
// url turns remote writes off.
func (s *Session) SetCloudLocation(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.CloudSaveLocation = url
	if err := store.Save(s.prefsPath, s.prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	s.setCloudURL(url)
	return nil
}

// sameList compares two lists by content hash.
func sameList(a, b []*task.Task) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	ha, err := listHash(a)
	if err != nil {
		return false, err
	}
	hb, err := listHash(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

func listHash(tasks []*task.Task) (uint64, error) {
	hashes := make([]uint64, len(tasks))
	for i, t := range tasks {
		h, err := t.Hash()
		if err != nil {
			return 0, fmt.Errorf("hash task %d: %w", i, err)
		}
		hashes[i] = h
	}
	return hashstructure.Hash(hashes, hashstructure.FormatV2, nil)
}
