package store

import (
	"context"
	"fmt"
	"time"
)

// Record locking is optimistic: a lock is only granted when no other user
// holds one, and only when the caller's copy of the record is still current.
// On ErrStaleRecord the caller must reload and retry.

// LockTranscript acquires the edit lock for a transcript. lastSave is the
// save time of the caller's in-memory copy.
func (s *Store) LockTranscript(num int64, lastSave time.Time) error {
	return s.lock("transcripts", num, lastSave)
}

// UnlockTranscript releases the edit lock for a transcript.
func (s *Store) UnlockTranscript(num int64) error {
	return s.unlock("transcripts", num)
}

// LockEpisode acquires the edit lock for an episode.
func (s *Store) LockEpisode(num int64, lastSave time.Time) error {
	return s.lock("episodes", num, lastSave)
}

// UnlockEpisode releases the edit lock for an episode.
func (s *Store) UnlockEpisode(num int64) error {
	return s.unlock("episodes", num)
}

func (s *Store) lock(table string, num int64, lastSave time.Time) error {
	var holder string
	err := s.db.QueryRow(`
		SELECT lockedBy FROM record_locks WHERE tableName = ? AND recordNum = ?
	`, table, num).Scan(&holder)
	if err == nil && holder != s.username {
		return fmt.Errorf("%s #%d held by %s: %w", table, num, holder, ErrRecordLocked)
	}

	var stored float64
	err = s.db.QueryRow(
		fmt.Sprintf(`SELECT lastSaveTime FROM %s WHERE num = ?`, table), num,
	).Scan(&stored)
	if err != nil {
		return fmt.Errorf("check %s save time: %w", table, err)
	}
	// Sub-second precision is lost round-tripping through REAL columns, so
	// compare at millisecond granularity.
	if timeFromUnix(stored).Truncate(time.Millisecond).After(lastSave.Truncate(time.Millisecond)) {
		return fmt.Errorf("%s #%d: %w", table, num, ErrStaleRecord)
	}

	_, err = s.db.Exec(`
		INSERT INTO record_locks (tableName, recordNum, lockedBy, lockedAt)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(tableName, recordNum) DO UPDATE SET lockedBy = excluded.lockedBy, lockedAt = excluded.lockedAt
	`, table, num, s.username, unixFromTime(time.Now()))
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	return nil
}

func (s *Store) unlock(table string, num int64) error {
	_, err := s.db.Exec(`
		DELETE FROM record_locks WHERE tableName = ? AND recordNum = ? AND lockedBy = ?
	`, table, num, s.username)
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// StartKeepAlive issues a trivial query on a fixed interval until ctx is
// cancelled. Multi-user installs use this to keep idle connections open; it
// runs on its own goroutine and is never blocked by coordinator work.
func (s *Store) StartKeepAlive(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var one int
				_ = s.db.QueryRow(`SELECT 1`).Scan(&one)
			}
		}
	}()
}
