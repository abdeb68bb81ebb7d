package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Transcript text larger than this is rejected at save time.
const maxTranscriptLen = 8388000

// Store provides access to the Transana SQLite database.
type Store struct {
	db       *sql.DB
	username string
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".transana", "transana.sqlite")
}

// Open opens the database with WAL and creates the schema if needed.
// username identifies this user for record locking in multi-user mode.
func Open(path, username string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, username: username}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SeriesByName returns the series with the given name.
func (s *Store) SeriesByName(name string) (*Series, error) {
	row := s.db.QueryRow(`SELECT num, id, comment FROM series WHERE id = ?`, name)

	var ser Series
	if err := row.Scan(&ser.Number, &ser.ID, &ser.Comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("series %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("scan series: %w", err)
	}
	return &ser, nil
}

// SeriesByNum returns a series by record number.
func (s *Store) SeriesByNum(num int64) (*Series, error) {
	row := s.db.QueryRow(`SELECT num, id, comment FROM series WHERE num = ?`, num)

	var ser Series
	if err := row.Scan(&ser.Number, &ser.ID, &ser.Comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("series %d: %w", num, ErrNotFound)
		}
		return nil, fmt.Errorf("scan series: %w", err)
	}
	return &ser, nil
}

// EpisodeByName returns the named episode within a series.
func (s *Store) EpisodeByName(seriesNum int64, name string) (*Episode, error) {
	row := s.db.QueryRow(`
		SELECT num, seriesNum, id, mediaFilename, tapeLength, comment, lastSaveTime
		FROM episodes
		WHERE seriesNum = ? AND id = ?
	`, seriesNum, name)
	return scanEpisode(row, name)
}

// EpisodeByNum returns an episode by record number.
func (s *Store) EpisodeByNum(num int64) (*Episode, error) {
	row := s.db.QueryRow(`
		SELECT num, seriesNum, id, mediaFilename, tapeLength, comment, lastSaveTime
		FROM episodes
		WHERE num = ?
	`, num)
	return scanEpisode(row, fmt.Sprintf("#%d", num))
}

func scanEpisode(row *sql.Row, label string) (*Episode, error) {
	var ep Episode
	var lastSave float64
	if err := row.Scan(&ep.Number, &ep.SeriesNum, &ep.ID, &ep.MediaFilename,
		&ep.TapeLength, &ep.Comment, &lastSave); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("episode %s: %w", label, ErrNotFound)
		}
		return nil, fmt.Errorf("scan episode: %w", err)
	}
	ep.LastSaveTime = timeFromUnix(lastSave)
	return &ep, nil
}

const transcriptColumns = `num, id, episodeNum, sourceTranscript, clipNum,
	sortOrder, transcriber, clipStart, clipStop, text, comment, lastSaveTime`

// TranscriptByName returns the named transcript of an episode.
func (s *Store) TranscriptByName(name string, episodeNum int64) (*Transcript, error) {
	row := s.db.QueryRow(`
		SELECT `+transcriptColumns+`
		FROM transcripts
		WHERE id = ? AND episodeNum = ? AND clipNum = 0
	`, name, episodeNum)
	return scanTranscript(row, name)
}

// TranscriptByNum returns a transcript by record number.
func (s *Store) TranscriptByNum(num int64) (*Transcript, error) {
	row := s.db.QueryRow(`
		SELECT `+transcriptColumns+`
		FROM transcripts
		WHERE num = ?
	`, num)
	return scanTranscript(row, fmt.Sprintf("#%d", num))
}

func scanTranscript(row *sql.Row, label string) (*Transcript, error) {
	var tr Transcript
	var lastSave float64
	if err := row.Scan(&tr.Number, &tr.ID, &tr.EpisodeNum, &tr.SourceTranscript,
		&tr.ClipNum, &tr.SortOrder, &tr.Transcriber, &tr.ClipStart, &tr.ClipStop,
		&tr.Text, &tr.Comment, &lastSave); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transcript %s: %w", label, ErrNotFound)
		}
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	tr.LastSaveTime = timeFromUnix(lastSave)
	return &tr, nil
}

// CollectionByNum returns a collection by record number.
func (s *Store) CollectionByNum(num int64) (*Collection, error) {
	row := s.db.QueryRow(`SELECT num, parentNum, id, comment FROM collections WHERE num = ?`, num)

	var col Collection
	if err := row.Scan(&col.Number, &col.ParentNum, &col.ID, &col.Comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("collection #%d: %w", num, ErrNotFound)
		}
		return nil, fmt.Errorf("scan collection: %w", err)
	}
	return &col, nil
}

// CollectionNodeString returns the collection's full path from the root,
// joined with " > ".
func (s *Store) CollectionNodeString(num int64) (string, error) {
	var parts []string
	for num != 0 {
		col, err := s.CollectionByNum(num)
		if err != nil {
			return "", err
		}
		parts = append([]string{col.ID}, parts...)
		num = col.ParentNum
	}
	return strings.Join(parts, " > "), nil
}

// ClipByNum returns a clip by record number, with its transcripts in sort
// order and its keywords.
func (s *Store) ClipByNum(num int64) (*Clip, error) {
	row := s.db.QueryRow(`
		SELECT num, id, collectionNum, episodeNum, mediaFilename, clipStart, clipStop, sortOrder, lastSaveTime
		FROM clips
		WHERE num = ?
	`, num)

	var c Clip
	var lastSave float64
	if err := row.Scan(&c.Number, &c.ID, &c.CollectionNum, &c.EpisodeNum,
		&c.MediaFilename, &c.ClipStart, &c.ClipStop, &c.SortOrder, &lastSave); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("clip #%d: %w", num, ErrNotFound)
		}
		return nil, fmt.Errorf("scan clip: %w", err)
	}
	c.LastSaveTime = timeFromUnix(lastSave)

	rows, err := s.db.Query(`
		SELECT `+transcriptColumns+`
		FROM transcripts
		WHERE clipNum = ?
		ORDER BY sortOrder ASC
	`, num)
	if err != nil {
		return nil, fmt.Errorf("query clip transcripts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tr Transcript
		var trSave float64
		if err := rows.Scan(&tr.Number, &tr.ID, &tr.EpisodeNum, &tr.SourceTranscript,
			&tr.ClipNum, &tr.SortOrder, &tr.Transcriber, &tr.ClipStart, &tr.ClipStop,
			&tr.Text, &tr.Comment, &trSave); err != nil {
			return nil, fmt.Errorf("scan clip transcript: %w", err)
		}
		tr.LastSaveTime = timeFromUnix(trSave)
		c.Transcripts = append(c.Transcripts, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read clip transcripts: %w", err)
	}

	kwRows, err := s.db.Query(`
		SELECT keyword FROM clip_keywords WHERE clipNum = ? ORDER BY keywordGroup, keyword
	`, num)
	if err != nil {
		return nil, fmt.Errorf("query clip keywords: %w", err)
	}
	defer kwRows.Close()

	for kwRows.Next() {
		var kw string
		if err := kwRows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan clip keyword: %w", err)
		}
		c.Keywords = append(c.Keywords, kw)
	}
	return &c, kwRows.Err()
}

// ClipsForEpisode returns the clips derived from an episode, in sort order.
func (s *Store) ClipsForEpisode(episodeNum int64) ([]Clip, error) {
	return s.clipList(`
		SELECT num FROM clips WHERE episodeNum = ? ORDER BY sortOrder, num
	`, episodeNum)
}

// ReplaceClipKeywords swaps a clip's keyword set for a new one.
func (s *Store) ReplaceClipKeywords(clipNum int64, keywords []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin keyword update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM clip_keywords WHERE clipNum = ?`, clipNum); err != nil {
		return fmt.Errorf("clear clip keywords: %w", err)
	}
	for _, kw := range keywords {
		if _, err := tx.Exec(`
			INSERT INTO clip_keywords (clipNum, keyword) VALUES (?, ?)
		`, clipNum, kw); err != nil {
			return fmt.Errorf("insert clip keyword %q: %w", kw, err)
		}
	}
	return tx.Commit()
}

// DerivedClips returns the clips whose transcripts were excerpted from the
// given episode transcript, in sort order.
func (s *Store) DerivedClips(transcriptNum int64) ([]Clip, error) {
	return s.clipList(`
		SELECT DISTINCT c.num
		FROM clips c
		JOIN transcripts t ON t.clipNum = c.num
		WHERE t.sourceTranscript = ?
		ORDER BY c.num
	`, transcriptNum)
}

func (s *Store) clipList(query string, arg int64) ([]Clip, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("query clips: %w", err)
	}
	defer rows.Close()

	var nums []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan clip number: %w", err)
		}
		nums = append(nums, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read clip numbers: %w", err)
	}

	var clips []Clip
	for _, n := range nums {
		c, err := s.ClipByNum(n)
		if err != nil {
			return nil, err
		}
		clips = append(clips, *c)
	}
	return clips, nil
}

// SaveEpisode inserts or updates an episode record.
func (s *Store) SaveEpisode(ep *Episode) error {
	if ep.ID == "" {
		return &SaveError{Reason: "episode has no name"}
	}
	now := time.Now()

	if ep.Number == 0 {
		var count int
		s.db.QueryRow(`SELECT COUNT(*) FROM episodes WHERE seriesNum = ? AND id = ?`,
			ep.SeriesNum, ep.ID).Scan(&count)
		if count > 0 {
			return fmt.Errorf("episode %q: %w", ep.ID, ErrDuplicateID)
		}
		res, err := s.db.Exec(`
			INSERT INTO episodes (seriesNum, id, mediaFilename, tapeLength, comment, lastSaveTime)
			VALUES (?, ?, ?, ?, ?, ?)
		`, ep.SeriesNum, ep.ID, ep.MediaFilename, ep.TapeLength, ep.Comment, unixFromTime(now))
		if err != nil {
			return fmt.Errorf("insert episode: %w", err)
		}
		ep.Number, _ = res.LastInsertId()
	} else {
		_, err := s.db.Exec(`
			UPDATE episodes
			SET seriesNum = ?, id = ?, mediaFilename = ?, tapeLength = ?, comment = ?, lastSaveTime = ?
			WHERE num = ?
		`, ep.SeriesNum, ep.ID, ep.MediaFilename, ep.TapeLength, ep.Comment, unixFromTime(now), ep.Number)
		if err != nil {
			return fmt.Errorf("update episode: %w", err)
		}
	}
	ep.LastSaveTime = now
	return nil
}

// SaveTranscript inserts or updates a transcript record. Oversized text and
// name collisions are rejected without touching the stored record.
func (s *Store) SaveTranscript(tr *Transcript) error {
	if tr.ID == "" && tr.ClipNum == 0 {
		return &SaveError{Reason: "transcript has no name"}
	}
	if len(tr.Text) > maxTranscriptLen {
		return &SaveError{Reason: "transcript text exceeds the maximum record size"}
	}
	now := time.Now()

	if tr.Number == 0 {
		var count int
		s.db.QueryRow(`
			SELECT COUNT(*) FROM transcripts
			WHERE id = ? AND episodeNum = ? AND clipNum = ? AND sortOrder = ?
		`, tr.ID, tr.EpisodeNum, tr.ClipNum, tr.SortOrder).Scan(&count)
		if count > 0 {
			return fmt.Errorf("transcript %q: %w", tr.ID, ErrDuplicateID)
		}
		res, err := s.db.Exec(`
			INSERT INTO transcripts (id, episodeNum, sourceTranscript, clipNum, sortOrder,
				transcriber, clipStart, clipStop, text, comment, lastSaveTime)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, tr.ID, tr.EpisodeNum, tr.SourceTranscript, tr.ClipNum, tr.SortOrder,
			tr.Transcriber, tr.ClipStart, tr.ClipStop, tr.Text, tr.Comment, unixFromTime(now))
		if err != nil {
			return fmt.Errorf("insert transcript: %w", err)
		}
		tr.Number, _ = res.LastInsertId()
	} else {
		var count int
		s.db.QueryRow(`
			SELECT COUNT(*) FROM transcripts
			WHERE id = ? AND num <> ? AND episodeNum = ? AND clipNum = ? AND sortOrder = ?
		`, tr.ID, tr.Number, tr.EpisodeNum, tr.ClipNum, tr.SortOrder).Scan(&count)
		if count > 0 {
			return fmt.Errorf("transcript %q: %w", tr.ID, ErrDuplicateID)
		}
		_, err := s.db.Exec(`
			UPDATE transcripts
			SET id = ?, episodeNum = ?, sourceTranscript = ?, clipNum = ?, sortOrder = ?,
				transcriber = ?, clipStart = ?, clipStop = ?, text = ?, comment = ?, lastSaveTime = ?
			WHERE num = ?
		`, tr.ID, tr.EpisodeNum, tr.SourceTranscript, tr.ClipNum, tr.SortOrder,
			tr.Transcriber, tr.ClipStart, tr.ClipStop, tr.Text, tr.Comment,
			unixFromTime(now), tr.Number)
		if err != nil {
			return fmt.Errorf("update transcript: %w", err)
		}
	}
	tr.LastSaveTime = now
	return nil
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
