package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-blocks/internal/multiplayer"
)

// OnlineMatchResult is a finished relay match.
type OnlineMatchResult struct {
	ID         int64
	MatchID    string
	HostName   string
	GuestName  string
	HostScore  int
	GuestScore int
	Winner     string // empty when undecided
	EndReason  string // "completed", "disconnect", "shutdown"
	AttackMode string
	Duration   int // seconds
	CreatedAt  time.Time
}

const matchColumns = `id, match_id, host_name, guest_name, host_score, guest_score,
		        winner, end_reason, attack_mode, duration_secs, created_at`

// SaveOnlineMatch records a match result. Returns the ID of the inserted record.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, host_name, guest_name, host_score, guest_score, winner, end_reason, attack_mode, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.HostName,
		result.GuestName,
		result.HostScore,
		result.GuestScore,
		result.Winner,
		result.EndReason,
		result.AttackMode,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winner sql.NullString
	err := row.Scan(
		&result.ID,
		&result.MatchID,
		&result.HostName,
		&result.GuestName,
		&result.HostScore,
		&result.GuestScore,
		&winner,
		&result.EndReason,
		&result.AttackMode,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}
	result.Winner = winner.String
	result.CreatedAt = parseTime(createdAt)
	return result, nil
}

// OnlineMatchByID retrieves a match by its match ID, or nil if unknown.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	result, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM online_matches WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	return &result, nil
}

// RecentOnlineMatches retrieves the most recent matches, newest first.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// PlayerMatchHistory retrieves the matches a named player took part in.
func (s *Store) PlayerMatchHistory(name string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches
		 WHERE host_name = ? OR guest_name = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		name, name, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:    data.MatchID,
		HostName:   data.HostName,
		GuestName:  data.GuestName,
		HostScore:  data.HostScore,
		GuestScore: data.GuestScore,
		Winner:     data.Winner,
		EndReason:  data.EndReason,
		AttackMode: data.AttackMode,
		Duration:   data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)
