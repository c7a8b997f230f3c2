package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// DuoStatsKey is the kv key holding local duo win tallies.
const DuoStatsKey = "duo_stats"

const snapshotPrefix = "snapshot:"

// DuoStats counts local two-player wins.
type DuoStats struct {
	P1Wins int `json:"p1Wins"`
	P2Wins int `json:"p2Wins"`
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot put %s: %w", key, err)
	}
	return nil
}

// Get returns the value under key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot get %s: %w", key, err)
	}
	return value, true, nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete %s: %w", key, err)
	}
	return nil
}

// DuoStats returns the duo tallies. A missing or unreadable record counts
// as zero wins each; only database failures are errors.
func (s *Store) DuoStats() (DuoStats, error) {
	value, ok, err := s.Get(DuoStatsKey)
	if err != nil || !ok {
		return DuoStats{}, err
	}
	var stats DuoStats
	if err := json.Unmarshal([]byte(value), &stats); err != nil {
		return DuoStats{}, nil
	}
	return stats, nil
}

// SaveDuoStats overwrites the duo tallies.
func (s *Store) SaveDuoStats(stats DuoStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("storage: cannot encode duo stats: %w", err)
	}
	return s.Put(DuoStatsKey, string(data))
}

// RecordDuoWin adds one win for player 1 or 2 and returns the new tallies.
func (s *Store) RecordDuoWin(winner int) (DuoStats, error) {
	stats, err := s.DuoStats()
	if err != nil {
		return stats, err
	}
	switch winner {
	case 1:
		stats.P1Wins++
	case 2:
		stats.P2Wins++
	default:
		return stats, fmt.Errorf("storage: invalid duo winner %d", winner)
	}
	return stats, s.SaveDuoStats(stats)
}

// SaveSnapshot stores a serialized game for later resume.
func (s *Store) SaveSnapshot(gameID string, data []byte) error {
	return s.Put(snapshotPrefix+gameID, string(data))
}

// LoadSnapshot returns the saved game for gameID, or nil if there is none.
func (s *Store) LoadSnapshot(gameID string) ([]byte, error) {
	value, ok, err := s.Get(snapshotPrefix + gameID)
	if err != nil || !ok {
		return nil, err
	}
	return []byte(value), nil
}

// DeleteSnapshot forgets the saved game for gameID.
func (s *Store) DeleteSnapshot(gameID string) error {
	return s.Delete(snapshotPrefix + gameID)
}
