package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/closergame/countryquiz/internal/game"
)

// SQLiteStore implements game.ScoreStore over the highscores and
// leaderboard tables. Both writes are single conditional statements, so
// concurrent requests for the same player cannot lose updates.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Best(ctx context.Context, playerID string) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx, `
		SELECT highscore FROM highscores WHERE player_id = ?
	`, playerID).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return best, err
}

func (s *SQLiteStore) RaiseIfHigher(ctx context.Context, playerID string, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO highscores (player_id, highscore) VALUES (?, ?)
		ON CONFLICT(player_id) DO UPDATE SET highscore = excluded.highscore
		WHERE excluded.highscore > highscores.highscore
	`, playerID, score)
	return err
}

func (s *SQLiteStore) Nickname(ctx context.Context, playerID string) (string, error) {
	var nickname string
	err := s.db.QueryRowContext(ctx, `
		SELECT nickname FROM leaderboard WHERE player_id = ?
	`, playerID).Scan(&nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return nickname, err
}

func (s *SQLiteStore) UpsertIfNotLower(ctx context.Context, playerID, nickname string, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (player_id, nickname, score) VALUES (?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			nickname = excluded.nickname,
			score = excluded.score
		WHERE excluded.score >= leaderboard.score
	`, playerID, nickname, score)
	return err
}

func (s *SQLiteStore) Top(ctx context.Context, n int) ([]game.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nickname, score FROM leaderboard
		ORDER BY score DESC, nickname ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []game.Entry{}
	for rows.Next() {
		var e game.Entry
		if err := rows.Scan(&e.Nickname, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteEntry removes a leaderboard row by nickname (moderation).
func (s *SQLiteStore) DeleteEntry(ctx context.Context, nickname string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM leaderboard WHERE nickname = ?
	`, nickname)
	return err
}
