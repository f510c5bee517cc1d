// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/nitishkumar2303/doodlequest/models"
)

// PostgreSQL is a plain database/sql Gateway implementation, for deployments
// that prefer raw SQL over the GORM one.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS matches (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(64) UNIQUE NOT NULL,
            host_account_id BIGINT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_participants (
            id SERIAL PRIMARY KEY,
            match_id BIGINT NOT NULL,
            account_id BIGINT NOT NULL,
            score INT NOT NULL DEFAULT 0,
            winner BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (match_id, account_id)
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_participants_account_id
        ON match_participants(account_id)
    `)
	return err
}

func (p *PostgreSQL) GetOrCreateMatch(roomCode string, hostAccountID int64) (int64, error) {
	var id int64
	err := p.db.QueryRow(`
        INSERT INTO matches (room_code, host_account_id)
        VALUES ($1, $2)
        ON CONFLICT (room_code) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
        RETURNING id`,
		roomCode, hostAccountID,
	).Scan(&id)
	return id, err
}

func (p *PostgreSQL) RegisterParticipant(matchID, accountID int64) error {
	_, err := p.db.Exec(`
        INSERT INTO match_participants (match_id, account_id)
        VALUES ($1, $2)
        ON CONFLICT (match_id, account_id) DO NOTHING`,
		matchID, accountID,
	)
	return err
}

func (p *PostgreSQL) GetSavedScore(matchID, accountID int64) (int, error) {
	var score int
	err := p.db.QueryRow(`
        SELECT score FROM match_participants
        WHERE match_id = $1 AND account_id = $2`,
		matchID, accountID,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return score, err
}

func (p *PostgreSQL) AddScore(matchID, accountID int64, delta int) error {
	_, err := p.db.Exec(`
        INSERT INTO match_participants (match_id, account_id, score)
        VALUES ($1, $2, $3)
        ON CONFLICT (match_id, account_id)
        DO UPDATE SET score = match_participants.score + $3,
                      updated_at = CURRENT_TIMESTAMP`,
		matchID, accountID, delta,
	)
	return err
}

func (p *PostgreSQL) MarkWinner(matchID, accountID int64) error {
	_, err := p.db.Exec(`
        UPDATE match_participants
        SET winner = TRUE, updated_at = CURRENT_TIMESTAMP
        WHERE match_id = $1 AND account_id = $2`,
		matchID, accountID,
	)
	return err
}

func (p *PostgreSQL) GetAccountStats(accountID int64) (models.AccountStats, error) {
	var stats models.AccountStats
	err := p.db.QueryRow(`
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN winner THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(score), 0)
        FROM match_participants
        WHERE account_id = $1`,
		accountID,
	).Scan(&stats.TotalMatches, &stats.Wins, &stats.TotalScore)
	return stats, err
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
