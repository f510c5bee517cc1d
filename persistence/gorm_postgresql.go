// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nitishkumar2303/doodlequest/models"
)

// GormPostgreSQL is the primary Gateway implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&MatchModel{}, &ParticipantModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// MatchModel is one room's match record, keyed by room code.
type MatchModel struct {
	ID            uint   `gorm:"primaryKey"`
	RoomCode      string `gorm:"uniqueIndex;not null"`
	HostAccountID int64  `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (MatchModel) TableName() string { return "matches" }

// ParticipantModel is one account's score within a match.
type ParticipantModel struct {
	ID        uint  `gorm:"primaryKey"`
	MatchID   int64 `gorm:"uniqueIndex:idx_match_account;not null"`
	AccountID int64 `gorm:"uniqueIndex:idx_match_account;not null"`
	Score     int   `gorm:"not null;default:0"`
	Winner    bool  `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ParticipantModel) TableName() string { return "match_participants" }

func (p *GormPostgreSQL) GetOrCreateMatch(roomCode string, hostAccountID int64) (int64, error) {
	match := MatchModel{}
	err := p.db.Where(MatchModel{RoomCode: roomCode}).
		Attrs(MatchModel{HostAccountID: hostAccountID}).
		FirstOrCreate(&match).Error
	if err != nil {
		return 0, err
	}
	return int64(match.ID), nil
}

func (p *GormPostgreSQL) RegisterParticipant(matchID, accountID int64) error {
	participant := ParticipantModel{MatchID: matchID, AccountID: accountID}
	return p.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error
}

func (p *GormPostgreSQL) GetSavedScore(matchID, accountID int64) (int, error) {
	var participant ParticipantModel
	err := p.db.Where("match_id = ? AND account_id = ?", matchID, accountID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return participant.Score, nil
}

func (p *GormPostgreSQL) AddScore(matchID, accountID int64, delta int) error {
	if err := p.RegisterParticipant(matchID, accountID); err != nil {
		return err
	}
	return p.db.Model(&ParticipantModel{}).
		Where("match_id = ? AND account_id = ?", matchID, accountID).
		Update("score", gorm.Expr("score + ?", delta)).Error
}

func (p *GormPostgreSQL) MarkWinner(matchID, accountID int64) error {
	return p.db.Model(&ParticipantModel{}).
		Where("match_id = ? AND account_id = ?", matchID, accountID).
		Update("winner", true).Error
}

func (p *GormPostgreSQL) GetAccountStats(accountID int64) (models.AccountStats, error) {
	var stats models.AccountStats
	err := p.db.Raw(`
        SELECT
            COUNT(*) AS total_matches,
            COALESCE(SUM(CASE WHEN winner THEN 1 ELSE 0 END), 0) AS wins,
            COALESCE(SUM(score), 0) AS total_score
        FROM match_participants
        WHERE account_id = ?`,
		accountID,
	).Scan(&stats).Error
	return stats, err
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
