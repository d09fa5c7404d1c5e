package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Conversation گفتگوی دو نفره؛ جفت شرکت‌کننده به صورت مرتب ذخیره می‌شود
type Conversation struct {
	ID           string    `gorm:"primary_key;type:char(36)"`
	ParticipantA string    `gorm:"type:char(36);not null;uniqueIndex:uniq_participants"`
	ParticipantB string    `gorm:"type:char(36);not null;uniqueIndex:uniq_participants"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

type ConversationRepositoryDatabase struct {
	DB *gorm.DB
}

func NewConversationRepositoryDatabase(db *gorm.DB) *ConversationRepositoryDatabase {
	return &ConversationRepositoryDatabase{DB: db}
}

// GetOrCreate برای یک جفت کاربر همیشه همان گفتگو را برمی‌گرداند
func (repo *ConversationRepositoryDatabase) GetOrCreate(ctx context.Context, viewerID, subjectID string) (string, error) {
	a, b := viewerID, subjectID
	if a > b {
		a, b = b, a
	}
	db := repo.DB.WithContext(ctx)

	conv := &Conversation{ID: uuid.Must(uuid.NewV4()).String(), ParticipantA: a, ParticipantB: b}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(conv).Error; err != nil {
		return "", fmt.Errorf("db: create conversation: %w", err)
	}

	var existing Conversation
	if err := db.Where("participant_a = ? AND participant_b = ?", a, b).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("db: conversation vanished after insert: %w", err)
		}
		return "", fmt.Errorf("db: find conversation: %w", err)
	}
	return existing.ID, nil
}
