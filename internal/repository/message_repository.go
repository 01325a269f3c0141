package repository

import (
	"webchat/internal/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *entity.Message) error
	GetByID(id uint) (*entity.Message, error)

	DirectHistory(a, b uint, limit, offset int) ([]*entity.Message, error)
	GroupHistory(groupID uint, limit, offset int) ([]*entity.Message, error)

	// MarkRead flips the read flag for a direct message addressed to readerID.
	// Returns true only if the flag actually transitioned false -> true.
	MarkRead(messageID, readerID uint) (bool, error)
	MarkConversationRead(readerID, senderID uint) error
	UnreadCounts(userID uint) (map[uint]int64, error)
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(message *entity.Message) error {
	return repo.db.Create(message).Error
}

func (repo *SQLiteMessageRepository) GetByID(id uint) (*entity.Message, error) {
	var message entity.Message
	if err := repo.db.Preload("Sender").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (repo *SQLiteMessageRepository) DirectHistory(a, b uint, limit, offset int) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) GroupHistory(groupID uint, limit, offset int) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Preload("Sender").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) MarkRead(messageID, readerID uint) (bool, error) {
	result := repo.db.Model(&entity.Message{}).
		Where("id = ? AND receiver_id = ? AND is_read = ?", messageID, readerID, false).
		Update("is_read", true)
	return result.RowsAffected > 0, result.Error
}

func (repo *SQLiteMessageRepository) MarkConversationRead(readerID, senderID uint) error {
	return repo.db.Model(&entity.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", readerID, senderID, false).
		Update("is_read", true).Error
}

func (repo *SQLiteMessageRepository) UnreadCounts(userID uint) (map[uint]int64, error) {
	type row struct {
		SenderID uint
		Total    int64
	}
	var rows []row
	err := repo.db.Model(&entity.Message{}).
		Select("sender_id, COUNT(*) as total").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.SenderID] = r.Total
	}
	return counts, nil
}
