package services

import (
	"context"
	"errors"

	"resto-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -destination=../mocks/channel_resolver.go -package=mocks resto-api/services ChannelResolver

// ChannelResolver finds the real-time channel currently registered for a
// guest. A nil channel means the guest is not connected.
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, guestID uint) (*string, error)
}

// SocketRegistry is the socket table the real-time gateway keeps up to date.
type SocketRegistry struct {
	db *gorm.DB
}

func NewSocketRegistry(db *gorm.DB) *SocketRegistry {
	return &SocketRegistry{db: db}
}

func (r *SocketRegistry) ResolveChannel(ctx context.Context, guestID uint) (*string, error) {
	var socket models.Socket
	err := r.db.WithContext(ctx).Where("guest_id = ?", guestID).First(&socket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &socket.SocketID, nil
}

// Register upserts the guest's channel. The real-time gateway owns these rows;
// the seeder uses it for demo data.
func (r *SocketRegistry) Register(ctx context.Context, guestID uint, socketID string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"socket_id", "updated_at"}),
	}).Create(&models.Socket{GuestID: guestID, SocketID: socketID}).Error
}
