package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID string `gorm:"size:36;index" json:"user_id"`

	// A slot can accumulate several booking rows over its lifetime
	// (cancelled ones stay behind); the conditional claim on the slot is
	// what keeps at most one of them active.
	SlotID string    `gorm:"size:36;index" json:"slot_id"`
	Slot   *TimeSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"slot,omitempty"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	MeetingLink     *string `gorm:"size:255" json:"meeting_link"`
	MeetingID       *string `gorm:"size:100" json:"meeting_id"`
	MeetingProvider *string `gorm:"size:50" json:"meeting_provider"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
