package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeSlot struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Date      string `gorm:"size:10;index:idx_slot_owner_date" json:"date"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	DurationMinutes int `json:"duration_minutes"`

	Status string `gorm:"size:20;default:'created';index" json:"status"`

	// nil means the slot belongs to the unassigned pool.
	ListenerID *string   `gorm:"size:36;index:idx_slot_owner_date" json:"listener_id"`
	Listener   *Listener `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"listener,omitempty"`

	Price int `json:"price"`

	MeetingLink     *string `gorm:"size:255" json:"meeting_link"`
	MeetingID       *string `gorm:"size:100" json:"meeting_id"`
	MeetingProvider *string `gorm:"size:50" json:"meeting_provider"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
