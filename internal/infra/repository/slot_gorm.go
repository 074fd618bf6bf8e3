package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/models"
)

type SlotGormRepository struct {
	db *gorm.DB
}

func NewSlotGormRepository(db *gorm.DB) *SlotGormRepository {
	return &SlotGormRepository{db: db}
}

// --------------------------------------------------
// Create
// --------------------------------------------------

// findConflict locks and returns the first non-cancelled slot of the
// same owner and date whose window intersects s. It must run inside the
// insert's transaction; the row locks hold until that transaction ends,
// so a concurrent create against the same owner/date waits here instead
// of double-inserting.
func findConflict(tx *gorm.DB, s *models.TimeSlot) (*models.TimeSlot, error) {
	q := tx.Model(&models.TimeSlot{}).
		Where(
			"date = ? AND status <> ? AND start_time < ? AND end_time > ?",
			s.Date, string(domain.StatusCancelled), s.EndTime, s.StartTime,
		)
	if s.ListenerID == nil {
		q = q.Where("listener_id IS NULL")
	} else {
		q = q.Where("listener_id = ?", *s.ListenerID)
	}
	// sqlite (used in tests) serializes writers itself and rejects the
	// FOR UPDATE syntax.
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var conflict models.TimeSlot
	if err := q.First(&conflict).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conflict, nil
}

func createChecked(tx *gorm.DB, s *models.TimeSlot) error {
	conflict, err := findConflict(tx, s)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &domain.OverlapError{Conflict: *conflict}
	}
	return tx.Create(s).Error
}

func (r *SlotGormRepository) Create(
	ctx context.Context,
	s *models.TimeSlot,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createChecked(tx, s)
	})
	if err != nil {
		var oe *domain.OverlapError
		if errors.As(err, &oe) {
			return oe
		}
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

func (r *SlotGormRepository) CreateBatch(
	ctx context.Context,
	slots []*models.TimeSlot,
) error {
	// All-or-nothing: one transaction, each member overlap-checked in
	// turn. Members inserted earlier in the batch are visible to later
	// checks, so in-batch overlap also fails the whole batch.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range slots {
			if err := createChecked(tx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var oe *domain.OverlapError
		if errors.As(err, &oe) {
			return oe
		}
		return fmt.Errorf("create slot batch: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *SlotGormRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.TimeSlot, error) {

	var s models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error; err != nil {
		return nil, fmt.Errorf("get slot %s: %w", id, err)
	}
	return &s, nil
}

func (r *SlotGormRepository) ListAvailable(
	ctx context.Context,
	fromDate string,
	offset int,
	limit int,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("status = ? AND date >= ?", string(domain.StatusCreated), fromDate).
		Order("date ASC, start_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

func (r *SlotGormRepository) CountAvailable(
	ctx context.Context,
	fromDate string,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("status = ? AND date >= ?", string(domain.StatusCreated), fromDate).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count available slots: %w", err)
	}
	return count, nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

// UpdateStatusCAS is the atomic claim: a conditional update keyed on the
// expected current status. Zero rows affected means another request won
// the race.
func (r *SlotGormRepository) UpdateStatusCAS(
	ctx context.Context,
	id string,
	from domain.Status,
	to domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))

	if res.Error != nil {
		return false, fmt.Errorf("slot status %s -> %s: %w", from, to, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *SlotGormRepository) SetMeeting(
	ctx context.Context,
	id string,
	link string,
	meetingID string,
	provider string,
) error {

	err := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"meeting_link":     link,
			"meeting_id":       meetingID,
			"meeting_provider": provider,
		}).Error
	if err != nil {
		return fmt.Errorf("set slot meeting: %w", err)
	}
	return nil
}

func (r *SlotGormRepository) AssignListener(
	ctx context.Context,
	id string,
	listenerID string,
) error {

	err := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ?", id).
		Update("listener_id", listenerID).Error
	if err != nil {
		return fmt.Errorf("assign listener: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *SlotGormRepository) Delete(
	ctx context.Context,
	id string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.TimeSlot{})
	if res.Error != nil {
		return false, fmt.Errorf("delete slot: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *SlotGormRepository) DeleteAll(
	ctx context.Context,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.TimeSlot{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete all slots: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Compile-time check
var _ domain.Repository = (*SlotGormRepository)(nil)
