package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"holidaytracker/internal/model"
)

type holidayRepository struct {
	db *gorm.DB
}

// NewHolidayRepository creates a new holiday repository.
func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &holidayRepository{db: db}
}

// Create inserts a new holiday.
func (r *holidayRepository) Create(ctx context.Context, holiday *model.Holiday) error {
	if err := r.db.WithContext(ctx).Create(holiday).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create holiday for user %d: %w", holiday.UserID, ErrOwnerNotFound)
		}
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// ListByUser returns the user's holidays ordered by start date.
func (r *holidayRepository) ListByUser(ctx context.Context, userID uint) ([]model.Holiday, error) {
	holidays := []model.Holiday{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Order("id ASC").
		Find(&holidays).Error
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// FindByIDAndUser finds a holiday by ID, scoped to its owner.
func (r *holidayRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Holiday, error) {
	var holiday model.Holiday
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&holiday).Error
	if err != nil {
		return nil, translate(err, "find holiday")
	}
	return &holiday, nil
}

// Update overwrites the mutable columns of an owned holiday. Save is avoided
// because it inserts when the row has vanished.
func (r *holidayRepository) Update(ctx context.Context, holiday *model.Holiday) error {
	res := r.db.WithContext(ctx).
		Model(&model.Holiday{}).
		Where("id = ? AND user_id = ?", holiday.ID, holiday.UserID).
		Updates(map[string]interface{}{
			"name":        holiday.Name,
			"start_date":  holiday.StartDate,
			"end_date":    holiday.EndDate,
			"description": holiday.Description,
			"updated_at":  holiday.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update holiday %d: %w", holiday.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owned holiday.
func (r *holidayRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Holiday{})
	if res.Error != nil {
		return fmt.Errorf("delete holiday %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
