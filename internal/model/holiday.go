package model

import "time"

// Holiday is a named date range owned by a single user.
type Holiday struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	StartDate   time.Time `json:"startDate" gorm:"not null;index"`
	EndDate     time.Time `json:"endDate" gorm:"not null"`
	Description *string   `json:"description" gorm:"type:text"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	User        *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HolidayInput carries the raw fields of a create request.
type HolidayInput struct {
	Name        string  `json:"name" validate:"max=255" example:"Trip"`
	StartDate   string  `json:"startDate" example:"2025-12-24"`
	EndDate     string  `json:"endDate" example:"2025-12-25"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" example:"Family visit"`
}

// HolidayPatch is a partial update. Fields absent from the request body stay
// unset and leave the stored value untouched.
type HolidayPatch struct {
	Name        Optional[string] `json:"name" swaggertype:"string"`
	StartDate   Optional[string] `json:"startDate" swaggertype:"string"`
	EndDate     Optional[string] `json:"endDate" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
}

// Empty reports whether the patch carries no fields at all.
func (p HolidayPatch) Empty() bool {
	return !p.Name.Set && !p.StartDate.Set && !p.EndDate.Set && !p.Description.Set
}
