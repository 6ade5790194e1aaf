package models

import "time"

// Section is one titled block of free text on a user's portfolio.
type Section struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Author    *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name to "section".
func (Section) TableName() string {
	return "section"
}

// OwnedBy reports whether userID is the section's owner.
func (s *Section) OwnedBy(userID uint) bool {
	return s.UserID == userID
}
