package entity

import "time"

type Note struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"not null;size:255"`
	Content   string `gorm:"not null"`
	UserID    int64  `gorm:"not null;index"` // References: users(id), immutable
	UpdatedAt time.Time

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID"`
}
