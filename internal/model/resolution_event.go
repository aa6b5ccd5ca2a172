package model

import (
	"time"
)

type ResolutionEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Slug      string    `gorm:"size:8;not null;index" json:"slug"`
	Outcome   string    `gorm:"size:16;not null" json:"outcome"`
	ClientIP  string    `gorm:"size:45" json:"client_ip"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	Referer   string    `gorm:"type:text" json:"referer"`
	CreatedAt time.Time `json:"created_at"`
}

func (ResolutionEvent) TableName() string {
	return "resolution_events"
}
