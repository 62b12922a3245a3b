package model

import "time"

// User Telegram用户，首次打开Mini-App时登记
type User struct {
	ID         int64     `gorm:"primarykey;autoIncrement:false" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

func (User) TableName() string {
	return "app_user"
}
