package models

import "time"

// User is an operator account in the central store. The core only records
// usernames as log actors; authentication lives outside this service.
type User struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Username    string    `gorm:"column:username;uniqueIndex;not null"`
	DisplayName string    `gorm:"column:display_name;not null"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name stable across stores.
func (User) TableName() string { return "users" }
