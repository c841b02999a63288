package models

import "time"

// User is an account that can log in. Admins are only ever created by the
// seed command.
type User struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username         string    `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash;not null"`
	IsAdmin          bool      `gorm:"column:is_admin;not null"`
	Email            *string   `gorm:"column:email"`
	FullName         *string   `gorm:"column:full_name"`
	Phone            *string   `gorm:"column:phone"`
	PreferredAddress *string   `gorm:"column:preferred_address"`
	PreferredCity    *string   `gorm:"column:preferred_city"`
	PreferredState   *string   `gorm:"column:preferred_state"`
	PreferredPincode *string   `gorm:"column:preferred_pincode"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
