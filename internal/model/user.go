package model

import "time"

type UserRole string

const (
	Admin  UserRole = "admin"
	Editor UserRole = "editor"
)

// User is a back-office account (catalog management, analytics, lead
// export). Site visitors are anonymous sessions, not users.
type User struct {
	BaseModel
	Name     string   `gorm:"size:255;not null" json:"name"`
	Email    string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:255;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'editor'" json:"role"`
	LastSeen time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
