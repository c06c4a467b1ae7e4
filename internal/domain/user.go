package domain

import "time"

// UserType decides which login strategy an account may use.
type UserType string

const (
	UserTypeNakes  UserType = "nakes"  // web dashboard, session auth
	UserTypeParent UserType = "parent" // mobile API, token auth
)

// User is the single identity type for both nakes and parents.
type User struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	UserType          UserType  `json:"user_type"`
	Phone             *string   `json:"phone"`
	AvatarURL         *string   `json:"avatar_url"`
	PushNotifications bool      `json:"push_notifications"`
	WeeklyReport      bool      `json:"weekly_report"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) IsNakes() bool  { return u != nil && u.UserType == UserTypeNakes }
func (u *User) IsParent() bool { return u != nil && u.UserType == UserTypeParent }

// Notification is an in-app message for a user.
type Notification struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
}
