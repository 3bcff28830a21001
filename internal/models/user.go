package models

import "time"

type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleAgent  UserRole = "agent"
	UserRoleAdmin  UserRole = "admin"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`

	// RealtimeUID is the user's identity with the external realtime
	// backend. Empty when the identity was never provisioned.
	RealtimeUID string `gorm:"index" json:"-"`

	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExp     *time.Time `json:"-"`

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	DeviceTokens  []DeviceToken  `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

type DevicePlatform string

const (
	DevicePlatformIOS     DevicePlatform = "ios"
	DevicePlatformAndroid DevicePlatform = "android"
	DevicePlatformWeb     DevicePlatform = "web"
)

// DeviceToken is a registered push target. A user may have several.
type DeviceToken struct {
	BaseModel
	UserID   string         `gorm:"not null;index" json:"user_id"`
	Token    string         `gorm:"not null;uniqueIndex" json:"token"`
	Platform DevicePlatform `gorm:"type:varchar(10);not null" json:"platform"`
}
