// Package model defines the entities persisted by every store backend.
// Field tags cover both gorm (SQL) and bson (MongoDB).
package model

import "time"

const (
	LevelBeginner = "beginner"
	LevelAmateur  = "amateur"
	LevelExpert   = "expert"
)

// Onboarding tracks the profile completion checklist
type Onboarding struct {
	Step1     bool `gorm:"default:false" bson:"step1" json:"onboard1"`
	Step2     bool `gorm:"default:false" bson:"step2" json:"onboard2"`
	Step3     bool `gorm:"default:false" bson:"step3" json:"onboard3"`
	Completed bool `gorm:"default:false" bson:"completed" json:"completed"`
}

type User struct {
	ID        string `gorm:"primaryKey;size:16" bson:"_id"`
	FirstName string `gorm:"not null;index" bson:"first_name"`
	LastName  string `gorm:"not null;index" bson:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" bson:"email"`
	// Username is nil until chosen. Stored lower-case.
	Username     *string `gorm:"uniqueIndex" bson:"username,omitempty"`
	PasswordHash string  `gorm:"not null" bson:"password_hash"`
	Verified     bool    `gorm:"default:false" bson:"verified"`

	// Only one code/token per purpose may be outstanding, a new one
	// overwrites the previous pair
	VerificationCode      string     `gorm:"index" bson:"verification_code"`
	VerificationExpiresAt *time.Time `bson:"verification_expires_at"`
	ResetToken            string     `gorm:"index" bson:"reset_token"`
	ResetExpiresAt        *time.Time `bson:"reset_expires_at"`
	EmailChangeCode       string     `bson:"email_change_code"`
	EmailChangeExpiresAt  *time.Time `bson:"email_change_expires_at"`

	Bio            string `bson:"bio"`
	Country        string `bson:"country"`
	Phone          string `bson:"phone"`
	ProfilePicture string `bson:"profile_picture"`
	Level          string `gorm:"default:amateur" bson:"level"`

	Onboarding Onboarding `gorm:"embedded;embeddedPrefix:onboard_" bson:"onboarding"`

	LastLoginAt *time.Time `bson:"last_login_at"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

// FullName joins the first and last name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UsernameOrEmpty dereferences Username
func (u *User) UsernameOrEmpty() string {
	if u.Username == nil {
		return ""
	}

	return *u.Username
}
