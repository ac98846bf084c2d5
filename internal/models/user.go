package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleJudge Role = "judge"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleJudge, RoleAdmin:
		return true
	}
	return false
}

// Profile: пользователь платформы (автор, судья или админ).
type Profile struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	LinkedInURL  *string   `db:"linkedin_url" json:"linkedin_url,omitempty"`
	TwitterURL   *string   `db:"twitter_url" json:"twitter_url,omitempty"`
	WebsiteURL   *string   `db:"website_url" json:"website_url,omitempty"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Judge is the display view of a profile that evaluated a product.
type Judge struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
}

func (p Profile) AsJudge() Judge {
	return Judge{ID: p.ID, FullName: p.FullName, AvatarURL: p.AvatarURL, LinkedInURL: p.LinkedInURL}
}

// UserPage: страница админского списка пользователей с общим количеством.
type UserPage struct {
	Users []Profile `json:"users"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}
