package models

import "time"

type ProductStatus string

const (
	StatusDraft    ProductStatus = "draft"
	StatusPending  ProductStatus = "pending"
	StatusApproved ProductStatus = "approved"
	StatusRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Product struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Tagline      string        `db:"tagline" json:"tagline"`
	Description  string        `db:"description" json:"description"`
	WebsiteURL   *string       `db:"website_url" json:"website_url,omitempty"`
	ImageURL     *string       `db:"image_url" json:"image_url,omitempty"`
	Categories   []string      `db:"categories" json:"categories"`
	Technologies []string      `db:"technologies" json:"technologies"`
	Upvotes      int           `db:"upvotes" json:"upvotes"`
	Status       ProductStatus `db:"status" json:"status"`
	CreatedBy    string        `db:"created_by" json:"created_by"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

type Screenshot struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	ImageURL  string `db:"image_url" json:"image_url"`
	Position  int    `db:"position" json:"position"`
}

// Maker связывает продукт с профилем; создатель: maker с IsCreator=true.
type Maker struct {
	ProductID string `db:"product_id" json:"product_id"`
	ProfileID string `db:"profile_id" json:"profile_id"`
	FullName  string `db:"full_name" json:"full_name"`
	IsCreator bool   `db:"is_creator" json:"is_creator"`
}

type ProductFilter struct {
	Status   *ProductStatus
	Category string
	Search   string
	Limit    int
	Offset   int
}
