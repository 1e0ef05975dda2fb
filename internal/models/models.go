package models

import (
	"time"
)

type User struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Bio           string    `json:"bio" db:"bio"`
	ProfileImage  *string   `json:"profile_image_url,omitempty" db:"profile_image_url"`
	PointsBalance int       `json:"points_balance" db:"points_balance"`
	IsAdmin       bool      `json:"is_admin" db:"is_admin"`
	IsVerified    bool      `json:"is_verified" db:"is_verified"`
	GoogleID      *string   `json:"-" db:"google_id"`
	Latitude      *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64  `json:"longitude,omitempty" db:"longitude"`
	Address       *string   `json:"address,omitempty" db:"address"`
	City          *string   `json:"city,omitempty" db:"city"`
	State         *string   `json:"state,omitempty" db:"state"`
	Country       *string   `json:"country,omitempty" db:"country"`
	PostalCode    *string   `json:"postal_code,omitempty" db:"postal_code"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the owner/counterpart shape embedded in item and swap
// responses. Never includes email or balance.
type UserSummary struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	City *string `json:"city,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, City: u.City}
}

type Item struct {
	ID          int          `json:"id" db:"id"`
	OwnerID     int          `json:"owner_id" db:"owner_id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Category    string       `json:"category" db:"category"`
	Size        string       `json:"size" db:"size"`
	Condition   string       `json:"condition" db:"condition"`
	ImageURL    *string      `json:"image_url,omitempty" db:"image_url"`
	Status      ItemStatus   `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Owner       *UserSummary `json:"owner,omitempty"`
}

type Swap struct {
	ID         int          `json:"id" db:"id"`
	ItemID     int          `json:"item_id" db:"item_id"`
	FromUserID int          `json:"from_user_id" db:"from_user_id"`
	ToUserID   int          `json:"to_user_id" db:"to_user_id"`
	Type       SwapType     `json:"type" db:"type"`
	Status     SwapStatus   `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
	Item       *Item        `json:"item,omitempty"`
	FromUser   *UserSummary `json:"from_user,omitempty"`
	ToUser     *UserSummary `json:"to_user,omitempty"`
}

type WishlistEntry struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	ItemID    int       `json:"item_id" db:"item_id"`
	Notes     string    `json:"notes" db:"notes"`
	Priority  string    `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Item      *Item     `json:"item,omitempty"`
}

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Size struct {
	ID    int    `json:"id" db:"id"`
	Label string `json:"label" db:"label"`
}

type Condition struct {
	ID    int    `json:"id" db:"id"`
	Label string `json:"label" db:"label"`
}

type Tag struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
