package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed product categories
type Category string

const (
	CategoryMobiles     Category = "mobiles"
	CategoryHandsfree   Category = "handsfree"
	CategoryChargers    Category = "chargers"
	CategoryAccessories Category = "accessories"
	CategoryOther       Category = "other"

	// CategoryAll is the browse default and never stored on a product
	CategoryAll Category = "all"
)

// Categories lists the product categories in display order
var Categories = []Category{
	CategoryMobiles,
	CategoryHandsfree,
	CategoryChargers,
	CategoryAccessories,
	CategoryOther,
}

// Valid reports whether c is a product category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a product in the catalog
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    Category        `json:"category" db:"category"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	Featured    bool            `json:"featured" db:"featured"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// SoldOut reports whether the product has no stock left
func (p *Product) SoldOut() bool {
	return p.Stock <= 0
}

// ProductFilter narrows a catalog listing
type ProductFilter struct {
	Category Category
	Search   string
	Featured bool
	Limit    int
}

// User represents a user account
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Session is an authenticated identity resolved from a bearer token
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProductForm is the admin product form as posted; numeric fields arrive as strings
type ProductForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	Stock       string `json:"stock"`
	Featured    bool   `json:"featured"`
}

// SignUpRequest represents a request to create an account
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name"`
}

// SignInRequest represents a request to sign in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the issued token
type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// ContactMessage represents a contact form submission
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

// HomePage holds the landing page product rails
type HomePage struct {
	Featured []Product `json:"featured"`
	Latest   []Product `json:"latest"`
}

// CartItem is a cart line with cached display fields
type CartItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
}

// CartResponse represents a cart with its derived totals
type CartResponse struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// AddToCartRequest represents a request to add a product to the cart
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

// UpdateCartItemRequest sets a line's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// Theme is the storefront color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggled returns the other theme
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeRequest sets the theme explicitly
type ThemeRequest struct {
	Theme Theme `json:"theme"`
}
