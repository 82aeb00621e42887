package services

import (
	"errors"
	"fmt"

	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/db"
)

// Validation errors; no store call is made when one of these is returned
var (
	ErrMissingFields     = errors.New("required fields missing")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrWeakPassword      = errors.New("password too short")
	ErrSoldOut           = errors.New("product sold out")
	ErrQuantityTooLarge  = fmt.Errorf("quantity above %d", cart.MaxQuantity)
	ErrInsufficientStock = db.ErrInsufficientStock
	ErrImagesDisabled    = errors.New("image uploads not configured")
	ErrInvalidImage      = errors.New("file is not an image")
)

// Authentication and authorization errors
var (
	ErrUnauthenticated    = errors.New("not signed in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminCannotOrder   = errors.New("admin cannot place orders")
	ErrAdminRequired      = errors.New("admin access required")
	ErrEmailTaken         = errors.New("email already registered")
)

// Lookup errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
)
