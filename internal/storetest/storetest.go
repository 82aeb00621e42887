// Package storetest provides in-memory stores for tests of code above the database layer.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/paksmart/storefront/internal/db"
	"github.com/paksmart/storefront/internal/models"
)

// Products is an in-memory products table
type Products struct {
	mu    sync.Mutex
	rows  map[string]models.Product
	Err   error
	Calls int
}

// NewProducts creates a products table holding ps
func NewProducts(ps ...models.Product) *Products {
	s := &Products{rows: make(map[string]models.Product)}
	for _, p := range ps {
		s.rows[p.ID] = p
	}
	return s
}

func (s *Products) List(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}

	search := strings.ToLower(filter.Search)
	out := []models.Product{}
	for _, p := range s.rows {
		if filter.Category != "" && filter.Category != models.CategoryAll && p.Category != filter.Category {
			continue
		}
		if filter.Featured && !p.Featured {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(string(p.Category)), search) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Products) Get(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (s *Products) Insert(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	s.rows[p.ID] = *p
	return nil
}

func (s *Products) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	old, ok := s.rows[p.ID]
	if !ok {
		return db.ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	s.rows[p.ID] = *p
	return nil
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// Stock returns a product's current stock
func (s *Products) Stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].Stock
}

// reserve takes quantities out of stock, all or nothing
func (s *Products) reserve(lines []models.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lines {
		if p, ok := s.rows[l.ProductID]; !ok || p.Stock < l.Quantity {
			return fmt.Errorf("%w: %s", db.ErrInsufficientStock, l.Name)
		}
	}
	for _, l := range lines {
		p := s.rows[l.ProductID]
		p.Stock -= l.Quantity
		s.rows[l.ProductID] = p
	}
	return nil
}

// Orders is an in-memory orders table. When Products is set, Create reserves stock from it.
type Orders struct {
	mu       sync.Mutex
	rows     map[string]models.Order
	Products *Products
	Err      error
	Calls    int
}

// NewOrders creates an empty orders table
func NewOrders(products *Products) *Orders {
	return &Orders{rows: make(map[string]models.Order), Products: products}
}

func (s *Orders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	if s.Products != nil {
		if err := s.Products.reserve(o.Items); err != nil {
			return err
		}
	}
	s.rows[o.ID] = *o
	return nil
}

func (s *Orders) Get(_ context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &o, nil
}

func (s *Orders) List(ctx context.Context) ([]models.Order, error) {
	return s.list(func(models.Order) bool { return true })
}

func (s *Orders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return s.list(func(o models.Order) bool { return o.UserID == userID })
}

func (s *Orders) list(keep func(models.Order) bool) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Order{}
	for _, o := range s.rows {
		if keep(o) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b models.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Orders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	o, ok := s.rows[id]
	if !ok {
		return db.ErrNotFound
	}
	o.Status = status
	s.rows[id] = o
	return nil
}

func (s *Orders) CountByStatus(_ context.Context, status models.OrderStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	n := 0
	for _, o := range s.rows {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored orders
func (s *Orders) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Users is an in-memory users table
type Users struct {
	mu   sync.Mutex
	rows map[string]models.User
	Err  error
}

// NewUsers creates an empty users table
func NewUsers() *Users {
	return &Users{rows: make(map[string]models.User)}
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.rows {
		if existing.Email == u.Email {
			return db.ErrDuplicate
		}
	}
	s.rows[u.ID] = *u
	return nil
}

func (s *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

// SetAdmin flips a stored user's admin flag
func (s *Users) SetAdmin(id string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.rows[id]
	u.IsAdmin = admin
	s.rows[id] = u
}

// Revocations is an in-memory revocation list
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewRevocations creates an empty revocation list
func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time)}
}

func (r *Revocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

// Notifier records notifications
type Notifier struct {
	mu       sync.Mutex
	Orders   []models.Order
	Contacts []models.ContactMessage
	Err      error
}

func (n *Notifier) NotifyNewOrder(_ context.Context, o *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Orders = append(n.Orders, *o)
	return n.Err
}

func (n *Notifier) ForwardContact(_ context.Context, c models.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Contacts = append(n.Contacts, c)
	return nil
}

// ErrStore is a canned store failure
var ErrStore = errors.New("connection refused")
