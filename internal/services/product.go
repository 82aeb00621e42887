package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paksmart/storefront/internal/db"
	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/models"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Landing page rail sizes
const (
	FeaturedLimit = 8
	LatestLimit   = 12
)

const productCacheTTL = 5 * time.Minute

var productLog = logging.NewPackageLogger("services.product")

// ProductCache holds products read by GetProduct for productCacheTTL.
// Anything that changes a product row must Evict it.
type ProductCache struct {
	mu    sync.RWMutex
	items map[string]cachedProduct
}

type cachedProduct struct {
	product models.Product
	expires time.Time
}

func NewProductCache() *ProductCache {
	return &ProductCache{
		items: make(map[string]cachedProduct),
	}
}

func (c *ProductCache) get(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, ok := c.items[id]
	if !ok || time.Now().After(cached.expires) {
		return models.Product{}, false
	}
	return cached.product, true
}

func (c *ProductCache) put(p models.Product) {
	c.mu.Lock()
	c.items[p.ID] = cachedProduct{product: p, expires: time.Now().Add(productCacheTTL)}
	c.mu.Unlock()
}

// Evict drops the given products from the cache
func (c *ProductCache) Evict(ids ...string) {
	c.mu.Lock()
	for _, id := range ids {
		delete(c.items, id)
	}
	c.mu.Unlock()
}

// ProductService handles catalog browsing and admin product management
type ProductService struct {
	products ProductRepository
	images   ImageStore
	metrics  *metrics.AppMetrics
	cache    *ProductCache
}

// NewProductService creates a new product service. images may be nil.
func NewProductService(products ProductRepository, images ImageStore, cache *ProductCache, metrics *metrics.AppMetrics) *ProductService {
	return &ProductService{
		products: products,
		images:   images,
		metrics:  metrics,
		cache:    cache,
	}
}

// Browse lists products by category and free-text search, newest first
func (s *ProductService) Browse(ctx context.Context, category, search string) ([]models.Product, error) {
	c := models.Category(strings.ToLower(strings.TrimSpace(category)))
	if c == "" {
		c = models.CategoryAll
	}
	if c != models.CategoryAll && !c.Valid() {
		return nil, ErrInvalidCategory
	}

	return s.products.List(ctx, models.ProductFilter{
		Category: c,
		Search:   strings.TrimSpace(search),
	})
}

// Home returns the featured and newest product rails
func (s *ProductService) Home(ctx context.Context) (*models.HomePage, error) {
	featured, err := s.products.List(ctx, models.ProductFilter{Featured: true, Limit: FeaturedLimit})
	if err != nil {
		return nil, err
	}
	latest, err := s.products.List(ctx, models.ProductFilter{Limit: LatestLimit})
	if err != nil {
		return nil, err
	}
	return &models.HomePage{Featured: featured, Latest: latest}, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := s.cache.get(id); ok {
		s.metrics.CacheHits.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{})...))
		s.recordView(ctx, &p)
		return &p, nil
	}
	s.metrics.CacheMisses.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{})...))

	p, err := s.products.Get(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	s.cache.put(*p)
	s.recordView(ctx, p)
	return p, nil
}

func (s *ProductService) recordView(ctx context.Context, p *models.Product) {
	viewAttrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("product_id", p.ID),
		attribute.String("product_category", string(p.Category)),
	})
	s.metrics.ProductsViewed.Add(ctx, 1, metric.WithAttributes(viewAttrs...))
}

// ListAll returns every product, newest first, for the admin table
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx, models.ProductFilter{})
}

// ParseProductForm coerces the admin form into a product.
// Empty price is zero; unparsable stock is zero; missing description and image stay empty.
func ParseProductForm(form models.ProductForm) (*models.Product, error) {
	price := decimal.Zero
	if raw := strings.TrimSpace(form.Price); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil || p.IsNegative() {
			return nil, ErrInvalidPrice
		}
		price = p
	}

	stock, err := strconv.Atoi(strings.TrimSpace(form.Stock))
	if err != nil || stock < 0 {
		stock = 0
	}

	category := models.Category(strings.ToLower(strings.TrimSpace(form.Category)))
	if category == "" {
		category = models.CategoryMobiles
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	return &models.Product{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Price:       price,
		Category:    category,
		ImageURL:    strings.TrimSpace(form.ImageURL),
		Stock:       stock,
		Featured:    form.Featured,
	}, nil
}

// CreateProduct adds a product from the admin form
func (s *ProductService) CreateProduct(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	p, err := ParseProductForm(form)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.recordInventory(ctx, p)
	productLog.Info().Str(logging.PRODUCT_ID, p.ID).Str("name", p.Name).Msg("product added")
	return p, nil
}

// UpdateProduct overwrites a product from the admin form
func (s *ProductService) UpdateProduct(ctx context.Context, id string, form models.ProductForm) (*models.Product, error) {
	p, err := ParseProductForm(form)
	if err != nil {
		return nil, err
	}
	p.ID = id

	err = s.products.Update(ctx, p)
	s.cache.Evict(id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	s.recordInventory(ctx, updated)
	productLog.Info().Str(logging.PRODUCT_ID, id).Msg("product updated")
	return updated, nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	s.cache.Evict(id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	productLog.Info().Str(logging.PRODUCT_ID, id).Msg("product deleted")
	return nil
}

// UploadImage stores a product image and returns the URL to put in the image field
func (s *ProductService) UploadImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if s.images == nil {
		return "", ErrImagesDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrInvalidImage
	}
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	url, err := s.images.Upload(ctx, name, contentType, r, size)
	if err != nil {
		return "", err
	}
	productLog.Info().Str("object", name).Int64("size", size).Msg("product image uploaded")
	return url, nil
}

func (s *ProductService) recordInventory(ctx context.Context, p *models.Product) {
	invAttrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("product_id", p.ID),
		attribute.String("product_category", string(p.Category)),
	})
	s.metrics.InventoryLevel.Record(ctx, int64(p.Stock), metric.WithAttributes(invAttrs...))
}
