package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{"plain http", "http://localhost:9000", "http://localhost:9000/product-images/a.jpg"},
		{"https", "https://cdn.example.com", "https://cdn.example.com/product-images/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.endpoint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, PublicURL(u, "product-images", "a.jpg"))
		})
	}
}
