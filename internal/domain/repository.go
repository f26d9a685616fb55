package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque JSON documents.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductRepository defines the interface for the product information store
type ProductRepository interface {
	Save(ctx context.Context, product *ProductInfo) (*ProductInfo, error)
	Get(ctx context.Context, id string) (*ProductInfo, error)
	ListRecent(ctx context.Context, limit int) ([]*ProductInfo, error)
}

// Prompt is a system/user prompt pair for a text generation service.
// When JSONSchema is set the service is asked for a JSON document matching it.
type Prompt struct {
	System     string
	User       string
	SchemaName string
	JSONSchema map[string]interface{}
}

// TextGenerator defines the interface for the text generation (LLM) service
type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
