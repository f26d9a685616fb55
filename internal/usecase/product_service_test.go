package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/labelcheck/backend/internal/domain"
)

func TestSaveProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("stores product", func(t *testing.T) {
		repo := NewMockProductRepository()
		svc := NewProductService(repo)

		p := parleG()
		p.ID = ""
		saved, err := svc.SaveProduct(ctx, p)
		if err != nil {
			t.Fatalf("SaveProduct() error = %v", err)
		}
		if saved.ID != "generated-id" {
			t.Errorf("ID = %q, want generated-id", saved.ID)
		}
		if _, ok := repo.products["generated-id"]; !ok {
			t.Error("product was not stored")
		}
	})

	t.Run("requires product name", func(t *testing.T) {
		svc := NewProductService(NewMockProductRepository())
		for _, p := range []*domain.ProductInfo{nil, {BrandName: "Parle"}} {
			if _, err := svc.SaveProduct(ctx, p); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		}
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewMockProductRepository()
	repo.products["parle-g"] = parleG()
	svc := NewProductService(repo)

	got, err := svc.GetProduct(ctx, "parle-g")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got.BrandName != "Parle" {
		t.Errorf("BrandName = %q, want Parle", got.BrandName)
	}

	if _, err := svc.GetProduct(ctx, ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("empty id error = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.GetProduct(ctx, "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("missing id error = %v, want ErrProductNotFound", err)
	}
}

func TestListProducts(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default when zero", 0, 20},
		{"default when negative", -3, 20},
		{"passes through", 5, 5},
		{"clamped to max", 1000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockProductRepository()
			svc := NewProductService(repo)

			if _, err := svc.ListProducts(context.Background(), tt.limit); err != nil {
				t.Fatalf("ListProducts() error = %v", err)
			}
			if repo.lastLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", repo.lastLimit, tt.wantLimit)
			}
		})
	}
}
