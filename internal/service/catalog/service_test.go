package catalog_test

import (
	"context"
	"errors"
	"testing"

	"loteria-service/internal/model"
	"loteria-service/internal/service/catalog"
	appErr "loteria-service/pkg/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (*gorm.DB, *catalog.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Card{}); err != nil {
		t.Fatalf("failed to migrate card model: %v", err)
	}
	return db, catalog.NewService(db, nil)
}

func TestEnsureSeeded(t *testing.T) {
	ctx := context.Background()
	db, svc := newCatalogService(t)

	if err := svc.EnsureSeeded(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	var count int64
	if err := db.Model(&model.Card{}).Count(&count).Error; err != nil {
		t.Fatalf("count cards failed: %v", err)
	}
	if count != int64(catalog.DeckSize) {
		t.Fatalf("expected %d cards, got %d", catalog.DeckSize, count)
	}

	// Seeding again must not duplicate anything.
	if err := svc.EnsureSeeded(ctx); err != nil {
		t.Fatalf("repeat seed failed: %v", err)
	}
	if err := db.Model(&model.Card{}).Count(&count).Error; err != nil {
		t.Fatalf("count cards failed: %v", err)
	}
	if count != int64(catalog.DeckSize) {
		t.Fatalf("repeat seed changed card count to %d", count)
	}
}

func TestListCards(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogService(t)

	if err := svc.EnsureSeeded(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	cards, err := svc.ListCards(ctx)
	if err != nil {
		t.Fatalf("list cards failed: %v", err)
	}
	if len(cards) != catalog.DeckSize {
		t.Fatalf("expected %d cards, got %d", catalog.DeckSize, len(cards))
	}
	for i, card := range cards {
		if card.Ordinal != i+1 {
			t.Fatalf("cards out of ordinal order at index %d: %+v", i, card)
		}
		if card.Name == "" || card.ImageRef == "" {
			t.Fatalf("incomplete card at ordinal %d: %+v", card.Ordinal, card)
		}
	}
}

func TestGetCardNotFound(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogService(t)

	_, err := svc.GetCard(ctx, 999)
	if !errors.Is(err, appErr.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}
