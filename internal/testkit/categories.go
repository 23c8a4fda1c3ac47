package testkit

import (
	"context"
	"sync"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// FakeCategories implements contracts.CategoryRepository.
type FakeCategories struct {
	mu   sync.Mutex
	Rows []domain.Category
}

var _ contracts.CategoryRepository = (*FakeCategories)(nil)

func NewFakeCategories(rows ...domain.Category) *FakeCategories {
	return &FakeCategories{Rows: rows}
}

func (f *FakeCategories) List(context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Category, len(f.Rows))
	copy(out, f.Rows)
	return out, nil
}

func (f *FakeCategories) Insert(_ context.Context, c domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rows = append(f.Rows, c)
	return nil
}

func (f *FakeCategories) Update(_ context.Context, c domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == c.ID {
			f.Rows[i] = c
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

func (f *FakeCategories) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
			return nil
		}
	}
	return nil
}
