package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
)

// AllCategories disables category filtering in Filter.
const AllCategories = "all"

type MenuService interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	// Filter keeps items of category (case-insensitive; "" or "all" match
	// everything) whose name or description contains query.
	Filter(items []models.MenuItem, category, query string) []models.MenuItem
	Categories(items []models.MenuItem) []string
	// Save creates or updates an item after normalizing it. Admin only.
	Save(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type menuService struct {
	api   client.MenuAPI
	guard Guard
}

func NewMenuService(api client.MenuAPI, guard Guard) MenuService {
	return &menuService{api: api, guard: guard}
}

func (s *menuService) List(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.api.ListMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

func (s *menuService) Filter(items []models.MenuItem, category, query string) []models.MenuItem {
	category = strings.ToLower(strings.TrimSpace(category))
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if category != "" && category != AllCategories && categoryOf(it) != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(it.Name), query) &&
			!strings.Contains(strings.ToLower(it.Description), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (s *menuService) Categories(items []models.MenuItem) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		c := categoryOf(it)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func categoryOf(it models.MenuItem) string {
	c := strings.ToLower(strings.TrimSpace(it.Category))
	if c == "" {
		return models.DefaultCategory
	}
	return c
}

// NormalizeMenuItem trims text fields and fills defaults. It rejects items
// without a name, with a negative price or with a discount outside [0, 100].
func NormalizeMenuItem(item models.MenuItem) (models.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	item.Thumbnail = strings.TrimSpace(item.Thumbnail)
	item.Category = strings.TrimSpace(item.Category)
	if item.Category == "" {
		item.Category = models.DefaultCategory
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	switch {
	case item.Name == "":
		return item, fmt.Errorf("%w: name is required", common.ErrValidation)
	case item.Price < 0:
		return item, fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	case item.Discount < 0 || item.Discount > 100:
		return item, fmt.Errorf("%w: discount must be between 0 and 100", common.ErrValidation)
	}
	return item, nil
}

func (s *menuService) Save(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	if _, err := s.guard.RequireAdmin(); err != nil {
		return nil, err
	}
	item, err := NormalizeMenuItem(item)
	if err != nil {
		return nil, err
	}

	var saved *models.MenuItem
	if item.ID == "" {
		saved, err = s.api.CreateMenuItem(ctx, item)
	} else {
		saved, err = s.api.UpdateMenuItem(ctx, item)
	}
	if err != nil {
		return nil, fmt.Errorf("save menu item: %w", err)
	}
	return saved, nil
}

func (s *menuService) Delete(ctx context.Context, id string) error {
	if _, err := s.guard.RequireAdmin(); err != nil {
		return err
	}
	if err := s.api.DeleteMenuItem(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}
