package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/services"
	"github.com/dmitrijs2005/restorder/internal/common"
)

// Menu prints the menu, optionally narrowed to a category and a search query.
func (a *App) Menu(ctx context.Context, args []string) error {
	items, err := a.menu.List(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.menuItems = items
	a.mu.Unlock()

	category, query := services.AllCategories, ""
	if len(args) > 0 {
		category = args[0]
	}
	if len(args) > 1 {
		query = strings.Join(args[1:], " ")
	}

	a.out.Printf("Categories: %s\n", strings.Join(a.menu.Categories(items), ", "))

	shown := a.menu.Filter(items, category, query)
	if len(shown) == 0 {
		a.out.Println("Nothing matches")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, it := range shown {
		price := a.money(it.EffectivePrice())
		if it.Discount > 0 {
			price = fmt.Sprintf("%s (-%g%%)", price, it.Discount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Category, price)
	}
	return tw.Flush()
}

// findMenuItem looks id up in the last listed menu, refreshing it once when
// the id is not there.
func (a *App) findMenuItem(ctx context.Context, id string) (models.MenuItem, error) {
	a.mu.Lock()
	cached := a.menuItems
	a.mu.Unlock()

	if it, ok := menuItemByID(cached, id); ok {
		return it, nil
	}

	items, err := a.menu.List(ctx)
	if err != nil {
		return models.MenuItem{}, err
	}
	a.mu.Lock()
	a.menuItems = items
	a.mu.Unlock()

	if it, ok := menuItemByID(items, id); ok {
		return it, nil
	}
	return models.MenuItem{}, fmt.Errorf("menu item %s: %w", id, common.ErrNotFound)
}

func menuItemByID(items []models.MenuItem, id string) (models.MenuItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

func (a *App) AddMenuItem(ctx context.Context, _ []string) error {
	item, err := a.inputMenuItem(ctx, models.MenuItem{})
	if err != nil {
		return err
	}
	return a.saveMenuItem(ctx, item)
}

func (a *App) EditMenuItem(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	current, err := a.findMenuItem(ctx, args[0])
	if err != nil {
		return err
	}
	item, err := a.inputMenuItem(ctx, current)
	if err != nil {
		return err
	}
	return a.saveMenuItem(ctx, item)
}

func (a *App) saveMenuItem(ctx context.Context, item models.MenuItem) error {
	saved, err := a.menu.Save(ctx, item)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.menuItems = nil
	a.mu.Unlock()
	a.out.Printf("Saved %s (%s)\n", saved.Name, saved.ID)
	return nil
}

// inputMenuItem prompts for every editable field, offering the values of
// current as defaults. An optional image file is uploaded on the spot.
func (a *App) inputMenuItem(ctx context.Context, current models.MenuItem) (models.MenuItem, error) {
	item := current

	var err error
	if item.Name, err = GetTextWithDefault(a.reader, "Name", current.Name, a.out); err != nil {
		return item, err
	}
	if current.Description != "" {
		a.out.Printf("Current description:\n%s\n", current.Description)
	}
	desc, err := GetMultiline(a.reader, "Description (empty keeps the current one)", a.out)
	if err != nil {
		return item, err
	}
	if desc != "" {
		item.Description = desc
	}
	if item.Category, err = GetTextWithDefault(a.reader, "Category", current.Category, a.out); err != nil {
		return item, err
	}
	if item.Price, err = GetNumber(a.reader, "Price", current.Price, a.out); err != nil {
		return item, err
	}
	if item.Discount, err = GetNumber(a.reader, "Discount %", current.Discount, a.out); err != nil {
		return item, err
	}

	path, err := getSimpleText(a.reader, "Image file (empty to skip)", a.out)
	if err != nil {
		return item, err
	}
	if path != "" {
		img, err := a.images.Upload(ctx, path)
		if err != nil {
			return item, err
		}
		item.Thumbnail = img.URL
		item.Images = append(item.Images, img.URL)
	}

	if _, err := services.NormalizeMenuItem(item); err != nil {
		return item, err
	}
	return item, nil
}

func (a *App) DeleteMenuItem(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete menu item %s? (y/N)", args[0]), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		return nil
	}
	if err := a.menu.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.mu.Lock()
	a.menuItems = nil
	a.mu.Unlock()
	a.out.Println("Deleted")
	return nil
}

// Upload sends a single image and prints its public URL.
func (a *App) Upload(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	img, err := a.images.Upload(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.out.Println(img.URL)
	return nil
}
