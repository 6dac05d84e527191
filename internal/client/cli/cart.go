package cli

import (
	"context"
	"fmt"
)

func (a *App) AddToCart(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	qty := 1
	if len(args) > 1 {
		n, err := parseInt(args[1], "quantity")
		if err != nil {
			return err
		}
		qty = n
	}

	item, err := a.findMenuItem(ctx, args[0])
	if err != nil {
		return err
	}
	a.cart.AddItem(ctx, item, qty)
	a.out.Printf("Added %s to cart (%d items, %s)\n", item.Name, a.cart.Len(), a.money(a.cart.Total()))
	return nil
}

func (a *App) ShowCart(_ context.Context, _ []string) error {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.out.Println("Your cart is empty")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ItemID, l.Name, l.Quantity, a.money(l.Price), a.money(l.LineTotal()))
	}
	fmt.Fprintf(tw, "\t\t\t\t%s\n", a.money(a.cart.Total()))
	return tw.Flush()
}

func (a *App) SetQuantity(ctx context.Context, args []string) error {
	if err := needArgs(args, 2); err != nil {
		return err
	}
	n, err := parseInt(args[1], "quantity")
	if err != nil {
		return err
	}
	if n < 1 {
		a.out.Println("Quantity must be at least 1; use 'remove' to drop the item")
		return nil
	}
	a.reportCartChange(a.cart.SetQuantity(ctx, args[0], n), args[0])
	return nil
}

func (a *App) Increment(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	a.reportCartChange(a.cart.Increment(ctx, args[0]), args[0])
	return nil
}

// Decrement never takes a line below one; 'remove' drops it.
func (a *App) Decrement(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	a.reportCartChange(a.cart.Decrement(ctx, args[0]), args[0])
	return nil
}

func (a *App) RemoveFromCart(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	a.reportCartChange(a.cart.RemoveItem(ctx, args[0]), args[0])
	return nil
}

func (a *App) ClearCart(ctx context.Context, _ []string) error {
	a.cart.Clear(ctx)
	a.out.Println("Cart cleared")
	return nil
}

func (a *App) reportCartChange(changed bool, itemID string) {
	if !changed {
		a.out.Printf("Cart unchanged (%s)\n", itemID)
		return
	}
	a.out.Printf("Cart: %d items, %s\n", a.cart.Len(), a.money(a.cart.Total()))
}
