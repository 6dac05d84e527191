package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
)

func (a *App) Addresses(ctx context.Context, _ []string) error {
	list, err := a.addresses.List(ctx)
	if err != nil {
		return err
	}
	a.printAddresses(list)
	return nil
}

func (a *App) printAddresses(list []models.Address) {
	if len(list) == 0 {
		a.out.Println("No saved addresses")
		return
	}
	tw := newTable(a.out)
	fmt.Fprintln(tw, "\tID\tADDRESS")
	for _, ad := range list {
		mark := ""
		if ad.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, ad.ID, ad)
	}
	_ = tw.Flush()
}

func (a *App) AddAddress(ctx context.Context, _ []string) error {
	ad, err := a.inputAddress(models.Address{})
	if err != nil {
		return err
	}
	saved, err := a.addresses.Save(ctx, ad)
	if err != nil {
		return err
	}
	a.out.Printf("Saved address %s\n", saved.ID)
	return nil
}

func (a *App) EditAddress(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	current, err := a.findAddress(ctx, args[0])
	if err != nil {
		return err
	}
	ad, err := a.inputAddress(current)
	if err != nil {
		return err
	}
	if _, err := a.addresses.Save(ctx, ad); err != nil {
		return err
	}
	a.out.Println("Address updated")
	return nil
}

func (a *App) DeleteAddress(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	if err := a.addresses.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.out.Println("Address deleted")
	return nil
}

func (a *App) SetDefaultAddress(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	list, err := a.addresses.SetDefault(ctx, args[0])
	if err != nil {
		return err
	}
	a.printAddresses(list)
	return nil
}

func (a *App) findAddress(ctx context.Context, id string) (models.Address, error) {
	list, err := a.addresses.List(ctx)
	if err != nil {
		return models.Address{}, err
	}
	for _, ad := range list {
		if ad.ID == id {
			return ad, nil
		}
	}
	return models.Address{}, fmt.Errorf("address %s: %w", id, common.ErrNotFound)
}

func (a *App) inputAddress(current models.Address) (models.Address, error) {
	ad := current
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Label (Home, Work, ...)", &ad.Label},
		{"Address line", &ad.AddressLine},
		{"City", &ad.City},
		{"State", &ad.State},
		{"Pincode", &ad.Pincode},
	}
	for _, f := range fields {
		v, err := GetTextWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return ad, err
		}
		*f.dst = v
	}
	return ad, nil
}
