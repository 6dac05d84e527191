package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
)

type AddressService interface {
	List(ctx context.Context) ([]models.Address, error)
	// Save creates a when it has no id and updates it otherwise.
	Save(ctx context.Context, a models.Address) (*models.Address, error)
	Delete(ctx context.Context, id string) error
	// SetDefault makes id the default and returns the refreshed list, in
	// which exactly that address is flagged.
	SetDefault(ctx context.Context, id string) ([]models.Address, error)
	Default(list []models.Address) (models.Address, bool)
}

type addressService struct {
	api   client.AddressAPI
	guard Guard
}

func NewAddressService(api client.AddressAPI, guard Guard) AddressService {
	return &addressService{api: api, guard: guard}
}

func (s *addressService) List(ctx context.Context) ([]models.Address, error) {
	if _, err := s.guard.RequireUser(); err != nil {
		return nil, err
	}
	list, err := s.api.ListAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return list, nil
}

func (s *addressService) Save(ctx context.Context, a models.Address) (*models.Address, error) {
	if _, err := s.guard.RequireUser(); err != nil {
		return nil, err
	}

	a.Label = strings.TrimSpace(a.Label)
	a.AddressLine = strings.TrimSpace(a.AddressLine)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var (
		saved *models.Address
		err   error
	)
	if a.ID == "" {
		saved, err = s.api.CreateAddress(ctx, a)
	} else {
		saved, err = s.api.UpdateAddress(ctx, a)
	}
	if err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}
	return saved, nil
}

func (s *addressService) Delete(ctx context.Context, id string) error {
	if _, err := s.guard.RequireUser(); err != nil {
		return err
	}
	if err := s.api.DeleteAddress(ctx, id); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

func (s *addressService) SetDefault(ctx context.Context, id string) ([]models.Address, error) {
	if _, err := s.guard.RequireUser(); err != nil {
		return nil, err
	}

	def, err := s.api.SetDefaultAddress(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}
	defaultID := id
	if def != nil && def.ID != "" {
		defaultID = def.ID
	}

	list, err := s.api.ListAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	for i := range list {
		list[i].IsDefault = list[i].ID == defaultID
	}
	return list, nil
}

func (s *addressService) Default(list []models.Address) (models.Address, bool) {
	for _, a := range list {
		if a.IsDefault {
			return a, true
		}
	}
	return models.Address{}, false
}
