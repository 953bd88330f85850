package service

import (
	"context"
	"strings"

	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/validator"

	"github.com/google/uuid"
)

type SKUService interface {
	ValidateFormat(code string) validator.SKUResult
	IsUnique(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Validate(ctx context.Context, code string, excludeID uuid.UUID) (validator.SKUResult, error)
}

type skuService struct {
	productRepo repository.ProductRepository
}

func NewSKUService(pRepo repository.ProductRepository) SKUService {
	return &skuService{productRepo: pRepo}
}

func (s *skuService) ValidateFormat(code string) validator.SKUResult {
	return validator.ValidateSKUFormat(code)
}

// IsUnique is an exact, case-sensitive match against the live store. An
// empty code is always unique since products may omit the SKU.
func (s *skuService) IsUnique(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return true, nil
	}
	taken, err := s.productRepo.SKUTaken(ctx, code, excludeID)
	if err != nil {
		return false, storageErr("check sku", err)
	}
	return !taken, nil
}

// Validate checks the format first and only queries the store for well-formed
// codes.
func (s *skuService) Validate(ctx context.Context, code string, excludeID uuid.UUID) (validator.SKUResult, error) {
	res := validator.ValidateSKUFormat(code)
	if !res.Valid {
		return res, nil
	}
	unique, err := s.IsUnique(ctx, code, excludeID)
	if err != nil {
		return validator.SKUResult{}, err
	}
	if !unique {
		return validator.SKUInvalid("SKU %q is already assigned to another product", strings.TrimSpace(code)), nil
	}
	return res, nil
}
