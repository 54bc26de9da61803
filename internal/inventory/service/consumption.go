package service

import (
	"github.com/shopspring/decimal"

	"dentalab/internal/domain"
	apperrors "dentalab/internal/errors"
)

// Required returns the material quantity entry consumes for lineQuantity
// units of its service. effective is false when the BOM factor is missing or
// not positive, in which case the requirement is zero.
func Required(entry domain.BOMEntry, lineQuantity int) (required decimal.Decimal, effective bool, err error) {
	if lineQuantity <= 0 {
		return decimal.Zero, false, apperrors.NewInvalidQuantityError(entry.ServiceID, lineQuantity)
	}

	perUnit, ok := entry.PerUnit()
	if !ok {
		return decimal.Zero, false, nil
	}

	return perUnit.Mul(decimal.NewFromInt(int64(lineQuantity))), true, nil
}
