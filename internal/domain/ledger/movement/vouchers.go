package movement

import (
	"context"

	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/id"
	"cajalibro/pkg/logger"
)

// VoucherAction selects how a voucher mutation combines with the stored
// collection.
type VoucherAction string

const (
	// VoucherAdd appends to the existing collection; duplicates are kept.
	VoucherAdd VoucherAction = "add"
	// VoucherRemove filters out exact string matches.
	VoucherRemove VoucherAction = "remove"
	// VoucherReplace discards the prior collection entirely.
	VoucherReplace VoucherAction = "replace"
)

// ApplyVoucherAction computes the new voucher collection in memory.
// Returns VALIDATION_ERROR for an unknown action.
func ApplyVoucherAction(current []string, action VoucherAction, vouchers []string) ([]string, error) {
	switch action {
	case VoucherAdd:
		result := make([]string, 0, len(current)+len(vouchers))
		result = append(result, current...)
		result = append(result, vouchers...)
		return result, nil

	case VoucherRemove:
		removed := make(map[string]bool, len(vouchers))
		for _, v := range vouchers {
			removed[v] = true
		}
		result := make([]string, 0, len(current))
		for _, v := range current {
			if !removed[v] {
				result = append(result, v)
			}
		}
		return result, nil

	case VoucherReplace:
		result := make([]string, len(vouchers))
		copy(result, vouchers)
		return result, nil

	default:
		return nil, apperror.NewValidation("invalid voucher action").
			WithDetail("field", "action").
			WithDetail("value", string(action))
	}
}

// MutateVouchers reads the movement's current voucher collection, applies
// the action in memory and writes the result back as a single atomic
// update. Concurrency beyond the store's row-level write is not serialized
// here.
func (s *Service) MutateVouchers(ctx context.Context, movementID id.ID, action VoucherAction, vouchers []string) ([]string, error) {
	var updated []string

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		kind, current, err := s.repo.GetVouchers(ctx, movementID)
		if err != nil {
			return err
		}

		updated, err = ApplyVoucherAction(current, action, vouchers)
		if err != nil {
			return err
		}

		return s.repo.SetVouchers(ctx, kind, movementID, updated)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "vouchers mutated",
		"movement_id", movementID,
		"action", string(action),
		"count", len(updated),
	)

	return updated, nil
}
