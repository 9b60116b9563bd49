package dto

import (
	"cajalibro/internal/core/apperror"
	"cajalibro/internal/core/types"
	"cajalibro/internal/domain/ledger/account"
)

// AccountResponse contains account fields. Balance is serialized as a
// string to preserve decimal precision across clients.
type AccountResponse struct {
	BaseResponse
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// FromAccount creates AccountResponse from the entity.
func FromAccount(a *account.Account) AccountResponse {
	return AccountResponse{
		BaseResponse: FromBaseEntity(a.BaseEntity),
		Name:         a.Name,
		Balance:      a.Balance.String(),
	}
}

// CreateAccountRequest for creating accounts.
type CreateAccountRequest struct {
	Name    string `json:"name" binding:"required"`
	Balance string `json:"balance"`
}

// ToEntity maps the request to a new Account.
func (r CreateAccountRequest) ToEntity() (*account.Account, error) {
	balance := types.Zero()
	if r.Balance != "" {
		var err error
		balance, err = types.NewMoneyFromString(r.Balance)
		if err != nil {
			return nil, apperror.NewValidation("balance is not a number").
				WithDetail("field", "balance").
				WithDetail("value", r.Balance)
		}
	}
	return account.New(r.Name, balance), nil
}
