package tickets

import "errors"

var (
	ErrTicketNotFound   = errors.New("service ticket not found")
	ErrAlreadyAssigned  = errors.New("mechanic already assigned to ticket")
	ErrNotAssigned      = errors.New("mechanic not assigned to ticket")
	ErrMissingFields    = errors.New("inventory_id and quantity are required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidReference = errors.New("service ticket or related record does not exist")
)
