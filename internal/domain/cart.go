package domain

// CartLine is a cart row as rendered on the storefront page.
type CartLine struct {
	ItemID    string
	ProductID string
	Quantity  int
	Price     *Money
}

// QuantityUpdate is the request body of add and update calls.
type QuantityUpdate struct {
	Quantity int `json:"quantity"`
}

// SubmitEvent is passed to form submit handlers.
type SubmitEvent struct {
	defaultPrevented bool
}

func (e *SubmitEvent) PreventDefault() {
	e.defaultPrevented = true
}

func (e *SubmitEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}
