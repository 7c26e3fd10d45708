package domain

// Money is a decimal amount kept as a string to avoid floating-point
// rounding, paired with an ISO currency code. Amounts are never combined
// arithmetically without re-parsing.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Merchandise is the purchasable variant a cart line points at.
type Merchandise struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ProductTitle string `json:"productTitle"`
	Image        *Image `json:"image,omitempty"`
}

type Line struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
	Cost        Money       `json:"cost"`
}

// Cart mirrors the remote order-in-progress resource. The identifier is
// remote-assigned and immutable; the remote cart is the single source of
// truth and any Cart value held locally is a cached copy.
type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       []Line `json:"lines"`
	Subtotal    Money  `json:"subtotal"`
	Total       Money  `json:"total"`
}
