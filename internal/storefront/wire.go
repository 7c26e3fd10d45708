package storefront

import "storefront/internal/domain"

// Wire shapes mirror the connection-style payloads returned by the
// storefront API. They are decoded once here and flattened into domain
// types so nothing downstream ever inspects edge/node nesting.

type wireMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type wireImage struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

type wireUserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type wireLine struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Product struct {
			Title string `json:"title"`
		} `json:"product"`
		Image *wireImage `json:"image"`
	} `json:"merchandise"`
	Cost struct {
		TotalAmount wireMoney `json:"totalAmount"`
	} `json:"cost"`
}

type wireCart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node wireLine `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
	EstimatedCost struct {
		SubtotalAmount wireMoney `json:"subtotalAmount"`
		TotalAmount    wireMoney `json:"totalAmount"`
	} `json:"estimatedCost"`
}

type wireCartMutation struct {
	Cart       *wireCart       `json:"cart"`
	UserErrors []wireUserError `json:"userErrors"`
}

// result interprets a mutation payload: non-empty user errors or a missing
// cart object yield an *APIError, otherwise the cart is flattened.
func (m wireCartMutation) result(op, fallback string) (*domain.Cart, error) {
	if len(m.UserErrors) > 0 || m.Cart == nil {
		msgs := make([]string, 0, len(m.UserErrors))
		for _, ue := range m.UserErrors {
			msgs = append(msgs, ue.Message)
		}
		return nil, &APIError{Op: op, Messages: msgs, Fallback: fallback}
	}
	return mapCart(*m.Cart), nil
}

func mapMoney(m wireMoney) domain.Money {
	return domain.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

func mapImage(img *wireImage) *domain.Image {
	if img == nil {
		return nil
	}
	mapped := &domain.Image{URL: img.URL}
	if img.AltText != nil {
		mapped.AltText = *img.AltText
	}
	return mapped
}

// mapCart flattens the wire cart into the UI-friendly snapshot shape. An
// absent or empty line collection maps to an empty slice, never nil.
func mapCart(w wireCart) *domain.Cart {
	lines := make([]domain.Line, 0, len(w.Lines.Edges))
	for _, edge := range w.Lines.Edges {
		n := edge.Node
		lines = append(lines, domain.Line{
			ID:       n.ID,
			Quantity: n.Quantity,
			Merchandise: domain.Merchandise{
				ID:           n.Merchandise.ID,
				Title:        n.Merchandise.Title,
				ProductTitle: n.Merchandise.Product.Title,
				Image:        mapImage(n.Merchandise.Image),
			},
			Cost: mapMoney(n.Cost.TotalAmount),
		})
	}
	return &domain.Cart{
		ID:          w.ID,
		CheckoutURL: w.CheckoutURL,
		Lines:       lines,
		Subtotal:    mapMoney(w.EstimatedCost.SubtotalAmount),
		Total:       mapMoney(w.EstimatedCost.TotalAmount),
	}
}
