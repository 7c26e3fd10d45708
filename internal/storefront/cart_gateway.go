package storefront

import (
	"context"

	"storefront/internal/domain"
)

// LineInput is one new line entry for an add-lines mutation.
type LineInput struct {
	MerchandiseID string
	Quantity      int
}

// LineUpdateInput targets an existing line by id.
type LineUpdateInput struct {
	ID       string
	Quantity int
}

// Gateway exposes the named cart operations of the remote API as typed
// calls. It holds no state of its own and never mutates anything locally;
// each method is a single isolated request.
type Gateway struct {
	client *Client
}

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// CreateCart issues a create mutation with empty input and returns the new
// remote-assigned cart.
func (g *Gateway) CreateCart(ctx context.Context) (*domain.Cart, error) {
	var out struct {
		CartCreate wireCartMutation `json:"cartCreate"`
	}
	vars := map[string]interface{}{"input": map[string]interface{}{}}
	if err := g.client.Do(ctx, "cartCreate", cartCreateMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CartCreate.result("cartCreate", "Failed to create cart")
}

// Cart fetches a cart by id. A null cart in the response maps to
// domain.ErrNotFound so resumption can silently fall back to creation.
func (g *Gateway) Cart(ctx context.Context, id string) (*domain.Cart, error) {
	var out struct {
		Cart *wireCart `json:"cart"`
	}
	if err := g.client.Do(ctx, "cart", cartQuery, map[string]interface{}{"id": id}, &out); err != nil {
		return nil, err
	}
	if out.Cart == nil {
		return nil, domain.ErrNotFound
	}
	return mapCart(*out.Cart), nil
}

func (g *Gateway) AddLines(ctx context.Context, cartID string, lines []LineInput) (*domain.Cart, error) {
	wireLines := make([]map[string]interface{}, 0, len(lines))
	for _, l := range lines {
		wireLines = append(wireLines, map[string]interface{}{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		})
	}
	var out struct {
		CartLinesAdd wireCartMutation `json:"cartLinesAdd"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lines": wireLines}
	if err := g.client.Do(ctx, "cartLinesAdd", cartLinesAddMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CartLinesAdd.result("cartLinesAdd", "Failed to add line")
}

func (g *Gateway) UpdateLines(ctx context.Context, cartID string, lines []LineUpdateInput) (*domain.Cart, error) {
	wireLines := make([]map[string]interface{}, 0, len(lines))
	for _, l := range lines {
		wireLines = append(wireLines, map[string]interface{}{
			"id":       l.ID,
			"quantity": l.Quantity,
		})
	}
	var out struct {
		CartLinesUpdate wireCartMutation `json:"cartLinesUpdate"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lines": wireLines}
	if err := g.client.Do(ctx, "cartLinesUpdate", cartLinesUpdateMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CartLinesUpdate.result("cartLinesUpdate", "Failed to update line")
}

func (g *Gateway) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	var out struct {
		CartLinesRemove wireCartMutation `json:"cartLinesRemove"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lineIds": lineIDs}
	if err := g.client.Do(ctx, "cartLinesRemove", cartLinesRemoveMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CartLinesRemove.result("cartLinesRemove", "Failed to remove line")
}
