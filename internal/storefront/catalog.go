package storefront

import (
	"context"

	"storefront/internal/domain"
)

type wireProduct struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Handle          string     `json:"handle"`
	DescriptionHTML string     `json:"descriptionHtml"`
	FeaturedImage   *wireImage `json:"featuredImage"`
	PriceRange      struct {
		MinVariantPrice wireMoney `json:"minVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID               string    `json:"id"`
				Title            string    `json:"title"`
				AvailableForSale bool      `json:"availableForSale"`
				Price            wireMoney `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func mapProduct(w wireProduct) domain.Product {
	p := domain.Product{
		ID:              w.ID,
		Title:           w.Title,
		Handle:          w.Handle,
		DescriptionHTML: w.DescriptionHTML,
		FeaturedImage:   mapImage(w.FeaturedImage),
		MinPrice:        mapMoney(w.PriceRange.MinVariantPrice),
	}
	for _, edge := range w.Variants.Edges {
		n := edge.Node
		p.Variants = append(p.Variants, domain.Variant{
			ID:               n.ID,
			Title:            n.Title,
			AvailableForSale: n.AvailableForSale,
			Price:            mapMoney(n.Price),
		})
	}
	return p
}

// Products lists the best-selling products for the storefront landing grid.
func (g *Gateway) Products(ctx context.Context) ([]domain.Product, error) {
	var out struct {
		Products struct {
			Edges []struct {
				Node wireProduct `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := g.client.Do(ctx, "products", productsQuery, nil, &out); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(out.Products.Edges))
	for _, edge := range out.Products.Edges {
		products = append(products, mapProduct(edge.Node))
	}
	return products, nil
}

// ProductByHandle fetches one product with its variants. A null product
// maps to domain.ErrNotFound.
func (g *Gateway) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var out struct {
		Product *wireProduct `json:"product"`
	}
	vars := map[string]interface{}{"handle": handle}
	if err := g.client.Do(ctx, "product", productByHandleQuery, vars, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, domain.ErrNotFound
	}
	p := mapProduct(*out.Product)
	return &p, nil
}

func (g *Gateway) Collections(ctx context.Context, first int) ([]domain.Collection, error) {
	var out struct {
		Collections struct {
			Edges []struct {
				Node struct {
					ID          string     `json:"id"`
					Title       string     `json:"title"`
					Handle      string     `json:"handle"`
					Description string     `json:"description"`
					Image       *wireImage `json:"image"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"collections"`
	}
	vars := map[string]interface{}{"first": first}
	if err := g.client.Do(ctx, "collections", collectionsQuery, vars, &out); err != nil {
		return nil, err
	}
	collections := make([]domain.Collection, 0, len(out.Collections.Edges))
	for _, edge := range out.Collections.Edges {
		n := edge.Node
		collections = append(collections, domain.Collection{
			ID:          n.ID,
			Title:       n.Title,
			Handle:      n.Handle,
			Description: n.Description,
			Image:       mapImage(n.Image),
		})
	}
	return collections, nil
}

func (g *Gateway) Shop(ctx context.Context) (*domain.Shop, error) {
	var out struct {
		Shop *struct {
			Name        string  `json:"name"`
			Description *string `json:"description"`
			Brand       *struct {
				Logo *struct {
					Image *wireImage `json:"image"`
				} `json:"logo"`
			} `json:"brand"`
			PrimaryDomain struct {
				URL string `json:"url"`
			} `json:"primaryDomain"`
			PaymentSettings struct {
				CountryCode  string `json:"countryCode"`
				CurrencyCode string `json:"currencyCode"`
			} `json:"paymentSettings"`
		} `json:"shop"`
	}
	if err := g.client.Do(ctx, "shop", shopInfoQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.Shop == nil {
		return nil, domain.ErrNotFound
	}
	shop := &domain.Shop{
		Name:          out.Shop.Name,
		PrimaryDomain: out.Shop.PrimaryDomain.URL,
		CountryCode:   out.Shop.PaymentSettings.CountryCode,
		CurrencyCode:  out.Shop.PaymentSettings.CurrencyCode,
	}
	if out.Shop.Description != nil {
		shop.Description = *out.Shop.Description
	}
	if out.Shop.Brand != nil && out.Shop.Brand.Logo != nil && out.Shop.Brand.Logo.Image != nil {
		shop.LogoURL = out.Shop.Brand.Logo.Image.URL
	}
	return shop, nil
}

func (g *Gateway) Pages(ctx context.Context, first int) ([]domain.Page, error) {
	var out struct {
		Pages struct {
			Edges []struct {
				Node domain.Page `json:"node"`
			} `json:"edges"`
		} `json:"pages"`
	}
	vars := map[string]interface{}{"first": first}
	if err := g.client.Do(ctx, "pages", pagesQuery, vars, &out); err != nil {
		return nil, err
	}
	pages := make([]domain.Page, 0, len(out.Pages.Edges))
	for _, edge := range out.Pages.Edges {
		pages = append(pages, edge.Node)
	}
	return pages, nil
}

func (g *Gateway) Policies(ctx context.Context) (*domain.Policies, error) {
	var out struct {
		Shop *domain.Policies `json:"shop"`
	}
	if err := g.client.Do(ctx, "policies", policiesQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.Shop == nil {
		return &domain.Policies{}, nil
	}
	return out.Shop, nil
}
