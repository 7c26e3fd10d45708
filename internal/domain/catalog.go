package domain

type Variant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            Money  `json:"price"`
}

type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Handle          string    `json:"handle"`
	DescriptionHTML string    `json:"descriptionHtml,omitempty"`
	FeaturedImage   *Image    `json:"featuredImage,omitempty"`
	MinPrice        Money     `json:"minPrice"`
	Variants        []Variant `json:"variants,omitempty"`
}

type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description,omitempty"`
	Image       *Image `json:"image,omitempty"`
}

type Shop struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	LogoURL       string `json:"logoUrl,omitempty"`
	PrimaryDomain string `json:"primaryDomain"`
	CountryCode   string `json:"countryCode"`
	CurrencyCode  string `json:"currencyCode"`
}

type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Body        string `json:"body"`
	BodySummary string `json:"bodySummary,omitempty"`
}

type Policy struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url,omitempty"`
}

// Policies groups the shop-level legal documents the storefront renders.
type Policies struct {
	Privacy  *Policy `json:"privacyPolicy"`
	Refund   *Policy `json:"refundPolicy"`
	Shipping *Policy `json:"shippingPolicy"`
	Terms    *Policy `json:"termsOfService"`
}
