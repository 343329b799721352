package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind partitions the catalog into its two storefront sections.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// ParseKind validates a section name coming from a route or query param.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindMovie:
		return KindMovie, nil
	case KindSeries:
		return KindSeries, nil
	default:
		return "", fmt.Errorf("unknown catalog kind %q", raw)
	}
}

// Product is a normalized catalog entry. Every field defaults independently
// so a partially malformed upstream record still yields a usable product.
type Product struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Year            string           `json:"year"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   decimal.Decimal  `json:"originalPrice"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	OnSale          bool             `json:"onSale"`
	Genre           string           `json:"genre"`
	Rating          string           `json:"rating"`
	Description     string           `json:"description"`
	Image           string           `json:"image"`
	ImageAlt        string           `json:"imageAlt"`
	Tags            []string         `json:"tags"`
	Favorite        bool             `json:"favorite"`
}

// rawProduct accepts the loosely-typed upstream record. Upstream sends ids
// and years as either numbers or strings, images as either a bare URL string
// or an {url, alt} object, so everything lands in json.RawMessage or
// interface-friendly wrappers first.
type rawProduct struct {
	ID              json.RawMessage `json:"id"`
	Title           string          `json:"title"`
	Released        json.RawMessage `json:"released"`
	Year            json.RawMessage `json:"year"`
	Price           *float64        `json:"price"`
	DiscountedPrice *float64        `json:"discountedPrice"`
	OnSale          bool            `json:"onSale"`
	Genre           string          `json:"genre"`
	Rating          json.RawMessage `json:"rating"`
	Description     string          `json:"description"`
	Image           json.RawMessage `json:"image"`
	Tags            []string        `json:"tags"`
	Favorite        bool            `json:"favorite"`
}

type rawImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// scalarString renders a JSON scalar (string or number) as its string form.
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// transform normalizes one raw record. A record that is entirely unparsable
// (null object) returns an error and is dropped by the caller; individual
// missing fields only fall back to their defaults.
func transform(raw json.RawMessage) (Product, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Product{}, fmt.Errorf("product record is null")
	}

	var rp rawProduct
	if err := json.Unmarshal(raw, &rp); err != nil {
		return Product{}, fmt.Errorf("decode product record: %w", err)
	}

	p := Product{
		ID:          scalarString(rp.ID),
		Title:       rp.Title,
		Year:        scalarString(rp.Released),
		OnSale:      rp.OnSale,
		Genre:       rp.Genre,
		Rating:      scalarString(rp.Rating),
		Description: rp.Description,
		Tags:        rp.Tags,
		Favorite:    rp.Favorite,
	}

	if p.Title == "" {
		p.Title = "Untitled"
	}
	if p.Year == "" {
		p.Year = scalarString(rp.Year)
	}
	if p.Genre == "" {
		p.Genre = "Unknown"
	}
	if p.Rating == "" {
		p.Rating = "0"
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if rp.Price != nil {
		p.OriginalPrice = decimal.NewFromFloat(*rp.Price)
	}
	if rp.DiscountedPrice != nil {
		d := decimal.NewFromFloat(*rp.DiscountedPrice)
		p.DiscountedPrice = &d
	}
	p.Price = p.EffectivePrice()

	if len(rp.Image) > 0 && string(rp.Image) != "null" {
		var img rawImage
		if err := json.Unmarshal(rp.Image, &img); err == nil {
			p.Image = img.URL
			p.ImageAlt = img.Alt
		} else {
			var url string
			if err := json.Unmarshal(rp.Image, &url); err == nil {
				p.Image = url
			}
		}
	}
	if p.ImageAlt == "" {
		p.ImageAlt = rp.Title
	}
	if p.ImageAlt == "" {
		p.ImageAlt = "Image"
	}

	return p, nil
}

// EffectivePrice is the price actually charged: the discounted price when
// the product is on sale and a discount exists, else the original price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale && p.DiscountedPrice != nil && !p.DiscountedPrice.IsZero() {
		return *p.DiscountedPrice
	}
	return p.OriginalPrice
}
