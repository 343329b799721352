package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/squareeyes/backend/internal/cart"
	"github.com/squareeyes/backend/internal/catalog"
	"github.com/squareeyes/backend/internal/checkout"
	"github.com/squareeyes/backend/pkg/gradient"
)

// money renders a decimal as a fixed 2dp string. Rounding happens here,
// at the display edge, never in the domain math.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func moneyPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}

// productDTO is the listing/detail payload. The gradient fields travel with
// every product so independent pages render the same visual variant.
type productDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Year            string   `json:"year"`
	Price           string   `json:"price"`
	OriginalPrice   string   `json:"originalPrice"`
	DiscountedPrice *string  `json:"discountedPrice,omitempty"`
	OnSale          bool     `json:"onSale"`
	Genre           string   `json:"genre"`
	Rating          string   `json:"rating"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	ImageAlt        string   `json:"imageAlt"`
	Tags            []string `json:"tags"`
	Favorite        bool     `json:"favorite"`
	GradientIndex   int      `json:"gradientIndex"`
	Gradient        string   `json:"gradient"`
}

func toProductDTO(p catalog.Product) productDTO {
	return productDTO{
		ID:              p.ID,
		Title:           p.Title,
		Year:            p.Year,
		Price:           money(p.Price),
		OriginalPrice:   money(p.OriginalPrice),
		DiscountedPrice: moneyPtr(p.DiscountedPrice),
		OnSale:          p.OnSale,
		Genre:           p.Genre,
		Rating:          p.Rating,
		Description:     p.Description,
		Image:           p.Image,
		ImageAlt:        p.ImageAlt,
		Tags:            p.Tags,
		Favorite:        p.Favorite,
		GradientIndex:   gradient.Index(p.ID),
		Gradient:        gradient.Gradient(p.ID),
	}
}

func toProductDTOs(products []catalog.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

type lineItemDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Price         string `json:"price"`
	Quantity      int    `json:"quantity"`
	LineTotal     string `json:"lineTotal"`
	Year          string `json:"year"`
	Genre         string `json:"genre"`
	Image         string `json:"image"`
	ImageAlt      string `json:"imageAlt"`
	GradientIndex int    `json:"gradientIndex"`
	Gradient      string `json:"gradient"`
}

type cartDTO struct {
	Items []lineItemDTO `json:"items"`
	Count int           `json:"count"`
	Total string        `json:"total"`
}

func toCartDTO(items []cart.LineItem) cartDTO {
	dto := cartDTO{Items: make([]lineItemDTO, 0, len(items))}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		dto.Items = append(dto.Items, lineItemDTO{
			ID:            item.ID,
			Title:         item.Title,
			Price:         money(item.Price),
			Quantity:      item.Quantity,
			LineTotal:     money(item.Price.Mul(qty)),
			Year:          item.Year,
			Genre:         item.Genre,
			Image:         item.Image,
			ImageAlt:      item.ImageAlt,
			GradientIndex: gradient.Index(item.ID),
			Gradient:      gradient.Gradient(item.ID),
		})
		dto.Count += item.Quantity
	}
	dto.Total = money(cart.SnapshotTotal(items))
	return dto
}

type totalsDTO struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

func toTotalsDTO(t checkout.Totals) totalsDTO {
	return totalsDTO{
		Subtotal: money(t.Subtotal),
		Tax:      money(t.Tax),
		Total:    money(t.Total),
	}
}

type orderDTO struct {
	ID       string        `json:"id"`
	Items    []lineItemDTO `json:"items"`
	Totals   totalsDTO     `json:"totals"`
	PlacedAt string        `json:"placedAt"`
}

func toOrderDTO(record *checkout.OrderRecord) orderDTO {
	return orderDTO{
		ID:       record.ID,
		Items:    toCartDTO(record.Items).Items,
		Totals:   toTotalsDTO(record.Totals),
		PlacedAt: record.PlacedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
