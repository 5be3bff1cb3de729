// Package catalog holds the product list and promotional carousel, persisted
// in the local key-value store.
package catalog

import (
	"github.com/shopspring/decimal"
)

// MaxAdditionalImages caps the number of secondary images per product.
const MaxAdditionalImages = 3

// Product is a catalog item. The JSON field names follow the storefront's
// persisted format.
type Product struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Image            string          `json:"image"`
	AdditionalImages []string        `json:"additionalImages"`
	IsPromotion      bool            `json:"isPromotion"`
	CouponCode       string          `json:"couponCode,omitempty"`
	DiscountPercent  int             `json:"discountPercent,omitempty"`
}

// DefaultProducts returns the seed catalog shown before an admin saves one.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Smartphone Premium",
			Description: "Smartphone de última geração com câmera de alta qualidade e desempenho excepcional.",
			Price:       decimal.New(199999, -2),
			Image:       "https://images.unsplash.com/photo-1649972904349-6e44c42644a7?w=500&h=500&fit=crop",
			IsPromotion: true,
		},
		{
			ID:          2,
			Name:        "Notebook Ultrafino",
			Description: "Notebook leve e potente para produtividade em qualquer lugar.",
			Price:       decimal.New(349999, -2),
			Image:       "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?w=500&h=500&fit=crop",
		},
		{
			ID:          3,
			Name:        "Fones de Ouvido Bluetooth",
			Description: "Fones com cancelamento de ruído e qualidade de som excepcional.",
			Price:       decimal.New(34999, -2),
			Image:       "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=500&h=500&fit=crop",
			IsPromotion: true,
		},
		{
			ID:          4,
			Name:        "Smartwatch Fitness",
			Description: "Monitore sua saúde e atividades com este relógio inteligente resistente à água.",
			Price:       decimal.New(49999, -2),
			Image:       "https://images.unsplash.com/photo-1526374965328-7f61d4dc18c5?w=500&h=500&fit=crop",
		},
		{
			ID:          5,
			Name:        "Tablet Profissional",
			Description: "Tablet com tela de alta resolução ideal para designers e profissionais criativos.",
			Price:       decimal.New(279999, -2),
			Image:       "https://images.unsplash.com/photo-1531297484001-80022131f5a1?w=500&h=500&fit=crop",
		},
		{
			ID:          6,
			Name:        "Câmera Mirrorless 4K",
			Description: "Captura imagens e vídeos em alta resolução com qualidade profissional.",
			Price:       decimal.New(429999, -2),
			Image:       "https://images.unsplash.com/photo-1518770660439-4636190af475?w=500&h=500&fit=crop",
			IsPromotion: true,
		},
	}
}

// DefaultCarousel returns the promotional banner images shown before an
// admin customizes the carousel.
func DefaultCarousel() []string {
	return []string{
		"https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=1200&h=400&fit=crop",
		"https://images.unsplash.com/photo-1472851294608-062f824d29cc?w=1200&h=400&fit=crop",
		"https://images.unsplash.com/photo-1607082348824-0a96f2a4b9da?w=1200&h=400&fit=crop",
	}
}
