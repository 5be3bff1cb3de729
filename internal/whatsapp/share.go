package whatsapp

import (
	"fmt"

	"github.com/vitrine-shop/vitrine/internal/domain/catalog"
	"github.com/vitrine-shop/vitrine/internal/domain/profile"
)

// Share is a native-share payload plus the deep-link fallback for platforms
// without a share capability.
type Share struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	URL         string `json:"url"`
	FallbackURL string `json:"fallbackUrl"`
}

// ShareProduct builds the share payload for a single product. productURL is
// the public product-detail page.
func ShareProduct(p catalog.Product, productURL string) Share {
	price := p.Price.StringFixed(2)
	fallback := fmt.Sprintf(
		"*%s*\n💰 R$ %s\n\n%s\n\nVeja mais detalhes do produto:\n%s",
		p.Name, price, p.Description, productURL,
	)
	return Share{
		Title:       p.Name,
		Text:        fmt.Sprintf("%s - R$ %s\n%s", p.Name, price, p.Description),
		URL:         productURL,
		FallbackURL: MessageLink(fallback),
	}
}

// ShareSite builds the share payload for the storefront itself.
func ShareSite(store profile.Profile, siteURL string) Share {
	text := fmt.Sprintf("Conheça a %s!", store.Name)
	return Share{
		Title:       store.Name,
		Text:        text,
		URL:         siteURL,
		FallbackURL: MessageLink(fmt.Sprintf("%s\n%s", text, siteURL)),
	}
}
