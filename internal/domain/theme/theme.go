// Package theme holds the presentation configuration: colors, opacities,
// fonts, section titles and the map link.
package theme

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/vitrine-shop/vitrine/internal/kv"
)

// Config is the theme record. Opacities are percentages in [0, 100]. The
// JSON field names follow the storefront's persisted format.
type Config struct {
	Primary            string `json:"primary"`
	HeaderBg           string `json:"headerBg"`
	HeaderOpacity      int    `json:"headerOpacity"`
	CardBg             string `json:"cardBg"`
	CardOpacity        int    `json:"cardOpacity"`
	ButtonBg           string `json:"buttonBg"`
	ButtonOpacity      int    `json:"buttonOpacity"`
	BackgroundColor    string `json:"backgroundColor"`
	BackgroundOpacity  int    `json:"backgroundOpacity"`
	StoreInfoTextColor string `json:"storeInfoTextColor"`
	StoreInfoFont      string `json:"storeInfoFontFamily"`
	StoreInfoFontSize  int    `json:"storeInfoFontSize"`
	ProductsTitle      string `json:"productsTitle"`
	ProductsTitleColor string `json:"productsTitleColor"`
	MapURL             string `json:"mapUrl"`
	ShowMapLink        bool   `json:"showMapLink"`
}

// Patch is a partial theme update; nil fields are left untouched.
type Patch struct {
	Primary            *string `json:"primary"`
	HeaderBg           *string `json:"headerBg"`
	HeaderOpacity      *int    `json:"headerOpacity"`
	CardBg             *string `json:"cardBg"`
	CardOpacity        *int    `json:"cardOpacity"`
	ButtonBg           *string `json:"buttonBg"`
	ButtonOpacity      *int    `json:"buttonOpacity"`
	BackgroundColor    *string `json:"backgroundColor"`
	BackgroundOpacity  *int    `json:"backgroundOpacity"`
	StoreInfoTextColor *string `json:"storeInfoTextColor"`
	StoreInfoFont      *string `json:"storeInfoFontFamily"`
	StoreInfoFontSize  *int    `json:"storeInfoFontSize"`
	ProductsTitle      *string `json:"productsTitle"`
	ProductsTitleColor *string `json:"productsTitleColor"`
	MapURL             *string `json:"mapUrl"`
	ShowMapLink        *bool   `json:"showMapLink"`
}

// Default returns the theme used before an admin saves one.
func Default() Config {
	return Config{
		Primary:            "#0070f3",
		HeaderBg:           "#ffffff",
		HeaderOpacity:      100,
		CardBg:             "#ffffff",
		CardOpacity:        100,
		ButtonBg:           "#0070f3",
		ButtonOpacity:      100,
		BackgroundColor:    "#f5f5f5",
		BackgroundOpacity:  100,
		StoreInfoTextColor: "#333333",
		StoreInfoFont:      "Inter, sans-serif",
		StoreInfoFontSize:  16,
		ProductsTitle:      "Nossos Produtos",
		ProductsTitleColor: "#333333",
	}
}

// Store reads and writes the theme configuration.
type Store struct {
	mu sync.Mutex
	kv *kv.Store
	lg *zap.Logger
}

// NewStore creates a theme Store backed by the given key-value store.
func NewStore(store *kv.Store, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{kv: store, lg: lg}
}

// Load returns the persisted theme, or the default when absent or
// unparsable.
func (s *Store) Load() Config {
	raw, ok := s.kv.Get(kv.KeyThemeColors)
	if !ok {
		return Default()
	}
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		s.lg.Debug("discarding malformed theme", zap.Error(err))
		return Default()
	}
	return c
}

// Update merges patch into the current theme, persists, and returns the new
// record.
func (s *Store) Update(patch Patch) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.Load()
	applyPatch(&c, patch)
	if err := s.save(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Reset restores and persists the default theme.
func (s *Store) Reset() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Default()
	if err := s.save(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyPatch(c *Config, p Patch) {
	if p.Primary != nil {
		c.Primary = *p.Primary
	}
	if p.HeaderBg != nil {
		c.HeaderBg = *p.HeaderBg
	}
	if p.HeaderOpacity != nil {
		c.HeaderOpacity = *p.HeaderOpacity
	}
	if p.CardBg != nil {
		c.CardBg = *p.CardBg
	}
	if p.CardOpacity != nil {
		c.CardOpacity = *p.CardOpacity
	}
	if p.ButtonBg != nil {
		c.ButtonBg = *p.ButtonBg
	}
	if p.ButtonOpacity != nil {
		c.ButtonOpacity = *p.ButtonOpacity
	}
	if p.BackgroundColor != nil {
		c.BackgroundColor = *p.BackgroundColor
	}
	if p.BackgroundOpacity != nil {
		c.BackgroundOpacity = *p.BackgroundOpacity
	}
	if p.StoreInfoTextColor != nil {
		c.StoreInfoTextColor = *p.StoreInfoTextColor
	}
	if p.StoreInfoFont != nil {
		c.StoreInfoFont = *p.StoreInfoFont
	}
	if p.StoreInfoFontSize != nil {
		c.StoreInfoFontSize = *p.StoreInfoFontSize
	}
	if p.ProductsTitle != nil {
		c.ProductsTitle = *p.ProductsTitle
	}
	if p.ProductsTitleColor != nil {
		c.ProductsTitleColor = *p.ProductsTitleColor
	}
	if p.MapURL != nil {
		c.MapURL = *p.MapURL
	}
	if p.ShowMapLink != nil {
		c.ShowMapLink = *p.ShowMapLink
	}
}

func (s *Store) save(c Config) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode theme")
	}
	if err := s.kv.Set(kv.KeyThemeColors, doc); err != nil {
		return errors.Wrap(err, "persist theme")
	}
	return nil
}

// ApplyOpacity renders a #RRGGBBAA color from a hex color and an opacity
// percentage. Three-digit hex colors are expanded; the alpha byte is the
// rounded fraction of 255.
func ApplyOpacity(color string, opacity int) string {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	alpha := (opacity*255 + 50) / 100
	const digits = "0123456789abcdef"
	return "#" + hex + string([]byte{digits[alpha>>4], digits[alpha&0xf]})
}
