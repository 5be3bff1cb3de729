// Package profile holds the store's identity: name, contact details, logo
// and social links.
package profile

import (
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/vitrine-shop/vitrine/internal/kv"
)

// SocialKeys is the fixed set of supported social platforms.
var SocialKeys = []string{
	"instagram", "facebook", "whatsapp", "x", "tiktok", "telegram", "email", "website",
}

// Social is one social-media entry.
type Social struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// Profile is the store identity record. The JSON field names follow the
// storefront's persisted format.
type Profile struct {
	Name    string            `json:"name"`
	Phone   string            `json:"phone"`
	Address string            `json:"address"`
	LogoURL string            `json:"logoUrl"`
	Socials map[string]Social `json:"socials"`
}

// Patch is a partial profile update. Nil fields are left untouched; socials
// are never replaced wholesale here, only through UpdateSocial.
type Patch struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	LogoURL *string `json:"logoUrl"`
}

// SocialPatch is a partial update of one social entry.
type SocialPatch struct {
	URL     *string `json:"url"`
	Enabled *bool   `json:"enabled"`
}

// Default returns the profile used before an admin saves one.
func Default() Profile {
	return Profile{
		Name:    "Loja Online",
		Phone:   "(11) 99999-9999",
		Address: "Rua Exemplo, 123 - São Paulo, SP",
		Socials: defaultSocials(),
	}
}

func defaultSocials() map[string]Social {
	socials := make(map[string]Social, len(SocialKeys))
	for _, k := range SocialKeys {
		socials[k] = Social{}
	}
	return socials
}

// Store reads and writes the store profile.
type Store struct {
	mu sync.Mutex
	kv *kv.Store
	lg *zap.Logger
}

// NewStore creates a profile Store backed by the given key-value store.
func NewStore(store *kv.Store, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{kv: store, lg: lg}
}

// Load returns the persisted profile, or the default when absent or
// unparsable. Records persisted before social links existed gain the
// default social set.
func (s *Store) Load() Profile {
	raw, ok := s.kv.Get(kv.KeyStoreInfo)
	if !ok {
		return Default()
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.lg.Debug("discarding malformed store profile", zap.Error(err))
		return Default()
	}
	if p.Socials == nil {
		p.Socials = defaultSocials()
	}
	for _, k := range SocialKeys {
		if _, ok := p.Socials[k]; !ok {
			p.Socials[k] = Social{}
		}
	}
	return p
}

// Update merges patch into the current profile, persists, and returns the
// new record. Fields absent from the patch keep their values; the social
// set is preserved untouched.
func (s *Store) Update(patch Patch) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Load()
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.LogoURL != nil {
		p.LogoURL = *patch.LogoURL
	}
	if err := s.save(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateSocial merges patch into the social entry for key, leaving every
// sibling entry intact. Unknown keys are an error.
func (s *Store) UpdateSocial(key string, patch SocialPatch) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, k := range SocialKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return Profile{}, errors.Errorf("unknown social platform %q", key)
	}

	p := s.Load()
	entry := p.Socials[key]
	if patch.URL != nil {
		entry.URL = *patch.URL
	}
	if patch.Enabled != nil {
		entry.Enabled = *patch.Enabled
	}
	p.Socials[key] = entry

	if err := s.save(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Store) save(p Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encode store profile")
	}
	if err := s.kv.Set(kv.KeyStoreInfo, doc); err != nil {
		return errors.Wrap(err, "persist store profile")
	}
	return nil
}
