package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-shop/vitrine/internal/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.Store) {
	t.Helper()
	store, err := kv.Open(filepath.Join(t.TempDir(), "store.json"), nil)
	require.NoError(t, err)
	return NewStore(store, nil), store
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestStore_LoadDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	p := s.Load()
	assert.Equal(t, "Loja Online", p.Name)
	assert.Equal(t, "(11) 99999-9999", p.Phone)
	assert.Len(t, p.Socials, len(SocialKeys))
}

func TestStore_UpdateMergesFields(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Update(Patch{Name: strPtr("Loja da Maria")})
	require.NoError(t, err)

	assert.Equal(t, "Loja da Maria", p.Name)
	assert.Equal(t, "(11) 99999-9999", p.Phone, "fields absent from the patch keep their values")
	assert.Len(t, p.Socials, len(SocialKeys), "socials survive a profile patch")

	p, err = s.Update(Patch{Phone: strPtr("11988887777")})
	require.NoError(t, err)
	assert.Equal(t, "Loja da Maria", p.Name)
	assert.Equal(t, "11988887777", p.Phone)
}

func TestStore_UpdateSocial(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.UpdateSocial("instagram", SocialPatch{
		URL:     strPtr("https://instagram.com/loja"),
		Enabled: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, Social{URL: "https://instagram.com/loja", Enabled: true}, p.Socials["instagram"])

	// Patching one entry leaves siblings intact.
	p, err = s.UpdateSocial("facebook", SocialPatch{Enabled: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/loja", p.Socials["instagram"].URL)
	assert.True(t, p.Socials["facebook"].Enabled)

	// Partial patch keeps the other field.
	p, err = s.UpdateSocial("instagram", SocialPatch{Enabled: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/loja", p.Socials["instagram"].URL)
	assert.False(t, p.Socials["instagram"].Enabled)
}

func TestStore_UpdateSocialUnknownPlatform(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateSocial("myspace", SocialPatch{Enabled: boolPtr(true)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown social platform")
}

func TestStore_LoadBackfillsLegacyRecord(t *testing.T) {
	s, store := newTestStore(t)

	// A record persisted before social links existed.
	require.NoError(t, store.Set(kv.KeyStoreInfo,
		[]byte(`{"name":"Loja Antiga","phone":"1133334444","address":"Rua Velha, 1","logoUrl":""}`)))

	p := s.Load()
	assert.Equal(t, "Loja Antiga", p.Name)
	require.Len(t, p.Socials, len(SocialKeys))
	for _, k := range SocialKeys {
		assert.Contains(t, p.Socials, k)
	}
}
