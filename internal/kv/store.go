// Package kv implements the local persistence service: a string-keyed store
// of raw JSON documents backed by a single file. It is the moral equivalent
// of browser localStorage — no transactions, no schema, no versioning.
// Consumers must tolerate missing keys and treat malformed values as absent.
package kv

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// Store is a file-backed key-value store. Values are opaque JSON documents.
// Every mutation rewrites the backing file (write temp, rename), so a crash
// leaves either the old or the new snapshot, never a torn file.
type Store struct {
	mu   sync.Mutex
	path string
	docs map[string]jx.Raw
	lg   *zap.Logger
}

// Open reads the store file at path. A missing file yields an empty store.
// A file that fails to parse is treated the same as a missing one: the data
// is discarded and the store starts empty (logged for diagnostics only).
func Open(path string, lg *zap.Logger) (*Store, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	s := &Store{
		path: path,
		docs: make(map[string]jx.Raw),
		lg:   lg,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read store file %s", path)
	}

	if err := s.decode(data); err != nil {
		lg.Debug("discarding malformed store file",
			zap.String("path", path),
			zap.Error(err),
		)
		s.docs = make(map[string]jx.Raw)
	}
	return s, nil
}

func (s *Store) decode(data []byte) error {
	d := jx.DecodeBytes(data)
	return d.Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return errors.Wrapf(err, "value for key %q", key)
		}
		// Raw aliases the decoder's buffer; keep our own copy.
		s.docs[key] = append(jx.Raw(nil), raw...)
		return nil
	})
}

// Get returns the document stored under key. The returned slice must not be
// modified by the caller.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.docs[key]
	return raw, ok
}

// Set stores doc under key and flushes the file. doc must be valid JSON.
func (s *Store) Set(key string, doc []byte) error {
	return s.SetAll(map[string][]byte{key: doc})
}

// SetAll stores several documents and flushes the file once, so related keys
// (coupon code and discount, say) cannot be persisted half-updated.
func (s *Store) SetAll(docs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, doc := range docs {
		if !jx.Valid(doc) {
			return errors.Errorf("document for key %q is not valid JSON", key)
		}
	}
	for key, doc := range docs {
		s.docs[key] = append(jx.Raw(nil), doc...)
	}
	return s.flush()
}

// Delete removes key and flushes the file. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[key]; !ok {
		return nil
	}
	delete(s.docs, key)
	return s.flush()
}

// Check reports whether the store's directory is writable. Used as a
// readiness probe.
func (s *Store) Check() error {
	dir := filepath.Dir(s.path)
	f, err := os.CreateTemp(dir, ".vitrine-check-*")
	if err != nil {
		return errors.Wrapf(err, "store directory %s not writable", dir)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// flush writes the current snapshot to a temp file and renames it over the
// store path. Caller must hold s.mu.
func (s *Store) flush() error {
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var e jx.Encoder
	e.ObjStart()
	for _, k := range keys {
		e.FieldStart(k)
		e.Raw(s.docs[k])
	}
	e.ObjEnd()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".vitrine-store-*")
	if err != nil {
		return errors.Wrap(err, "create temp store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(e.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write store snapshot")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close store snapshot")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "replace store file")
	}
	return nil
}
