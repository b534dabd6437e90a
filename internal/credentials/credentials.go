// Package credentials persists backend connection secrets in the local
// app-state namespace, outside the synced data model. Secrets are stored
// as-is; the surrounding storage layer provides whatever protection it
// provides.
package credentials

import (
	"context"
	"fmt"
)

// Backend identifiers.
const (
	BackendFile = "filestore"
	BackendRow  = "rowstore"
)

// Field names, shared between the credential store and the backend clients.
const (
	FieldAccessKey = "access_key"
	FieldSecretKey = "secret_key"
	FieldBucket    = "bucket"
	FieldEndpoint  = "endpoint"
	FieldRegion    = "region"
)

// requiredFields lists the fields that must all be present and non-empty
// before a backend is considered configured. Region is optional for the
// file backend (a default is applied by the client).
var requiredFields = map[string][]string{
	BackendFile: {FieldAccessKey, FieldSecretKey, FieldBucket, FieldEndpoint},
	BackendRow:  {FieldEndpoint, FieldAccessKey},
}

// StateStore is the slice of the local store the credential store needs.
type StateStore interface {
	State(ctx context.Context, key string) (string, bool, error)
	SetState(ctx context.Context, key, value string) error
	DeleteState(ctx context.Context, key string) error
}

type Store struct {
	state StateStore
}

func New(state StateStore) *Store {
	return &Store{state: state}
}

func key(backend, field string) string {
	return fmt.Sprintf("cred/%s/%s", backend, field)
}

// Get returns the stored value for one backend field, with found=false for
// absent fields.
func (s *Store) Get(ctx context.Context, backend, field string) (string, bool, error) {
	return s.state.State(ctx, key(backend, field))
}

// Set stores one backend field value.
func (s *Store) Set(ctx context.Context, backend, field, value string) error {
	return s.state.SetState(ctx, key(backend, field), value)
}

// Delete removes every field of a backend (disconnect).
func (s *Store) Delete(ctx context.Context, backend string) error {
	for _, field := range append(requiredFields[backend], FieldRegion) {
		if err := s.state.DeleteState(ctx, key(backend, field)); err != nil {
			return err
		}
	}
	return nil
}

// RequiredFields returns the field names a backend needs before it can be
// used.
func (s *Store) RequiredFields(backend string) []string {
	return requiredFields[backend]
}

// IsConfigured reports whether every required field for the backend is
// present and non-empty. It re-reads storage on every call: the user may
// edit credentials between sync attempts, so cached answers would go stale.
// Partial credentials mean "not configured", never an error.
func (s *Store) IsConfigured(ctx context.Context, backend string) (bool, error) {
	fields, ok := requiredFields[backend]
	if !ok {
		return false, fmt.Errorf("unknown backend %q", backend)
	}
	for _, field := range fields {
		value, found, err := s.Get(ctx, backend, field)
		if err != nil {
			return false, err
		}
		if !found || value == "" {
			return false, nil
		}
	}
	return true, nil
}
