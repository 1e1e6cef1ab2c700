// Package record defines the durable key/object store behind the PDV.
//
// A store is a set of named collections, each holding JSON documents
// addressed by a string key. Keys for products, clients, sales and exchanges
// are assigned by the store on Add; settings use their own setting name as
// the key and are always written with Put.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

type Collection string

const (
	Products  Collection = "products"
	Clients   Collection = "clients"
	Sales     Collection = "sales"
	Exchanges Collection = "exchanges"
	Settings  Collection = "settings"
)

// Collections lists every collection in load order.
var Collections = []Collection{Products, Clients, Sales, Exchanges, Settings}

var ErrUnknownCollection = errors.New("unknown collection")

func (c Collection) Valid() bool {
	switch c {
	case Products, Clients, Sales, Exchanges, Settings:
		return true
	}

	return false
}

// Record is one stored document.
type Record struct {
	Key  string
	Data json.RawMessage
}

//go:generate mockgen -source=record.go -destination=store_mock.go -package=record
type Store interface {
	// Init opens or creates the underlying schema. It is idempotent.
	Init(ctx context.Context) error
	GetAll(ctx context.Context, c Collection) ([]Record, error)
	// Get returns nil and no error when the key does not exist.
	Get(ctx context.Context, c Collection, key string) (*Record, error)
	// Add stores data under a newly assigned key and returns that key.
	Add(ctx context.Context, c Collection, data json.RawMessage) (string, error)
	// Put replaces the whole record stored under key, creating it if needed.
	Put(ctx context.Context, c Collection, key string, data json.RawMessage) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, c Collection, key string) error
	Close() error
}

// Check returns ErrUnknownCollection wrapped with the collection name when c
// is not one of the known collections.
func Check(c Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	return nil
}

// Encode marshals v into record data.
func Encode(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	return b, nil
}

// Decode unmarshals a record into a value of type T.
func Decode[T any](r Record) (T, error) {
	var v T
	if err := json.Unmarshal(r.Data, &v); err != nil {
		return v, fmt.Errorf("decoding record %s: %w", r.Key, err)
	}

	return v, nil
}
