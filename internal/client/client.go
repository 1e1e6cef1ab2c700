package client

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrNameRequired = errors.New("client name is required")
	ErrNotFound     = errors.New("client not found")
)

type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Ref is the copy of a client kept on a sale, so later edits to the client
// do not change past receipts.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Unidentified is what receipts and filters show for a sale without a client.
const Unidentified = "Não identificado"

func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}

	return nil
}

func (c *Client) Snapshot() *Ref {
	return &Ref{ID: c.ID, Name: c.Name}
}

// DisplayName returns the client name, or Unidentified for a nil ref.
func (r *Ref) DisplayName() string {
	if r == nil || r.Name == "" {
		return Unidentified
	}

	return r.Name
}

// Find returns the client with id.
func Find(clients []Client, id int64) (Client, bool) {
	i := slices.IndexFunc(clients, func(c Client) bool { return c.ID == id })
	if i < 0 {
		return Client{}, false
	}

	return clients[i], true
}
