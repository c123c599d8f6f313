package model

import (
	"fmt"
	"strings"
)

// Client requests room for a single, indivisible cargo.
type Client struct {
	id     string
	name   string
	weight float64
	vip    bool
}

// NewClient validates the name and weight and assigns a fresh id.
func NewClient(name string, weight float64, vip bool, opts ...Option) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Value: name, Reason: "must not be empty"}
	}
	if !positive(weight) {
		return nil, &ValidationError{Field: "cargo_weight", Value: weight, Reason: "must be a positive number"}
	}
	return &Client{id: resolveID("C", opts), name: name, weight: weight, vip: vip}, nil
}

func (c *Client) ID() string           { return c.id }
func (c *Client) Name() string         { return c.name }
func (c *Client) CargoWeight() float64 { return c.weight }
func (c *Client) VIP() bool            { return c.vip }

func (c *Client) String() string {
	tier := "regular"
	if c.vip {
		tier = "VIP"
	}
	return fmt.Sprintf("client %s %s: cargo %gt, %s", c.id, c.name, c.weight, tier)
}
