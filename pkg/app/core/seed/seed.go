// Package seed loads initial orders from YAML and replays them through
// the order service, so their statuses come from real matching.
//
//	orders:
//	  - instrument: PETR4
//	    side: buy
//	    price: "28.45"
//	    quantity: 100
//	  - instrument: BBDC4
//	    side: sell
//	    price: "21.75"
//	    quantity: 150
//	    cancel: true
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

type Entry struct {
	Instrument string `yaml:"instrument"`
	Side       string `yaml:"side"`
	Price      string `yaml:"price"`
	Quantity   int64  `yaml:"quantity"`
	Cancel     bool   `yaml:"cancel"` // cancel right after creation
}

type file struct {
	Orders []Entry `yaml:"orders"`
}

// OrderService is the subset of the service seeding needs.
type OrderService interface {
	CreateOrder(req core.OrderRequest) (core.Order, error)
	CancelOrder(id string) (core.Order, error)
}

func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Orders, nil
}

// Request converts an entry into a validated order request.
func (e Entry) Request() (core.OrderRequest, error) {
	side, err := core.ParseSide(e.Side)
	if err != nil {
		return core.OrderRequest{}, err
	}
	price, err := core.ParsePrice(e.Price)
	if err != nil {
		return core.OrderRequest{}, err
	}
	req := core.OrderRequest{
		Instrument: e.Instrument,
		Side:       side,
		Price:      price,
		Quantity:   e.Quantity,
	}
	return req, req.Validate()
}

// Apply creates every entry in order and returns the final state of each
// created order. It stops at the first failing entry.
func Apply(svc OrderService, entries []Entry) ([]core.Order, error) {
	out := make([]core.Order, 0, len(entries))
	for i, e := range entries {
		req, err := e.Request()
		if err != nil {
			return out, fmt.Errorf("seed entry %d: %w", i, err)
		}
		o, err := svc.CreateOrder(req)
		if err != nil {
			return out, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if e.Cancel {
			if o, err = svc.CancelOrder(o.ID); err != nil {
				return out, fmt.Errorf("seed entry %d: %w", i, err)
			}
		}
		out = append(out, o)
	}
	return out, nil
}
