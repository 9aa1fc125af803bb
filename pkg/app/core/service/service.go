// Package service is the entry point for order commands and queries.
//
// Create and cancel each run inside one store write scope; the matching
// pass of a create is part of that scope. Logging, the fill journal and
// update listeners only see an operation after it has been committed.
package service

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
	"github.com/uhyunpark/orderdesk/pkg/app/core/instrument"
	"github.com/uhyunpark/orderdesk/pkg/app/core/matching"
	"github.com/uhyunpark/orderdesk/pkg/app/core/store"
	"github.com/uhyunpark/orderdesk/pkg/util"
)

// Journal records fills of committed matching passes.
type Journal interface {
	SaveFills(fills []core.Fill) error
	LoadRecentFills(instrument string, limit int) ([]core.Fill, error)
}

type UpdateKind int8

const (
	OrderCreated UpdateKind = iota
	OrderCancelled
)

func (k UpdateKind) String() string {
	switch k {
	case OrderCreated:
		return "created"
	case OrderCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Update describes one committed operation. Orders lists every order it
// changed, the created or cancelled order first.
type Update struct {
	Kind   UpdateKind
	Orders []core.Order
	Fills  []core.Fill
}

type Options struct {
	Clock             util.Clock
	Logger            *zap.SugaredLogger
	Journal           Journal              // optional
	Instruments       *instrument.Registry // optional
	StrictInstruments bool                 // reject symbols missing from Instruments
}

type Service struct {
	store       *store.Store
	engine      *matching.Engine
	clock       util.Clock
	log         *zap.SugaredLogger
	journal     Journal
	instruments *instrument.Registry
	strict      bool

	// guarded by the store write scope
	ids         idSequence
	lastCreated time.Time

	lmu       sync.RWMutex
	listeners []func(Update)
}

func New(st *store.Store, eng *matching.Engine, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = util.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Service{
		store:       st,
		engine:      eng,
		clock:       opts.Clock,
		log:         opts.Logger,
		journal:     opts.Journal,
		instruments: opts.Instruments,
		strict:      opts.StrictInstruments && opts.Instruments != nil,
	}
}

// OnUpdate registers fn to be called after every committed create or
// cancel. Listeners run on the caller's goroutine and must not block.
func (s *Service) OnUpdate(fn func(Update)) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

// CreateOrder validates req, inserts a new Open order, matches it and
// returns the order as it stands after matching.
func (s *Service) CreateOrder(req core.OrderRequest) (core.Order, error) {
	if err := req.Validate(); err != nil {
		return core.Order{}, err
	}
	if s.strict && !s.instruments.Exists(req.Instrument) {
		return core.Order{}, &core.ValidationError{Field: "instrument", Reason: "unknown instrument " + req.Instrument}
	}

	var res matching.Result
	err := s.store.Apply(func(tx *store.Tx) error {
		id, seq := s.ids.next(tx.Exists)
		if err := tx.Insert(core.NewOrder(id, seq, req, s.creationTime())); err != nil {
			return err
		}
		r, err := s.engine.Match(tx, id)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateID) {
			s.log.Errorw("order_id_collision", "err", err)
		} else {
			s.log.Errorw("order_create_failed", "instrument", req.Instrument, "err", err)
		}
		return core.Order{}, err
	}

	s.committedCreate(res)
	return res.Taker, nil
}

// creationTime keeps creation timestamps non-decreasing even if the
// clock steps backwards.
func (s *Service) creationTime() time.Time {
	now := s.clock.Now()
	if now.Before(s.lastCreated) {
		now = s.lastCreated
	}
	s.lastCreated = now
	return now
}

func (s *Service) committedCreate(res matching.Result) {
	t := res.Taker
	s.log.Infow("order_created",
		"id", t.ID,
		"instrument", t.Instrument,
		"side", t.Side.String(),
		"price", t.Price.StringFixed(core.PriceDecimals),
		"qty", t.Quantity,
		"status", t.Status.String(),
		"remaining", t.Remaining)

	for _, f := range res.Fills {
		s.log.Infow("fill",
			"instrument", f.Instrument,
			"taker", f.TakerID,
			"maker", f.MakerID,
			"px", f.Price.StringFixed(core.PriceDecimals),
			"qty", f.Qty)
	}

	if s.journal != nil && len(res.Fills) > 0 {
		if err := s.journal.SaveFills(res.Fills); err != nil {
			s.log.Errorw("journal_write_failed", "order", t.ID, "fills", len(res.Fills), "err", err)
		}
	}

	orders := make([]core.Order, 0, 1+len(res.Makers))
	orders = append(orders, t)
	orders = append(orders, res.Makers...)
	s.notify(Update{Kind: OrderCreated, Orders: orders, Fills: res.Fills})
}

// CancelOrder cancels an Open or Partial order. Remaining quantity is
// left unchanged.
func (s *Service) CancelOrder(id string) (core.Order, error) {
	var out core.Order
	err := s.store.Apply(func(tx *store.Tx) error {
		at := s.clock.Now()
		o, err := tx.Update(id, func(o *core.Order) error {
			return o.Cancel(at)
		})
		out = o
		return err
	})
	if err != nil {
		s.log.Infow("order_cancel_rejected", "id", id, "err", err)
		return core.Order{}, err
	}

	s.log.Infow("order_cancelled", "id", out.ID, "instrument", out.Instrument, "remaining", out.Remaining)
	s.notify(Update{Kind: OrderCancelled, Orders: []core.Order{out}})
	return out, nil
}

// GetOrder returns a snapshot of the order including its history.
func (s *Service) GetOrder(id string) (core.Order, error) {
	o, ok := s.store.Get(id)
	if !ok {
		return core.Order{}, &core.NotFoundError{ID: id}
	}
	return o, nil
}

// ListOrders returns snapshots of the orders matching f in creation order.
func (s *Service) ListOrders(f core.OrderFilter) ([]core.Order, error) {
	if err := f.ValidateDate(); err != nil {
		return nil, err
	}
	all := s.store.List()
	out := all[:0]
	for i := range all {
		if f.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Fills returns up to limit journaled fills of instrument, newest first.
func (s *Service) Fills(instrument string, limit int) ([]core.Fill, error) {
	if s.journal == nil {
		return []core.Fill{}, nil
	}
	return s.journal.LoadRecentFills(core.NormalizeInstrument(instrument), limit)
}

// Instruments lists the configured symbols, or nil without a registry.
func (s *Service) Instruments() []string {
	if s.instruments == nil {
		return nil
	}
	return s.instruments.List()
}

func (s *Service) notify(u Update) {
	s.lmu.RLock()
	defer s.lmu.RUnlock()
	for _, fn := range s.listeners {
		fn(u)
	}
}
