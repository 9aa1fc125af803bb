package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// API request and response types for REST endpoints and WebSocket messages

// ==============================
// REST Types
// ==============================

// OrderInfo is the list view of an order (no history)
type OrderInfo struct {
	ID                string          `json:"id"`                // e.g., "ORD-001"
	Instrument        string          `json:"instrument"`        // e.g., "PETR4"
	Side              string          `json:"side"`              // "buy" or "sell"
	Price             decimal.Decimal `json:"price"`             // limit price, decimal string
	Quantity          int64           `json:"quantity"`          // original quantity
	RemainingQuantity int64           `json:"remainingQuantity"` // not yet executed
	Status            string          `json:"status"`            // "open", "partial", "executed", "cancelled"
	Timestamp         time.Time       `json:"timestamp"`         // creation time (RFC3339)
}

// HistoryInfo is one entry of an order's audit trail
type HistoryInfo struct {
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// OrderDetail is an order with its full history
type OrderDetail struct {
	OrderInfo
	History []HistoryInfo `json:"history"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
// Price accepts a JSON number or a decimal string.
type CreateOrderRequest struct {
	Instrument string          `json:"instrument"`
	Side       string          `json:"side"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
}

// FillInfo is one execution between an incoming and a resting order
type FillInfo struct {
	ID           string          `json:"id"`
	Instrument   string          `json:"instrument"`
	TakerOrderID string          `json:"takerOrderId"`
	MakerOrderID string          `json:"makerOrderId"`
	Side         string          `json:"side"`  // side of the incoming order
	Price        decimal.Decimal `json:"price"` // resting order's price
	Quantity     int64           `json:"quantity"`
	Timestamp    time.Time       `json:"timestamp"`
}

// InstrumentList is the response of GET /api/v1/instruments
type InstrumentList struct {
	Instruments []string `json:"instruments"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by clients to subscribe to channels
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g., ["orders", "orders:PETR4"]
}

// OrderUpdate is pushed after every committed create or cancel
type OrderUpdate struct {
	Type      string      `json:"type"` // "order_update"
	Kind      string      `json:"kind"` // "created" or "cancelled"
	Orders    []OrderInfo `json:"orders"`
	Fills     []FillInfo  `json:"fills"`
	Timestamp int64       `json:"timestamp"` // Unix milliseconds
}

// ==============================
// Converters
// ==============================

func toOrderInfo(o core.Order) OrderInfo {
	return OrderInfo{
		ID:                o.ID,
		Instrument:        o.Instrument,
		Side:              o.Side.String(),
		Price:             o.Price,
		Quantity:          o.Quantity,
		RemainingQuantity: o.Remaining,
		Status:            o.Status.String(),
		Timestamp:         o.CreatedAt,
	}
}

func toOrderDetail(o core.Order) OrderDetail {
	history := make([]HistoryInfo, len(o.History))
	for i, h := range o.History {
		history[i] = HistoryInfo{
			Timestamp:   h.Timestamp,
			Status:      h.Status.String(),
			Description: h.Description,
		}
	}
	return OrderDetail{OrderInfo: toOrderInfo(o), History: history}
}

func toFillInfo(f core.Fill) FillInfo {
	return FillInfo{
		ID:           f.ID,
		Instrument:   f.Instrument,
		TakerOrderID: f.TakerID,
		MakerOrderID: f.MakerID,
		Side:         f.TakerSide.String(),
		Price:        f.Price,
		Quantity:     f.Qty,
		Timestamp:    f.Timestamp,
	}
}
