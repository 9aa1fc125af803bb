package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// fillRecord is the stored form of core.Fill.
type fillRecord struct {
	ID         string          `json:"id"`
	Instrument string          `json:"instrument"`
	TakerID    string          `json:"takerId"`
	MakerID    string          `json:"makerId"`
	TakerSide  int8            `json:"takerSide"`
	Price      decimal.Decimal `json:"price"`
	Qty        int64           `json:"qty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func encodeFill(f core.Fill) ([]byte, error) {
	return json.Marshal(fillRecord{
		ID:         f.ID,
		Instrument: f.Instrument,
		TakerID:    f.TakerID,
		MakerID:    f.MakerID,
		TakerSide:  int8(f.TakerSide),
		Price:      f.Price,
		Qty:        f.Qty,
		Timestamp:  f.Timestamp,
	})
}

func decodeFill(b []byte) (core.Fill, error) {
	var r fillRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return core.Fill{}, err
	}
	return core.Fill{
		ID:         r.ID,
		Instrument: r.Instrument,
		TakerID:    r.TakerID,
		MakerID:    r.MakerID,
		TakerSide:  core.Side(r.TakerSide),
		Price:      r.Price,
		Qty:        r.Qty,
		Timestamp:  r.Timestamp,
	}, nil
}
