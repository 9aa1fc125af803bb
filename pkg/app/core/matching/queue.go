package matching

import (
	"container/heap"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// candidateQueue implements heap.Interface over resting orders in the
// priority an incoming order of takerSide consumes them:
// against a buy, cheapest ask first; against a sell, highest bid first.
// Equal prices fall back to creation time, then insertion sequence.
type candidateQueue struct {
	orders    []core.Order
	takerSide core.Side
}

func newCandidateQueue(takerSide core.Side, orders []core.Order) *candidateQueue {
	q := &candidateQueue{orders: orders, takerSide: takerSide}
	heap.Init(q)
	return q
}

func (q *candidateQueue) Len() int { return len(q.orders) }

func (q *candidateQueue) Less(i, j int) bool {
	a, b := &q.orders[i], &q.orders[j]
	if !a.Price.Equal(b.Price) {
		if q.takerSide == core.Buy {
			return a.Price.LessThan(b.Price)
		}
		return a.Price.GreaterThan(b.Price)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Seq < b.Seq
}

func (q *candidateQueue) Swap(i, j int) { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }

func (q *candidateQueue) Push(x interface{}) {
	q.orders = append(q.orders, x.(core.Order))
}

func (q *candidateQueue) Pop() interface{} {
	old := q.orders
	n := len(old)
	x := old[n-1]
	q.orders = old[0 : n-1]
	return x
}

// next removes and returns the best candidate.
func (q *candidateQueue) next() core.Order {
	return heap.Pop(q).(core.Order)
}
