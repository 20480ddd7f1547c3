package main

import (
	"sync"

	"github.com/google/uuid"
)

// Delivery is the snapshot handed back when the operator's next file
// consumes a staged instruction. Remaining is the post-decrement count of
// files still owed to the target under the same instruction.
type Delivery struct {
	ID        string
	TargetID  int64
	Caption   string
	Remaining int
}

type pendingDelivery struct {
	id        string
	targetID  int64
	caption   string
	remaining int
}

// DeliveryRegistry holds at most one outstanding delivery instruction per
// operator. Staging a new instruction overwrites the previous one whole;
// there is no queue. Contents live only in memory.
type DeliveryRegistry struct {
	mu      sync.Mutex
	pending map[int64]*pendingDelivery
}

func NewDeliveryRegistry() *DeliveryRegistry {
	return &DeliveryRegistry{pending: make(map[int64]*pendingDelivery)}
}

// Stage records that the operator's next count file-bearing messages go to
// targetID. Any prior instruction for the same operator is discarded, even
// if it still had files remaining. Returns the staged snapshot (Remaining
// carries the full count).
func (r *DeliveryRegistry) Stage(operatorID, targetID int64, caption string, count int) Delivery {
	if count < 1 {
		count = 1
	}
	p := &pendingDelivery{
		id:        uuid.NewString(),
		targetID:  targetID,
		caption:   caption,
		remaining: count,
	}
	r.mu.Lock()
	r.pending[operatorID] = p
	r.mu.Unlock()
	return Delivery{ID: p.id, TargetID: targetID, Caption: caption, Remaining: count}
}

// ConsumeOne spends one file from the operator's staged instruction. The
// second return is false when nothing is staged. When the last remaining
// file is consumed the instruction is removed from the registry.
func (r *DeliveryRegistry) ConsumeOne(operatorID int64) (Delivery, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[operatorID]
	if !ok {
		return Delivery{}, false
	}
	p.remaining--
	if p.remaining <= 0 {
		delete(r.pending, operatorID)
	}
	return Delivery{
		ID:        p.id,
		TargetID:  p.targetID,
		Caption:   p.caption,
		Remaining: p.remaining,
	}, true
}
