package rabota

import (
	"context"
	"fmt"
)

// Batch is a run of consecutive vacancy IDs fetched together.
type Batch []int64

func (b Batch) String() string {
	switch len(b) {
	case 0:
		return "ids=[]"
	case 1:
		return fmt.Sprintf("id=%d", b[0])
	default:
		return fmt.Sprintf("ids=%d..%d", b[0], b[len(b)-1])
	}
}

// IDRange walks [from, to) in ascending batches of size.
type IDRange struct {
	next int64
	to   int64
	size int64
}

func NewIDRange(from, to int64, size int) *IDRange {
	if size < 1 {
		size = 1
	}
	return &IDRange{next: from, to: to, size: int64(size)}
}

func (r *IDRange) Next(context.Context) (Batch, bool, error) {
	if r.next >= r.to {
		return nil, false, nil
	}
	end := min(r.next+r.size, r.to)
	batch := make(Batch, 0, end-r.next)
	for id := r.next; id < end; id++ {
		batch = append(batch, id)
	}
	r.next = end
	return batch, true, nil
}
