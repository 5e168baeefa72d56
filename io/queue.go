package io

// Queue is an in-memory FIFO of integers.
//
// Receive on an empty queue returns ErrChannelEmpty rather than blocking.
type Queue struct {
	Capacity int // Maximum queued values, or 0 for unbounded.

	Data []int64
}

var _ Channel = (*Queue)(nil)

// NewQueue creates an unbounded queue holding the given values.
func NewQueue(values ...int64) *Queue {
	return &Queue{Data: append([]int64(nil), values...)}
}

// Rewind empties the queue.
func (q *Queue) Rewind() {
	q.Data = nil
}

// Len is the number of queued values.
func (q *Queue) Len() int {
	return len(q.Data)
}

// Receive removes and returns the oldest value.
func (q *Queue) Receive() (value int64, err error) {
	if len(q.Data) == 0 {
		err = ErrChannelEmpty
		return
	}

	value = q.Data[0]
	q.Data = q.Data[1:]
	return
}

// Send appends a value.
// Returns ErrChannelFull if the queue has reached capacity.
func (q *Queue) Send(value int64) (err error) {
	if q.Capacity > 0 && len(q.Data) >= q.Capacity {
		err = ErrChannelFull
		return
	}

	q.Data = append(q.Data, value)
	return
}
