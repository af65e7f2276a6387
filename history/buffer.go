// Package history keeps a bounded, oldest-first record of population samples.
package history

// DefaultCapacity is the number of samples kept for the population chart
const DefaultCapacity = 100

// Buffer is a bounded FIFO of population samples.
// The zero value is not usable; construct with New.
type Buffer struct {
	capacity int
	values   []int
}

// New returns an empty buffer holding at most capacity samples.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity, values: make([]int, 0, capacity)}
}

// Push appends a sample, evicting the oldest ones beyond capacity
func (b *Buffer) Push(value int) {
	b.values = append(b.values, value)
	if over := len(b.values) - b.capacity; over > 0 {
		// shift in place so the backing array does not grow without bound
		n := copy(b.values, b.values[over:])
		b.values = b.values[:n]
	}
}

// Clear empties the buffer
func (b *Buffer) Clear() {
	b.values = b.values[:0]
}

// Values returns a copy of the samples, oldest first
func (b *Buffer) Values() []int {
	return append([]int(nil), b.values...)
}

// Len returns the number of stored samples
func (b *Buffer) Len() int {
	return len(b.values)
}

// Cap returns the buffer capacity
func (b *Buffer) Cap() int {
	return b.capacity
}

// Last returns the newest sample; ok is false when the buffer is empty
func (b *Buffer) Last() (value int, ok bool) {
	if len(b.values) == 0 {
		return 0, false
	}
	return b.values[len(b.values)-1], true
}

// Max returns the largest stored sample, 0 for an empty buffer
func (b *Buffer) Max() int {
	return maxOf(b.values)
}

func maxOf(values []int) int {
	m := 0
	for _, v := range values {
		m = max(m, v)
	}
	return m
}
