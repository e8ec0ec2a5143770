package koiq

// Receiver is the consumer-side endpoint of a koiq queue. It exposes Recv
// and the read-only observers, and deliberately has no Unlink: a dropped
// Receiver must never strand a live Sender.
type Receiver[T any] struct {
	q *queue[T]
}

// NewReceiver creates or attaches to the named segment sized for T and
// userRegionBytes, with the same geometry rules as NewSender. Either the
// Sender or the Receiver may be constructed first; whichever runs first
// creates the segment, the other attaches and validates geometry.
func NewReceiver[T any](name string, userRegionBytes int) (*Receiver[T], error) {
	return NewReceiverWithLogger[T](nil, name, userRegionBytes)
}

// NewReceiverWithLogger is like NewReceiver, but reports whether the
// segment was created or attached via logger (which may be nil to disable
// this). Send and Recv never log; this fires once, at construction.
func NewReceiverWithLogger[T any](logger Logger, name string, userRegionBytes int) (*Receiver[T], error) {
	q, _, err := newQueue[T](logger, name, userRegionBytes)
	if err != nil {
		return nil, err
	}
	return &Receiver[T]{q: q}, nil
}

// Recv is non-blocking. It returns the oldest unread message and true, or
// the zero value and false if the slot at the read cursor holds no
// message.
func (r *Receiver[T]) Recv() (T, bool) {
	return r.q.recv()
}

func (r *Receiver[T]) Size() int             { return r.q.size() }
func (r *Receiver[T]) Capacity() int         { return r.q.capacity() }
func (r *Receiver[T]) IsFull() bool          { return r.q.isFull() }
func (r *Receiver[T]) IsEmpty() bool         { return r.q.isEmpty() }
func (r *Receiver[T]) RemainingBytes() int   { return r.q.remainingBytes() }
func (r *Receiver[T]) MessageBlockSize() int { return r.q.messageBlockSize() }
func (r *Receiver[T]) UserRegionSize() int   { return r.q.userRegionSize() }

// Close unmaps the segment. It never unlinks the backing name.
func (r *Receiver[T]) Close() error { return r.q.release() }
