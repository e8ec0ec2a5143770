package koiq

// Sender is the producer-side endpoint of a koiq queue. A Sender exposes
// only the operations appropriate to the producer role: Send, observers,
// and Cleanup, which is the only facade allowed to unlink the segment's
// name (a dropped Receiver must never strand a live Sender, so unlink is
// never implicit on the receiver side — see Receiver).
type Sender[T any] struct {
	q *queue[T]
}

// NewSender creates or attaches to the named segment sized for T with a
// user region of userRegionBytes bytes. userRegionBytes must be a power
// of two; sizeof(T) plus the occupancy header must not exceed
// MaxMessageBlockBytes.
func NewSender[T any](name string, userRegionBytes int) (*Sender[T], error) {
	return NewSenderWithLogger[T](nil, name, userRegionBytes)
}

// NewSenderWithLogger is like NewSender, but reports whether the segment
// was created or attached via logger (which may be nil to disable this).
// Send and Recv never log; this fires once, at construction.
func NewSenderWithLogger[T any](logger Logger, name string, userRegionBytes int) (*Sender[T], error) {
	q, _, err := newQueue[T](logger, name, userRegionBytes)
	if err != nil {
		return nil, err
	}
	return &Sender[T]{q: q}, nil
}

// Send is non-blocking. Ok means the message was durably placed; Full
// means the slot at the write cursor is still occupied by an unread
// message and no write occurred.
func (s *Sender[T]) Send(msg T) (Status, error) {
	return s.q.send(msg)
}

func (s *Sender[T]) Size() int              { return s.q.size() }
func (s *Sender[T]) Capacity() int          { return s.q.capacity() }
func (s *Sender[T]) IsFull() bool           { return s.q.isFull() }
func (s *Sender[T]) IsEmpty() bool          { return s.q.isEmpty() }
func (s *Sender[T]) RemainingBytes() int    { return s.q.remainingBytes() }
func (s *Sender[T]) MessageBlockSize() int  { return s.q.messageBlockSize() }
func (s *Sender[T]) UserRegionSize() int    { return s.q.userRegionSize() }

// Close unmaps the segment without unlinking its name, so other processes
// (a live Receiver, or a later Sender) can still find and reattach to it.
func (s *Sender[T]) Close() error { return s.q.release() }

// Cleanup unmaps the segment and removes its name from the system
// namespace. Only Sender exposes this: there is exactly one sender, so it
// is the natural place to vest the decision to retire a segment.
func (s *Sender[T]) Cleanup() error {
	if err := s.q.release(); err != nil {
		return err
	}
	return s.q.unlink()
}
