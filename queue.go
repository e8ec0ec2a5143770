package koiq

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/koiq/koiq/internal/layout"
	"github.com/koiq/koiq/internal/shmseg"
)

// queue is the shared internal representation behind both Sender and
// Receiver: Sender and Receiver are capability-restricted facades over the
// same value, not distinct implementations (see sender.go / receiver.go).
type queue[T any] struct {
	name   string
	seg    *shmseg.Segment
	cb     *layout.ControlBlock
	region []byte
	stride int
	user   int
	n      int // capacity in slots
}

// newQueue acquires (creating or attaching to) the named segment sized for
// T and userRegionBytes, validating geometry either way. logger may be nil;
// when set, it receives a single off-hot-path line reporting whether the
// segment was created or attached.
func newQueue[T any](logger Logger, name string, userRegionBytes int) (*queue[T], shmseg.Mode, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if err := checkBitwiseCopyable(t); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrConfigurationInvalid, err)
	}

	payloadBytes := int(unsafe.Sizeof(zero))
	stride := layout.SlotStride(payloadBytes)
	if stride > layout.MaxMessageBlockBytes {
		return nil, 0, fmt.Errorf("%w: message block size %d exceeds MaxMessageBlockBytes %d",
			ErrConfigurationInvalid, stride, layout.MaxMessageBlockBytes)
	}
	if !layout.IsPowerOfTwo(userRegionBytes) {
		return nil, 0, fmt.Errorf("%w: user region size %d is not a power of two", ErrConfigurationInvalid, userRegionBytes)
	}
	if userRegionBytes < stride {
		return nil, 0, fmt.Errorf("%w: user region size %d is smaller than one slot (%d bytes)",
			ErrConfigurationInvalid, userRegionBytes, stride)
	}

	total := layout.ControlBlockBytes + userRegionBytes
	seg, mode, err := shmseg.Acquire(name, total)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrResourceFailure, err)
	}

	cb := layout.AtControlBlock(seg.Data)
	region := seg.Data[layout.ControlBlockBytes:]

	if mode == shmseg.Created {
		cb.Init(userRegionBytes, stride)
		// Zero every occupancy flag. A freshly mmap'd, freshly truncated
		// tmpfs file already reads as zero, but this is made explicit
		// rather than relied upon implicitly.
		for off := 0; off < userRegionBytes; off += stride {
			layout.StoreFlag(layout.SlotAt(region, off, stride), layout.Free)
		}
	} else {
		wantUser, wantStride := userRegionBytes, stride
		gotUser, gotStride := cb.UserRegionBytes(), cb.SlotStrideBytes()
		if gotUser != wantUser || gotStride != wantStride {
			seg.Release()
			return nil, 0, &GeometryMismatchError{
				Name:              name,
				ExpectedUserBytes: wantUser,
				ActualUserBytes:   gotUser,
				ExpectedSlotBytes: wantStride,
				ActualSlotBytes:   gotStride,
			}
		}
	}

	if logger != nil {
		logger.Printf("koiq: segment %q %s (user=%d bytes, slot=%d bytes, capacity=%d)",
			name, mode, userRegionBytes, stride, userRegionBytes/stride)
	}

	return &queue[T]{
		name:   name,
		seg:    seg,
		cb:     cb,
		region: region,
		stride: stride,
		user:   userRegionBytes,
		n:      userRegionBytes / stride,
	}, mode, nil
}

// checkBitwiseCopyable rejects types that carry owned heap state or
// non-flat representations: Go has no compile-time way to require a type
// parameter be "trivially copyable" the way C++ does, so the check runs at
// construction time instead.
func checkBitwiseCopyable(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("message type must be a concrete type")
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkBitwiseCopyable(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := checkBitwiseCopyable(t.Field(i).Type); err != nil {
				return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("type %s is not bitwise-copyable (kind %s)", t, t.Kind())
	}
}

// send implements the publication protocol of §4.2: check flag, copy
// payload, advance cursor, release-store flag.
func (q *queue[T]) send(msg T) (Status, error) {
	writeOffset := int(q.cb.LoadWriteOffset())
	slot := layout.SlotAt(q.region, writeOffset, q.stride)

	if layout.LoadFlag(slot) == layout.Occupied {
		return Full, nil
	}

	*(*T)(unsafe.Pointer(&layout.Payload(slot)[0])) = msg

	next := (writeOffset + q.stride) & (q.user - 1)
	q.cb.StoreWriteOffset(uint64(next))
	layout.StoreFlag(slot, layout.Occupied)

	return Ok, nil
}

// recv implements the consumption protocol of §4.2: check flag, copy
// payload out, advance cursor, release-store flag free.
func (q *queue[T]) recv() (T, bool) {
	var zero T
	readOffset := int(q.cb.LoadReadOffset())
	slot := layout.SlotAt(q.region, readOffset, q.stride)

	if layout.LoadFlag(slot) == layout.Free {
		return zero, false
	}

	msg := *(*T)(unsafe.Pointer(&layout.Payload(slot)[0]))

	next := (readOffset + q.stride) & (q.user - 1)
	q.cb.StoreReadOffset(uint64(next))
	layout.StoreFlag(slot, layout.Free)

	return msg, true
}

// size is an observational, non-synchronizing estimate: see §9.
func (q *queue[T]) size() int {
	w := int(q.cb.LoadWriteOffset())
	r := int(q.cb.LoadReadOffset())
	diff := ((w - r) % q.user + q.user) % q.user
	count := diff / q.stride
	if count == 0 && layout.LoadFlag(layout.SlotAt(q.region, w, q.stride)) == layout.Occupied {
		return q.n
	}
	return count
}

func (q *queue[T]) capacity() int { return q.n }

func (q *queue[T]) isFull() bool {
	w := int(q.cb.LoadWriteOffset())
	return layout.LoadFlag(layout.SlotAt(q.region, w, q.stride)) == layout.Occupied
}

func (q *queue[T]) isEmpty() bool {
	r := int(q.cb.LoadReadOffset())
	return layout.LoadFlag(layout.SlotAt(q.region, r, q.stride)) == layout.Free
}

func (q *queue[T]) remainingBytes() int { return q.user - q.size()*q.stride }

func (q *queue[T]) messageBlockSize() int { return q.stride }

func (q *queue[T]) userRegionSize() int { return q.user }

func (q *queue[T]) release() error { return q.seg.Release() }

func (q *queue[T]) unlink() error { return shmseg.Unlink(q.name) }
