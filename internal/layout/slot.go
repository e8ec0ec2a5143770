package layout

import (
	"sync/atomic"
	"unsafe"
)

// Occupancy flag states. FREE means the slot is available to the producer;
// OCCUPIED means it holds an unread message.
const (
	Free     uint64 = 0
	Occupied uint64 = 1
)

// SlotAt returns the S-byte slot starting at byte offset `offset` within
// the user region that begins right after the control block.
func SlotAt(userRegion []byte, offset, stride int) []byte {
	return userRegion[offset : offset+stride]
}

// LoadFlag reads a slot's occupancy flag with acquire semantics: any
// payload bytes a producer wrote before its release-store of OCCUPIED are
// guaranteed visible to the caller once this observes OCCUPIED.
//
// Go's sync/atomic loads/stores are sequentially consistent, a strictly
// stronger guarantee than acquire/release, so using them here satisfies
// the ordering the protocol requires.
func LoadFlag(slot []byte) uint64 {
	return atomic.LoadUint64((*uint64)(unsafe.Pointer(&slot[0])))
}

// StoreFlag publishes (or releases) a slot's occupancy flag.
func StoreFlag(slot []byte, v uint64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&slot[0])), v)
}

// Payload returns the payload region of a slot, following the flag.
func Payload(slot []byte) []byte {
	return slot[FlagBytes:]
}
