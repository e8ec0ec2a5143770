// Package layout defines the byte-exact shared-memory layout of a koiq
// segment: the control block at offset 0, and the slot-sizing arithmetic
// that the slot array following it relies on.
//
// Everything here operates directly on raw mapped bytes via unsafe.Pointer,
// the same style vhostuser uses to interpret virtio shared-memory regions
// (see deviceRegion.FromDriverAddr).
package layout

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineBytes is the assumed cache line size. The original source used
// 128 bytes (tuned for Apple M1 Max); this port targets the more common
// x86-64/arm64 server cache line size of 64 bytes.
const CacheLineBytes = 64

// MaxMessageBlockBytes is the ceiling on a single slot's size (occupancy
// flag + payload + padding), mirroring MAX_MESSAGE_BLOCK_BYTES.
const MaxMessageBlockBytes = 1024 * CacheLineBytes

// FlagBytes is the width reserved for the occupancy flag at the head of
// each slot. sync/atomic has no single-byte primitive, so the flag is
// backed by a uint64: the whole field always holds exactly FREE(0) or
// OCCUPIED(1), so only the low byte is ever non-zero. Eight bytes also keeps the payload
// that follows 8-byte aligned, so scalar fields up to a uint64/float64
// inside T land on a safe, efficient boundary.
const FlagBytes = 8

// RoundToCacheLine rounds n up to the next multiple of CacheLineBytes.
func RoundToCacheLine(n int) int {
	return (n + CacheLineBytes - 1) &^ (CacheLineBytes - 1)
}

// isPow2 reports whether n is a power of two.
func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// SlotStride returns the smallest power-of-two multiple of CacheLineBytes
// that is >= FlagBytes+payloadBytes. This is invariant P9: each slot starts
// on a cache-line boundary, and U/S is guaranteed to be a power of two
// whenever U itself is.
func SlotStride(payloadBytes int) int {
	need := FlagBytes + payloadBytes
	s := RoundToCacheLine(need)
	for !isPow2(s) {
		s += CacheLineBytes
	}
	return s
}

// IsPowerOfTwo reports whether n is a positive power of two; exported for
// use by the queue constructor's geometry validation.
func IsPowerOfTwo(n int) bool {
	return isPow2(n)
}

// cursorLine is one cache-line-sized, cache-line-aligned half of the
// control block. offset is the hot atomic; userRegionBytes/slotStrideBytes
// are redundant copies co-located on the same line so each endpoint touches
// exactly one cache line on its hot path.
type cursorLine struct {
	offset          uint64
	userRegionBytes uint64
	slotStrideBytes uint64
	_               [CacheLineBytes - 24]byte
}

// ControlBlock is the fixed-layout header at offset 0 of every segment:
// a write-side line followed by a read-side line, each exactly one cache
// line, so the producer's cursor and the consumer's cursor never share a
// cache line.
type ControlBlock struct {
	Write cursorLine
	Read  cursorLine
}

// ControlBlockBytes is the cache-line-rounded size of ControlBlock as laid
// out in the segment (always exactly 2*CacheLineBytes given the struct's
// fields, rounded defensively in case of future additions).
var ControlBlockBytes = RoundToCacheLine(int(unsafe.Sizeof(ControlBlock{})))

// AtControlBlock interprets the head of data as a *ControlBlock. The
// caller must ensure data is at least ControlBlockBytes long.
func AtControlBlock(data []byte) *ControlBlock {
	return (*ControlBlock)(unsafe.Pointer(&data[0]))
}

// Init zeroes both cursors and records the given geometry on both lines.
// Called only by the endpoint that created the segment.
func (cb *ControlBlock) Init(userRegionBytes, slotStrideBytes int) {
	atomic.StoreUint64(&cb.Write.offset, 0)
	cb.Write.userRegionBytes = uint64(userRegionBytes)
	cb.Write.slotStrideBytes = uint64(slotStrideBytes)
	atomic.StoreUint64(&cb.Read.offset, 0)
	cb.Read.userRegionBytes = uint64(userRegionBytes)
	cb.Read.slotStrideBytes = uint64(slotStrideBytes)
}

// WriteOffset/ReadOffset are the only fields touched on the hot path; each
// is read and written exclusively by its own endpoint, so a plain atomic
// load/store (not compare-and-swap) suffices.
func (cb *ControlBlock) LoadWriteOffset() uint64   { return atomic.LoadUint64(&cb.Write.offset) }
func (cb *ControlBlock) StoreWriteOffset(v uint64) { atomic.StoreUint64(&cb.Write.offset, v) }
func (cb *ControlBlock) LoadReadOffset() uint64    { return atomic.LoadUint64(&cb.Read.offset) }
func (cb *ControlBlock) StoreReadOffset(v uint64)  { atomic.StoreUint64(&cb.Read.offset, v) }

// Geometry as recorded in the control block by whichever endpoint created
// the segment, used by later endpoints to validate their own derivation.
func (cb *ControlBlock) UserRegionBytes() int { return int(cb.Write.userRegionBytes) }
func (cb *ControlBlock) SlotStrideBytes() int { return int(cb.Write.slotStrideBytes) }
