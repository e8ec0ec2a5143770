package layout

import (
	"testing"
	"unsafe"
)

func TestSlotStrideRounding(t *testing.T) {
	cases := []struct {
		payload int
		want    int
	}{
		{0, CacheLineBytes},
		{1, CacheLineBytes},
		{CacheLineBytes - FlagBytes, CacheLineBytes},
		{CacheLineBytes - FlagBytes + 1, CacheLineBytes * 2},
		{2*CacheLineBytes + 1, CacheLineBytes * 4},
	}
	for _, c := range cases {
		got := SlotStride(c.payload)
		if got != c.want {
			t.Errorf("SlotStride(%d) = %d, want %d", c.payload, got, c.want)
		}
		if !IsPowerOfTwo(got) {
			t.Errorf("SlotStride(%d) = %d is not a power of two", c.payload, got)
		}
		if got%CacheLineBytes != 0 {
			t.Errorf("SlotStride(%d) = %d is not a cache-line multiple", c.payload, got)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 32 * 1024} {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, -1, 3, 5, 6, 1023} {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true, want false", n)
		}
	}
}

func TestCursorLinesDoNotShareACacheLine(t *testing.T) {
	var cb ControlBlock
	writeOff := unsafe.Offsetof(cb.Write)
	readOff := unsafe.Offsetof(cb.Read)
	if readOff-writeOff < CacheLineBytes {
		t.Fatalf("write and read cursor lines overlap a cache line: write=%d read=%d", writeOff, readOff)
	}
	if unsafe.Sizeof(cb.Write) != CacheLineBytes || unsafe.Sizeof(cb.Read) != CacheLineBytes {
		t.Fatalf("cursor line sizes = %d/%d, want %d each", unsafe.Sizeof(cb.Write), unsafe.Sizeof(cb.Read), CacheLineBytes)
	}
}

func TestControlBlockInitAndCursors(t *testing.T) {
	buf := make([]byte, ControlBlockBytes)
	cb := AtControlBlock(buf)
	cb.Init(32*1024, 64)

	if got := cb.UserRegionBytes(); got != 32*1024 {
		t.Errorf("UserRegionBytes() = %d, want %d", got, 32*1024)
	}
	if got := cb.SlotStrideBytes(); got != 64 {
		t.Errorf("SlotStrideBytes() = %d, want %d", got, 64)
	}
	if got := cb.LoadWriteOffset(); got != 0 {
		t.Errorf("LoadWriteOffset() = %d, want 0", got)
	}
	cb.StoreWriteOffset(64)
	if got := cb.LoadWriteOffset(); got != 64 {
		t.Errorf("LoadWriteOffset() = %d, want 64", got)
	}
	if got := cb.LoadReadOffset(); got != 0 {
		t.Errorf("LoadReadOffset() = %d, want 0 (write/read cursors are independent)", got)
	}
}

func TestSlotFlagRoundTrip(t *testing.T) {
	region := make([]byte, 2*CacheLineBytes)
	slot := SlotAt(region, CacheLineBytes, CacheLineBytes)

	if LoadFlag(slot) != Free {
		t.Fatalf("fresh slot flag = occupied, want free")
	}
	StoreFlag(slot, Occupied)
	if LoadFlag(slot) != Occupied {
		t.Fatalf("slot flag after StoreFlag(Occupied) = free, want occupied")
	}
	payload := Payload(slot)
	if len(payload) != CacheLineBytes-FlagBytes {
		t.Fatalf("len(Payload(slot)) = %d, want %d", len(payload), CacheLineBytes-FlagBytes)
	}
}
