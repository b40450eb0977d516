package rtcm3

import (
	"testing"

	"github.com/kylelemons/godebug/diff"

	"github.com/gnssbridge/rtcm3/legacyobs"
	"github.com/gnssbridge/rtcm3/proprietary"
)

type bitWriter struct{ bits []bool }

func (w *bitWriter) writeUint(v uint64, width uint) {
	for i := int(width) - 1; i >= 0; i-- {
		w.bits = append(w.bits, (v>>uint(i))&1 == 1)
	}
}
func (w *bitWriter) writeInt(v int64, width uint) {
	w.writeUint(uint64(v)&((1<<width)-1), width)
}
func (w *bitWriter) bytes() []byte {
	n := (len(w.bits) + 7) / 8
	out := make([]byte, n)
	for i, b := range w.bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func TestDecodeDispatchesLegacyObs(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(1001, 12)
	w.writeUint(0, 12)
	w.writeUint(86400000, 30)
	w.writeUint(0, 1)
	w.writeUint(1, 5)
	w.writeUint(0, 1) // divergence-free smoothing
	w.writeUint(0, 3) // smoothing interval
	w.writeUint(5, 6)
	w.writeUint(0, 1)
	w.writeUint(21234567, 24)
	w.writeInt(12345, 20)
	w.writeUint(24, 7)

	msg, err := Decode(w.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.MessageType != 1001 {
		t.Errorf("MessageType = %d, want 1001", msg.MessageType)
	}
	if _, ok := msg.Readable.(*legacyobs.Message); !ok {
		t.Errorf("Readable is %T, want *legacyobs.Message", msg.Readable)
	}

	wantSummary := "message type 1001 (*legacyobs.Message)"
	if got := msg.String(); got != wantSummary {
		t.Errorf("String() mismatch:\n%s", diff.Diff(wantSummary, got))
	}
}

func TestDecodeDispatchesProprietary(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(4062, 12)
	w.writeUint(0, 4)
	w.writeUint(1, 16)
	w.writeUint(2, 16)
	w.writeUint(0, 8)

	msg, err := Decode(w.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := msg.Readable.(*proprietary.Message4062); !ok {
		t.Errorf("Readable is %T, want *proprietary.Message4062", msg.Readable)
	}
}

func TestDecodeUnsupportedType(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(9999, 12)
	w.writeUint(0, 20)

	_, err := Decode(w.bytes())
	if err == nil {
		t.Fatal("expected a message type mismatch error for an unsupported type")
	}
}
