package proprietary

import "testing"

type bitWriter struct{ bits []bool }

func (w *bitWriter) writeUint(v uint64, width uint) {
	for i := int(width) - 1; i >= 0; i-- {
		w.bits = append(w.bits, (v>>uint(i))&1 == 1)
	}
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

func TestGetMessage4062ReservedBitsSet(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(4062, 12)
	w.writeUint(0x1, 4) // reserved must be zero
	w.writeUint(1, 16)
	w.writeUint(2, 16)
	w.writeUint(0, 8)

	_, err := GetMessage4062(w.bytes())
	if err == nil {
		t.Fatal("expected INVALID_MESSAGE for non-zero reserved bits")
	}
}

func TestGetMessage4062ThreeBytePayload(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(4062, 12)
	w.writeUint(0x0, 4)
	w.writeUint(7, 16)
	w.writeUint(42, 16)
	w.writeUint(3, 8)
	w.writeUint(0xAA, 8)
	w.writeUint(0xBB, 8)
	w.writeUint(0xCC, 8)

	msg, err := GetMessage4062(w.bytes())
	if err != nil {
		t.Fatalf("GetMessage4062: %v", err)
	}
	if msg.InnerType != 7 || msg.SenderID != 42 {
		t.Errorf("unexpected envelope fields: %+v", msg)
	}
	if len(msg.Payload) != 3 || msg.Payload[0] != 0xAA || msg.Payload[1] != 0xBB || msg.Payload[2] != 0xCC {
		t.Errorf("unexpected payload: %v", msg.Payload)
	}
}
