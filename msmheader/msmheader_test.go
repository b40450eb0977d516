package msmheader

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

func writeMSMHeader(w *bitWriter, messageType int, satMask uint64, sigMask uint32, cellMask uint64, numSat, numSig int) {
	w.writeUint(uint64(messageType), 12)
	w.writeUint(1, 12) // station id
	w.writeUint(1000, 30)
	w.writeUint(0, 1) // multiple message
	w.writeUint(0, 3) // IODS
	w.writeUint(0, 7) // reserved/session transmission time
	w.writeUint(0, 2) // clock steering
	w.writeUint(0, 2) // external clock
	w.writeUint(0, 1) // divergence free
	w.writeUint(0, 3) // smoothing interval
	w.writeUint(satMask, 64)
	w.writeUint(uint64(sigMask), 32)
	w.writeUint(cellMask, uint(numSat*numSig))
}

func TestGetMSMHeaderGPS7(t *testing.T) {
	w := &bitWriter{}
	// two satellites (bits 63 and 62 from the top), two signals (bits 31, 30)
	satMask := uint64(0b11) << 62
	sigMask := uint32(0b11) << 30
	cellMask := uint64(0b1011)
	writeMSMHeader(w, 1077, satMask, sigMask, cellMask, 2, 2)

	h, pos, err := GetMSMHeader(w.bytes())
	if err != nil {
		t.Fatalf("GetMSMHeader: %v", err)
	}
	if h.Constellation != "GPS" {
		t.Errorf("Constellation = %q, want GPS", h.Constellation)
	}
	if variant, ok := Variant(h.MessageType); !ok || variant != 7 {
		t.Errorf("Variant = %d,%v want 7,true", variant, ok)
	}
	if len(h.Satellites) != 2 || len(h.Signals) != 2 {
		t.Fatalf("got %d satellites, %d signals, want 2,2", len(h.Satellites), len(h.Signals))
	}
	// cellMask = 0b1011 has 3 set bits out of the 2*2=4 grid; NumSignalCells
	// must be the popcount (the number of signal columns on the wire), not
	// the full grid size.
	if h.NumSignalCells != 3 {
		t.Errorf("NumSignalCells = %d, want 3 (popcount of cell mask 0b1011, not 2*2=4)", h.NumSignalCells)
	}
	if pos == 0 {
		t.Errorf("expected non-zero bit position after header")
	}
}

func TestGetMSMHeaderWrongType(t *testing.T) {
	w := &bitWriter{}
	writeMSMHeader(w, 1001, 1<<63, 1<<31, 1, 1, 1)
	_, _, err := GetMSMHeader(w.bytes())
	if err == nil {
		t.Fatal("expected a message type mismatch error for a non-MSM message type")
	}
}

func TestGetMSMHeaderCellMaskTooLarge(t *testing.T) {
	w := &bitWriter{}
	satMask := uint64(0xFFFFFFFF) << 32 // 32 satellites
	sigMask := uint32(0b11) << 30       // 2 signals -> 64 cells, fine
	writeMSMHeader(w, 1077, satMask, sigMask, 0, 32, 2)
	// push over 64 cells: keep the 32 satellites and use 3 signals (96 cells)
	w2 := &bitWriter{}
	sigMask3 := uint32(0b111) << 29
	w2.writeUint(1077, 12)
	w2.writeUint(1, 12)
	w2.writeUint(1000, 30)
	w2.writeUint(0, 1)
	w2.writeUint(0, 3)
	w2.writeUint(0, 7)
	w2.writeUint(0, 2)
	w2.writeUint(0, 2)
	w2.writeUint(0, 1)
	w2.writeUint(0, 3)
	w2.writeUint(satMask, 64)
	w2.writeUint(uint64(sigMask3), 32)

	_, _, err := GetMSMHeader(w2.bytes())
	if err == nil {
		t.Fatal("expected INVALID_MESSAGE when N_sat*N_sig > MSMMaxCells")
	}
}
