package station

import (
	"math"
	"testing"
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
func (w *bitWriter) writeString(s string) {
	w.writeUint(uint64(len(s)), 8)
	for i := 0; i < len(s); i++ {
		w.writeUint(uint64(s[i]), 8)
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

func TestGetMessage1005Minimum(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(1005, 12)
	w.writeUint(1000, 12)
	w.writeUint(0, 6) // ITRF year
	w.writeUint(1, 1) // GPS indicator
	w.writeUint(0, 1) // GLONASS indicator
	w.writeUint(0, 1) // Galileo indicator
	w.writeUint(0, 1) // ref station flag
	w.writeInt(11141045999, 38)
	w.writeUint(0, 1) // osc indicator
	w.writeUint(0, 1) // reserved
	w.writeInt(-48507297108, 38)
	w.writeUint(0, 2) // quarter cycle
	w.writeInt(39755214643, 38)

	r, err := GetMessage1005(w.bytes())
	if err != nil {
		t.Fatalf("GetMessage1005: %v", err)
	}
	if r.StationID != 1000 {
		t.Errorf("StationID = %d, want 1000", r.StationID)
	}
	if !r.GPSIndicator {
		t.Errorf("GPSIndicator = false, want true")
	}
	wantX := 1114104.5999
	if math.Abs(r.AntennaRefXM-wantX) > 0.0005 {
		t.Errorf("AntennaRefXM = %v, want %v", r.AntennaRefXM, wantX)
	}
	wantY := -4850729.7108
	if math.Abs(r.AntennaRefYM-wantY) > 0.0005 {
		t.Errorf("AntennaRefYM = %v, want %v", r.AntennaRefYM, wantY)
	}
	wantZ := 3975521.4643
	if math.Abs(r.AntennaRefZM-wantZ) > 0.0005 {
		t.Errorf("AntennaRefZM = %v, want %v", r.AntennaRefZM, wantZ)
	}
	if r.HasAntennaHeight {
		t.Errorf("1005 must not set HasAntennaHeight")
	}
}

func TestGetMessage1230MaskTenTwo(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(1230, 12)
	w.writeUint(55, 12)
	w.writeUint(0, 1) // bias indicator
	w.writeUint(0, 3) // reserved
	w.writeUint(0b1010, 4)
	w.writeInt(100, 16) // L1 C/A bias: 100 * 0.02 = 2.0
	w.writeInt(200, 16) // L2 C/A bias: 200 * 0.02 = 4.0

	b, err := GetMessage1230(w.bytes())
	if err != nil {
		t.Fatalf("GetMessage1230: %v", err)
	}
	if !b.L1CABiasValid || b.L1PBiasValid || !b.L2CABiasValid || b.L2PBiasValid {
		t.Fatalf("unexpected validity flags: %+v", b)
	}
	if math.Abs(b.L1CABiasM-2.0) > 1e-9 {
		t.Errorf("L1CABiasM = %v, want 2.0", b.L1CABiasM)
	}
	if math.Abs(b.L2CABiasM-4.0) > 1e-9 {
		t.Errorf("L2CABiasM = %v, want 4.0", b.L2CABiasM)
	}
	if b.L1PBiasM != 0.0 || b.L2PBiasM != 0.0 {
		t.Errorf("absent biases must be exactly 0.0, got L1P=%v L2P=%v", b.L1PBiasM, b.L2PBiasM)
	}
}

func TestGetMessage1007StringTooLong(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(1007, 12)
	w.writeUint(1, 12)
	w.writeUint(40, 8) // length counter exceeds maxDescriptorLen
	_, err := GetMessage1007(w.bytes())
	if err == nil {
		t.Fatal("expected INVALID_MESSAGE for an over-capacity descriptor string")
	}
}

func TestGetMessage1033RoundTrip(t *testing.T) {
	w := &bitWriter{}
	w.writeUint(1033, 12)
	w.writeUint(2, 12)
	w.writeString("ANT-1")
	w.writeUint(3, 8) // antenna setup id
	w.writeString("SN1")
	w.writeString("RECV")
	w.writeString("1.0")
	w.writeString("RSN1")

	r, err := GetMessage1033(w.bytes())
	if err != nil {
		t.Fatalf("GetMessage1033: %v", err)
	}
	if r.AntennaDescriptor != "ANT-1" || r.AntennaSerial != "SN1" ||
		r.ReceiverDescriptor != "RECV" || r.ReceiverFirmware != "1.0" || r.ReceiverSerial != "RSN1" {
		t.Errorf("unexpected strings: %+v", r)
	}
}
