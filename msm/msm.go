// Package msm decodes Multiple Signal Messages. MSM4 through MSM7 share one
// wire layout that only varies in the width of the fine pseudorange/carrier
// phase/lock-time fields and in whether the extended satellite info and
// phase-range-rate fields are present, so this package has one decoding
// core (decode) parameterized by Variant, with four thin entry points.
package msm

import (
	"fmt"

	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/locktime"
	"github.com/gnssbridge/rtcm3/msmheader"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
)

// Variant distinguishes the four MSM message shapes. Only the field widths
// and the presence of the extended satellite info / phase-range-rate
// fields differ between them.
type Variant int

const (
	MSM4 Variant = 4
	MSM5 Variant = 5
	MSM6 Variant = 6
	MSM7 Variant = 7
)

func (v Variant) extended() bool { return v == MSM5 || v == MSM7 }
func (v Variant) wide() bool     { return v == MSM6 || v == MSM7 }

// Satellite is one satellite column: the rough range and, for MSM5/7, the
// extended satellite info and the rough phase range rate.
type Satellite struct {
	SVID uint

	RoughRangeMS float64
	ValidRange   bool

	// FCN is the GLONASS frequency channel number decoded from the
	// extended satellite info field, or MSMGLOFCNUnknown if the
	// constellation is not GLONASS or the raw value is out of range.
	// ExtendedInfoRaw carries the untouched 4-bit field for every other
	// constellation; RTCM leaves its meaning undefined outside GLONASS,
	// so interpretation is up to the caller.
	FCN             uint
	ExtendedInfoRaw uint
	HasExtendedInfo bool

	RoughRangeRateMPS float64
	ValidRangeRate    bool
}

// Signal is one (satellite, signal) cell.
type Signal struct {
	SVID     uint
	SignalID uint

	PseudorangeMS float64
	ValidPR       bool

	CarrierPhaseMS float64
	ValidCP        bool

	LockTimeS float64
	ValidLock bool

	HalfCycleAmbiguity bool

	CNR      float64
	ValidCNR bool

	RangeRateMPS float64
	ValidDop     bool
}

// Message is a decoded MSM message: the header, a record per satellite in
// the satellite mask and a record per set bit in the cell mask, in
// ascending (satellite, signal) order.
type Message struct {
	Header     msmheader.Header
	Variant    Variant
	Satellites []Satellite
	Signals    []Signal
}

// GetMSM4Message decodes an MSM4 message of any constellation.
func GetMSM4Message(bitStream []byte) (*Message, error) { return decode(bitStream, MSM4) }

// GetMSM5Message decodes an MSM5 message of any constellation.
func GetMSM5Message(bitStream []byte) (*Message, error) { return decode(bitStream, MSM5) }

// GetMSM6Message decodes an MSM6 message of any constellation.
func GetMSM6Message(bitStream []byte) (*Message, error) { return decode(bitStream, MSM6) }

// GetMSM7Message decodes an MSM7 message of any constellation.
func GetMSM7Message(bitStream []byte) (*Message, error) { return decode(bitStream, MSM7) }

const (
	lenRoughRangeWhole   = 8
	lenExtendedInfo      = 4
	lenRoughRangeFrac    = 10
	lenRoughRangeRate    = 14
	lenFinePRNarrow      = 15
	lenFineCPNarrow      = 22
	lenLockNarrow        = 4
	lenFinePRWide        = 20
	lenFineCPWide        = 24
	lenLockWide          = 10
	lenHCA               = 1
	lenCNRNarrow         = 6
	lenCNRWide           = 10
	lenFineRangeRateRate = 15
)

func decode(bitStream []byte, variant Variant) (*Message, error) {
	header, pos, err := msmheader.GetMSMHeader(bitStream)
	if err != nil {
		return nil, err
	}
	if got, wantOK := msmheader.Variant(header.MessageType); !wantOK || got != int(variant) {
		return nil, rtcmerr.MessageTypeMismatch(header.MessageType, 0)
	}

	numSat := len(header.Satellites)
	numCells := header.NumSignalCells

	satBits := uint(numSat) * (lenRoughRangeWhole + lenRoughRangeFrac)
	if variant.extended() {
		satBits += uint(numSat) * (lenExtendedInfo + lenRoughRangeRate)
	}
	if pos+satBits > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage(fmt.Sprintf(
			"bitstream too short for %d MSM%d satellite cells", numSat, variant))
	}

	satellites, pos := decodeSatelliteColumns(bitStream, pos, header, variant)

	signalBits := satSignalBits(variant, numCells)
	if pos+signalBits > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage(fmt.Sprintf(
			"bitstream too short for %d MSM%d signal cells", numCells, variant))
	}

	signals := decodeSignalColumns(bitStream, pos, header, satellites, variant)

	return &Message{Header: *header, Variant: variant, Satellites: satellites, Signals: signals}, nil
}

func satSignalBits(variant Variant, numCells int) uint {
	var perCell uint
	if variant.wide() {
		perCell = lenFinePRWide + lenFineCPWide + lenLockWide
	} else {
		perCell = lenFinePRNarrow + lenFineCPNarrow + lenLockNarrow
	}
	perCell += lenHCA
	if variant.wide() {
		perCell += lenCNRWide
	} else {
		perCell += lenCNRNarrow
	}
	if variant.extended() {
		perCell += lenFineRangeRateRate
	}
	return uint(numCells) * perCell
}

// decodeSatelliteColumns reads the column-major satellite block: all the
// rough-range-whole values, then (for MSM5/7) all the extended info
// values, then all the rough-range-fraction values, then (for MSM5/7) all
// the rough range rate values.
func decodeSatelliteColumns(bitStream []byte, pos uint, header *msmheader.Header, variant Variant) ([]Satellite, uint) {
	n := len(header.Satellites)

	roughWhole := make([]uint64, n)
	for i := 0; i < n; i++ {
		roughWhole[i] = bitreader.GetUint(bitStream, pos, lenRoughRangeWhole)
		pos += lenRoughRangeWhole
	}

	extInfo := make([]uint64, n)
	if variant.extended() {
		for i := 0; i < n; i++ {
			extInfo[i] = bitreader.GetUint(bitStream, pos, lenExtendedInfo)
			pos += lenExtendedInfo
		}
	}

	roughFrac := make([]uint64, n)
	for i := 0; i < n; i++ {
		roughFrac[i] = bitreader.GetUint(bitStream, pos, lenRoughRangeFrac)
		pos += lenRoughRangeFrac
	}

	roughRate := make([]int64, n)
	if variant.extended() {
		for i := 0; i < n; i++ {
			roughRate[i] = bitreader.GetInt(bitStream, pos, lenRoughRangeRate)
			pos += lenRoughRangeRate
		}
	}

	satellites := make([]Satellite, n)
	for i := 0; i < n; i++ {
		sat := Satellite{SVID: header.Satellites[i]}

		if roughWhole[i] != rtcmconst.MSMRoughRangeInvalid {
			sat.RoughRangeMS = float64(roughWhole[i]) + float64(roughFrac[i])/1024.0
			sat.ValidRange = true
		}

		if variant.extended() {
			sat.HasExtendedInfo = true
			sat.ExtendedInfoRaw = uint(extInfo[i])
			if header.Constellation == "GLONASS" {
				if extInfo[i] <= rtcmconst.MT1012GLOMaxFCN {
					sat.FCN = uint(extInfo[i])
				} else {
					sat.FCN = rtcmconst.MSMGLOFCNUnknown
				}
			} else {
				sat.FCN = rtcmconst.MSMGLOFCNUnknown
			}

			if roughRate[i] != rtcmconst.MSMRoughRateInvalid {
				sat.RoughRangeRateMPS = float64(roughRate[i])
				sat.ValidRangeRate = true
			}
		} else {
			sat.FCN = rtcmconst.MSMGLOFCNUnknown
		}

		satellites[i] = sat
	}

	return satellites, pos
}

// decodeSignalColumns reads the column-major signal block and assembles it
// with the satellite block into one record per set cell-mask bit, in
// ascending (satellite, signal) order. The running cell index c only
// advances on a set cell-mask bit, so unobserved (satellite, signal) pairs
// consume no wire data.
func decodeSignalColumns(bitStream []byte, pos uint, header *msmheader.Header, satellites []Satellite, variant Variant) []Signal {
	n := header.NumSignalCells

	finePR := make([]int64, n)
	finePRWidth := uint(lenFinePRNarrow)
	if variant.wide() {
		finePRWidth = lenFinePRWide
	}
	for i := 0; i < n; i++ {
		finePR[i] = bitreader.GetInt(bitStream, pos, finePRWidth)
		pos += finePRWidth
	}

	fineCP := make([]int64, n)
	fineCPWidth := uint(lenFineCPNarrow)
	if variant.wide() {
		fineCPWidth = lenFineCPWide
	}
	for i := 0; i < n; i++ {
		fineCP[i] = bitreader.GetInt(bitStream, pos, fineCPWidth)
		pos += fineCPWidth
	}

	lock := make([]uint64, n)
	lockWidth := uint(lenLockNarrow)
	if variant.wide() {
		lockWidth = lenLockWide
	}
	for i := 0; i < n; i++ {
		lock[i] = bitreader.GetUint(bitStream, pos, lockWidth)
		pos += lockWidth
	}

	hca := make([]bool, n)
	for i := 0; i < n; i++ {
		hca[i] = bitreader.GetUint(bitStream, pos, lenHCA) == 1
		pos += lenHCA
	}

	cnr := make([]uint64, n)
	cnrWidth := uint(lenCNRNarrow)
	if variant.wide() {
		cnrWidth = lenCNRWide
	}
	for i := 0; i < n; i++ {
		cnr[i] = bitreader.GetUint(bitStream, pos, cnrWidth)
		pos += cnrWidth
	}

	fineRate := make([]int64, n)
	if variant.extended() {
		for i := 0; i < n; i++ {
			fineRate[i] = bitreader.GetInt(bitStream, pos, lenFineRangeRateRate)
			pos += lenFineRangeRateRate
		}
	}

	signals := make([]Signal, 0, n)
	c := 0
	for i := range header.Cells {
		sat := satellites[i]
		for j := range header.Cells[i] {
			if !header.Cells[i][j] {
				continue
			}

			sig := Signal{
				SVID:               sat.SVID,
				SignalID:           header.Signals[j],
				HalfCycleAmbiguity: hca[c],
				ValidLock:          true,
			}
			sig.LockTimeS = decodeLockTimeS(variant, lock[c])

			prInvalid := rtcmconst.MSMPRInvalid
			prScale := finePRScale(variant)
			if variant.wide() {
				prInvalid = rtcmconst.MSMPRExtInvalid
			}
			if sat.ValidRange && finePR[c] != prInvalid {
				sig.PseudorangeMS = sat.RoughRangeMS + float64(finePR[c])*prScale
				sig.ValidPR = true
			}

			cpInvalid := rtcmconst.MSMCPInvalid
			cpScale := fineCPScale(variant)
			if variant.wide() {
				cpInvalid = rtcmconst.MSMCPExtInvalid
			}
			if sat.ValidRange && fineCP[c] != cpInvalid {
				sig.CarrierPhaseMS = sat.RoughRangeMS + float64(fineCP[c])*cpScale
				sig.ValidCP = true
			}

			if cnr[c] != rtcmconst.MSMCNRInvalid {
				if variant.wide() {
					sig.CNR = float64(cnr[c]) / 16.0
				} else {
					sig.CNR = float64(cnr[c])
				}
				sig.ValidCNR = true
			}

			if variant.extended() {
				if sat.ValidRangeRate && fineRate[c] != rtcmconst.MSMDopInvalid {
					sig.RangeRateMPS = sat.RoughRangeRateMPS + float64(fineRate[c])*1e-4
					sig.ValidDop = true
				}
			}

			signals = append(signals, sig)
			c++
		}
	}

	return signals
}

func decodeLockTimeS(variant Variant, raw uint64) float64 {
	if variant.wide() {
		return locktime.MSMExt(uint(raw)) / 1000.0
	}
	return locktime.MSM(uint(raw))
}

func finePRScale(variant Variant) float64 {
	if variant.wide() {
		return 1.0 / (1 << 29)
	}
	return 1.0 / (1 << 24)
}

func fineCPScale(variant Variant) float64 {
	if variant.wide() {
		return 1.0 / (1 << 31)
	}
	return 1.0 / (1 << 29)
}
