// Package legacyobs decodes the legacy (pre-MSM) GPS and GLONASS
// observation messages: 1001, 1002, 1003, 1004, 1010 and 1012. The six
// decoders share one parameterized core (decodeSatellite) keyed by a
// small per-message-type shape table, rather than six near-duplicate
// implementations, following the RTCM family's shared wire layout.
package legacyobs

import (
	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/legacyheader"
	"github.com/gnssbridge/rtcm3/locktime"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
)

// FrequencyBlock is one frequency's worth of observation data for one
// satellite: pseudorange, carrier phase, lock time and C/N0, each guarded
// by its own validity flag (validity is orthogonal to presence: absent or
// sentinel-valued fields are still written as zero with the flag cleared).
type FrequencyBlock struct {
	Code               uint
	PseudorangeM       float64
	CarrierPhaseCycles float64
	LockTimeS          int
	CNR                float64
	ValidPR            bool
	ValidCP            bool
	ValidLock          bool
	ValidCNR           bool
}

// Satellite is one satellite's observation block: an L1 frequency block,
// always present, and an optional L2 block for messages that carry it.
type Satellite struct {
	SVID  uint
	FCN   uint // GLONASS frequency channel number + MT1012GLOFCNOffset encoding; 0 for GPS.
	L1    FrequencyBlock
	L2    FrequencyBlock
	HasL2 bool
}

// Message is a decoded legacy observation message.
type Message struct {
	Header     legacyheader.Header
	Satellites []Satellite
}

// shape describes the wire layout variant for one legacy message type.
type shape struct {
	expectedType int
	glonass      bool
	hasAmbAndCNR bool // 1002/1004/1010/1012: read the 8-bit ambiguity and 8-bit C/N0 fields
	hasL2        bool // 1003/1004/1012: read an L2 block
	hasL2CNR     bool // 1004/1012: read the L2 8-bit C/N0 field
}

var shapes = map[int]shape{
	rtcmconst.MessageType1001: {expectedType: rtcmconst.MessageType1001, glonass: false, hasAmbAndCNR: false, hasL2: false},
	rtcmconst.MessageType1002: {expectedType: rtcmconst.MessageType1002, glonass: false, hasAmbAndCNR: true, hasL2: false},
	rtcmconst.MessageType1003: {expectedType: rtcmconst.MessageType1003, glonass: false, hasAmbAndCNR: false, hasL2: true},
	rtcmconst.MessageType1004: {expectedType: rtcmconst.MessageType1004, glonass: false, hasAmbAndCNR: true, hasL2: true, hasL2CNR: true},
	rtcmconst.MessageType1010: {expectedType: rtcmconst.MessageType1010, glonass: true, hasAmbAndCNR: true, hasL2: false},
	rtcmconst.MessageType1012: {expectedType: rtcmconst.MessageType1012, glonass: true, hasAmbAndCNR: true, hasL2: true, hasL2CNR: true},
}

// GetMessage1001 decodes a type 1001 (GPS, L1 only) message.
func GetMessage1001(bitStream []byte) (*Message, error) {
	return decode(bitStream, shapes[rtcmconst.MessageType1001])
}

// GetMessage1002 decodes a type 1002 (GPS, L1 only, extended) message.
func GetMessage1002(bitStream []byte) (*Message, error) {
	return decode(bitStream, shapes[rtcmconst.MessageType1002])
}

// GetMessage1003 decodes a type 1003 (GPS, L1 and L2) message.
func GetMessage1003(bitStream []byte) (*Message, error) {
	return decode(bitStream, shapes[rtcmconst.MessageType1003])
}

// GetMessage1004 decodes a type 1004 (GPS, L1 and L2, extended) message.
func GetMessage1004(bitStream []byte) (*Message, error) {
	return decode(bitStream, shapes[rtcmconst.MessageType1004])
}

// GetMessage1010 decodes a type 1010 (GLONASS, L1 only, extended) message.
func GetMessage1010(bitStream []byte) (*Message, error) {
	return decode(bitStream, shapes[rtcmconst.MessageType1010])
}

// GetMessage1012 decodes a type 1012 (GLONASS, L1 and L2, extended) message.
func GetMessage1012(bitStream []byte) (*Message, error) {
	return decode(bitStream, shapes[rtcmconst.MessageType1012])
}

const (
	lenSVID      = 6
	lenCodeL1    = 1
	lenFCN       = 5
	lenPRGPSL1   = 24
	lenPRGLOL1   = 25
	lenDeltaPR   = 20
	lenLock      = 7
	lenAmbiguity = 8
	lenCNR       = 8
	lenCodeL2    = 2
	lenPRDiffL2  = 14
)

func decode(bitStream []byte, s shape) (*Message, error) {
	var header *legacyheader.Header
	var pos uint
	var err error
	if s.glonass {
		header, pos, err = legacyheader.GetGlonassHeader(bitStream, s.expectedType)
	} else {
		header, pos, err = legacyheader.GetGPSHeader(bitStream, s.expectedType)
	}
	if err != nil {
		return nil, err
	}

	satellites := make([]Satellite, 0, header.SatelliteCount)
	for i := uint(0); i < header.SatelliteCount; i++ {
		sat, next, decodeErr := decodeSatellite(bitStream, pos, s)
		if decodeErr != nil {
			return nil, decodeErr
		}
		pos = next
		satellites = append(satellites, sat)
	}

	return &Message{Header: *header, Satellites: satellites}, nil
}

func decodeSatellite(bitStream []byte, pos uint, s shape) (Satellite, uint, error) {
	minBits := lenSVID + lenCodeL1 + lenDeltaPR + lenLock
	if s.glonass {
		minBits += lenFCN + lenPRGLOL1
	} else {
		minBits += lenPRGPSL1
	}
	if s.hasAmbAndCNR {
		minBits += lenAmbiguity + lenCNR
	}
	if s.hasL2 {
		minBits += lenCodeL2 + lenPRDiffL2 + lenDeltaPR + lenLock
		if s.hasL2CNR {
			minBits += lenCNR
		}
	}
	if pos+uint(minBits) > bitreader.Len(bitStream) {
		return Satellite{}, 0, rtcmerr.InvalidMessage("bitstream too short for a legacy satellite block")
	}

	sat := Satellite{}
	sat.SVID = uint(bitreader.GetUint(bitStream, pos, lenSVID))
	pos += lenSVID

	l1Code := uint(bitreader.GetUint(bitStream, pos, lenCodeL1))
	pos += lenCodeL1

	var fcn uint
	if s.glonass {
		fcn = uint(bitreader.GetUint(bitStream, pos, lenFCN))
		pos += lenFCN
		sat.FCN = fcn
	}

	var prRaw uint64
	if s.glonass {
		prRaw = bitreader.GetUint(bitStream, pos, lenPRGLOL1)
		pos += lenPRGLOL1
	} else {
		prRaw = bitreader.GetUint(bitStream, pos, lenPRGPSL1)
		pos += lenPRGPSL1
	}

	deltaPR := bitreader.GetInt(bitStream, pos, lenDeltaPR)
	pos += lenDeltaPR

	lockRaw := uint(bitreader.GetUint(bitStream, pos, lenLock))
	pos += lenLock

	var amb uint64
	var cnr1 uint64
	if s.hasAmbAndCNR {
		amb = bitreader.GetUint(bitStream, pos, lenAmbiguity)
		pos += lenAmbiguity
		cnr1 = bitreader.GetUint(bitStream, pos, lenCNR)
		pos += lenCNR
	}

	prunit := rtcmconst.PRUnitGPS
	freqL1 := rtcmconst.GPSL1Hz
	if s.glonass {
		prunit = rtcmconst.PRUnitGLO
		freqL1 = glonassFrequency(rtcmconst.GLOL1Hz, rtcmconst.GLOL1DeltaHz, fcn)
	}

	// l1PR is derived from the raw value whatever the flags say; the
	// record's pseudorange field only keeps it when the raw value isn't
	// the sentinel.
	l1PR := 0.02*float64(prRaw) + float64(amb)*prunit
	sat.L1.Code = l1Code
	sat.L1.LockTimeS = locktime.Legacy(lockRaw)
	if prRaw != rtcmconst.PRL1Invalid {
		sat.L1.PseudorangeM = l1PR
		sat.L1.ValidPR = true
	}

	glonassFCNValid := !s.glonass || fcn <= rtcmconst.MT1012GLOMaxFCN
	if deltaPR != rtcmconst.CPInvalid20 && glonassFCNValid {
		sat.L1.CarrierPhaseCycles = (l1PR + 0.0005*float64(deltaPR)) / (rtcmconst.GPSC / freqL1)
		sat.L1.ValidCP = true
	}
	sat.L1.ValidLock = sat.L1.ValidCP
	if s.hasAmbAndCNR {
		if cnr1 != 0 {
			sat.L1.CNR = float64(cnr1) * 0.25
			sat.L1.ValidCNR = true
		}
	}

	if !s.hasL2 {
		return sat, pos, nil
	}

	sat.HasL2 = true

	l2Code := uint(bitreader.GetUint(bitStream, pos, lenCodeL2))
	pos += lenCodeL2

	prDiff := bitreader.GetInt(bitStream, pos, lenPRDiffL2)
	pos += lenPRDiffL2

	deltaPR2 := bitreader.GetInt(bitStream, pos, lenDeltaPR)
	pos += lenDeltaPR

	lock2Raw := uint(bitreader.GetUint(bitStream, pos, lenLock))
	pos += lenLock

	var cnr2 uint64
	if s.hasL2CNR {
		cnr2 = bitreader.GetUint(bitStream, pos, lenCNR)
		pos += lenCNR
	}

	sat.L2.Code = l2Code
	sat.L2.LockTimeS = locktime.Legacy(lock2Raw)

	freqL2 := rtcmconst.GPSL2Hz
	if s.glonass {
		freqL2 = glonassFrequency(rtcmconst.GLOL2Hz, rtcmconst.GLOL2DeltaHz, fcn)
	}

	if prDiff != rtcmconst.PRL2DiffInvalid {
		sat.L2.PseudorangeM = 0.02*float64(prDiff) + l1PR
		sat.L2.ValidPR = true
	}
	if deltaPR2 != rtcmconst.CPInvalid20 && glonassFCNValid {
		sat.L2.CarrierPhaseCycles = (l1PR + 0.0005*float64(deltaPR2)) / (rtcmconst.GPSC / freqL2)
		sat.L2.ValidCP = true
	}
	sat.L2.ValidLock = sat.L2.ValidCP
	if s.hasL2CNR && cnr2 != 0 {
		sat.L2.CNR = float64(cnr2) * 0.25
		sat.L2.ValidCNR = true
	}

	return sat, pos, nil
}

// glonassFrequency computes the per-satellite carrier frequency for a
// GLONASS FDMA signal from its frequency channel number.
func glonassFrequency(baseHz, deltaHz float64, fcn uint) float64 {
	return baseHz + (float64(fcn)-rtcmconst.MT1012GLOFCNOffset)*deltaHz
}
