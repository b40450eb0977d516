// Package msmheader decodes the Multiple Signal Message (MSM) header
// shared by MSM4, MSM5, MSM6 and MSM7 messages across every constellation
// this module supports.
package msmheader

import (
	"fmt"
	"math/bits"

	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/locktime"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
)

const (
	lenMessageType                          = 12
	lenStationID                            = 12
	lenEpochTime                            = 30
	lenMultipleMessageFlag                  = 1
	lenIssueOfDataStation                   = 3
	lenSessionTransmissionTime              = 7
	lenClockSteeringIndicator               = 2
	lenExternalClockIndicator               = 2
	lenGNSSDivergenceFreeSmoothingIndicator = 1
	lenGNSSSmoothingInterval                = 3
	lenSatelliteMask                        = rtcmconst.MSMSatelliteMaskSize
	lenSignalMask                           = rtcmconst.MSMSignalMaskSize
)

const minBitsInHeader = lenMessageType + lenStationID + lenEpochTime +
	lenMultipleMessageFlag + lenIssueOfDataStation + lenSessionTransmissionTime +
	lenClockSteeringIndicator + lenExternalClockIndicator +
	lenGNSSDivergenceFreeSmoothingIndicator + lenGNSSSmoothingInterval +
	lenSatelliteMask + lenSignalMask

// Header holds the fields common to every MSM message.
type Header struct {
	MessageType                          int
	Constellation                        string
	StationID                            uint
	EpochTimeMS                          uint
	MultipleMessage                      bool
	IssueOfDataStation                   uint
	SessionTransmissionTime              uint
	ClockSteeringIndicator               uint
	ExternalClockIndicator               uint
	GNSSDivergenceFreeSmoothingIndicator bool
	GNSSSmoothingInterval                uint
	SatelliteMask                        uint64
	SignalMask                           uint32
	CellMask                             uint64
	Satellites                           []uint
	Signals                              []uint
	Cells                                [][]bool

	// NumSignalCells is popcount(cell mask): the number of (satellite,
	// signal) pairs actually selected, i.e. the number of signal columns
	// on the wire. This is ordinarily far smaller than
	// len(Satellites)*len(Signals), the cell *mask*'s bit width - a
	// receiver rarely reports every signal for every satellite.
	NumSignalCells int
}

// GetMSMHeader extracts the header from an MSM message of any supported
// variant (MSM4-7). It returns the header and the bit position of the
// first satellite block. An error is returned if the bit stream is too
// short, the message type is not a supported MSM, or the cell mask would
// exceed MSMMaxCells bits.
func GetMSMHeader(bitStream []byte) (*Header, uint, error) {
	if bitreader.Len(bitStream) < minBitsInHeader {
		return nil, 0, rtcmerr.InvalidMessage(fmt.Sprintf(
			"bitstream is too short for an MSM header - got %d bits, expected at least %d",
			bitreader.Len(bitStream), minBitsInHeader))
	}

	messageType, constellation, err := getMSMTypeAndConstellation(bitStream)
	if err != nil {
		return nil, 0, err
	}

	var pos uint = lenMessageType
	stationID := uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID

	epochTime := uint(bitreader.GetUint(bitStream, pos, lenEpochTime))
	pos += lenEpochTime
	if constellation == "BeiDou" {
		epochTime = locktime.NormalizeBeidouTOW(epochTime, rtcmconst.RTCMMaxTowMS)
	}

	multipleMessage := bitreader.GetUint(bitStream, pos, lenMultipleMessageFlag) == 1
	pos += lenMultipleMessageFlag

	issueOfDataStation := uint(bitreader.GetUint(bitStream, pos, lenIssueOfDataStation))
	pos += lenIssueOfDataStation

	sessionTransmissionTime := uint(bitreader.GetUint(bitStream, pos, lenSessionTransmissionTime))
	pos += lenSessionTransmissionTime

	clockSteeringIndicator := uint(bitreader.GetUint(bitStream, pos, lenClockSteeringIndicator))
	pos += lenClockSteeringIndicator

	externalClockIndicator := uint(bitreader.GetUint(bitStream, pos, lenExternalClockIndicator))
	pos += lenExternalClockIndicator

	divergenceFree := bitreader.GetUint(bitStream, pos, lenGNSSDivergenceFreeSmoothingIndicator) == 1
	pos += lenGNSSDivergenceFreeSmoothingIndicator

	smoothingInterval := uint(bitreader.GetUint(bitStream, pos, lenGNSSSmoothingInterval))
	pos += lenGNSSSmoothingInterval

	satelliteMask := bitreader.GetUint(bitStream, pos, lenSatelliteMask)
	pos += lenSatelliteMask
	satellites := maskToIndices(satelliteMask, lenSatelliteMask)

	signalMask := uint32(bitreader.GetUint(bitStream, pos, lenSignalMask))
	pos += lenSignalMask
	signals := maskToIndices(uint64(signalMask), lenSignalMask)

	lenCellMaskBits := uint(len(satellites) * len(signals))
	if lenCellMaskBits > rtcmconst.MSMMaxCells {
		return nil, 0, rtcmerr.InvalidMessage(fmt.Sprintf(
			"cell mask is %d bits - expected <= %d", lenCellMaskBits, rtcmconst.MSMMaxCells))
	}

	if pos+lenCellMaskBits > bitreader.Len(bitStream) {
		return nil, 0, rtcmerr.InvalidMessage(fmt.Sprintf(
			"bitstream is too short for an MSM header with %d cell mask bits", lenCellMaskBits))
	}

	cellMask := bitreader.GetUint(bitStream, pos, lenCellMaskBits)
	pos += lenCellMaskBits

	header := &Header{
		MessageType:                          messageType,
		Constellation:                        constellation,
		StationID:                            stationID,
		EpochTimeMS:                          epochTime,
		MultipleMessage:                      multipleMessage,
		IssueOfDataStation:                   issueOfDataStation,
		SessionTransmissionTime:              sessionTransmissionTime,
		ClockSteeringIndicator:               clockSteeringIndicator,
		ExternalClockIndicator:               externalClockIndicator,
		GNSSDivergenceFreeSmoothingIndicator: divergenceFree,
		GNSSSmoothingInterval:                smoothingInterval,
		SatelliteMask:                        satelliteMask,
		SignalMask:                           signalMask,
		CellMask:                             cellMask,
		Satellites:                           satellites,
		Signals:                              signals,
		Cells:                                maskToCells(cellMask, len(satellites), len(signals)),
		NumSignalCells:                       bits.OnesCount64(cellMask),
	}

	return header, pos, nil
}

// msmTypeInfo maps a supported MSM message number to its constellation
// and variant digit (4, 5, 6 or 7).
type msmTypeInfo struct {
	constellation string
	variant       int
}

var msmTypes = buildMSMTypes()

func buildMSMTypes() map[int]msmTypeInfo {
	families := []struct {
		base          int // the x07x style decade start, e.g. 1070 for GPS
		constellation string
	}{
		{1070, "GPS"},
		{1080, "GLONASS"},
		{1090, "Galileo"},
		{1100, "SBAS"},
		{1110, "QZSS"},
		{1120, "BeiDou"},
		{1130, "NavIC/IRNSS"},
	}
	m := make(map[int]msmTypeInfo, len(families)*4)
	for _, f := range families {
		for variant := 4; variant <= 7; variant++ {
			m[f.base+variant] = msmTypeInfo{constellation: f.constellation, variant: variant}
		}
	}
	return m
}

func getMSMTypeAndConstellation(bitStream []byte) (int, string, error) {
	messageType := int(bitreader.GetUint(bitStream, 0, lenMessageType))
	info, ok := msmTypes[messageType]
	if !ok {
		return 0, "", rtcmerr.MessageTypeMismatch(messageType, 0)
	}
	return messageType, info.constellation, nil
}

// Variant returns 4, 5, 6 or 7 for a supported MSM message type, and ok =
// false for anything else.
func Variant(messageType int) (int, bool) {
	info, ok := msmTypes[messageType]
	if !ok {
		return 0, false
	}
	return info.variant, true
}

// maskToIndices turns a bit mask into the 1-based slice of set positions;
// bit (width-1) is index 1, bit 0 is index width.
func maskToIndices(mask uint64, width int) []uint {
	indices := make([]uint, 0)
	for n := 1; n <= width; n++ {
		bitPosition := width - n
		if (mask>>uint(bitPosition))&1 == 1 {
			indices = append(indices, uint(n))
		}
	}
	return indices
}

// maskToCells turns the variable-length cell mask into a numberOfSatellites
// x numberOfSignalTypes matrix of booleans.
func maskToCells(cellMask uint64, numberOfSatellites, numberOfSignalTypes int) [][]bool {
	numberOfCells := numberOfSatellites * numberOfSignalTypes
	cellNumber := 0
	cells := make([][]bool, 0, numberOfSatellites)
	for i := 0; i < numberOfSatellites; i++ {
		row := make([]bool, 0, numberOfSignalTypes)
		for j := 0; j < numberOfSignalTypes; j++ {
			cellNumber++
			bitPosition := numberOfCells - cellNumber
			row = append(row, (cellMask>>uint(bitPosition))&1 == 1)
		}
		cells = append(cells, row)
	}
	return cells
}
