// Package legacyheader decodes the common header shared by the legacy
// (non-MSM) GPS and GLONASS observation messages: 1001-1004 (GPS) and
// 1010/1012 (GLONASS).
package legacyheader

import (
	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
)

const (
	lenMessageType       = 12
	lenStationID         = 12
	lenTOWGPS            = 30
	lenTODGlonass        = 27
	lenSyncFlag          = 1
	lenSatelliteCnt      = 5
	lenDivergenceFree    = 1
	lenSmoothingInterval = 3
)

// minBitsGPS and minBitsGlonass are the number of bits in the fixed part
// of each header variant (message type through smoothing interval).
const (
	minBitsGPS     = lenMessageType + lenStationID + lenTOWGPS + lenSyncFlag + lenSatelliteCnt + lenDivergenceFree + lenSmoothingInterval
	minBitsGlonass = lenMessageType + lenStationID + lenTODGlonass + lenSyncFlag + lenSatelliteCnt + lenDivergenceFree + lenSmoothingInterval
)

// Header is the common legacy observation header.
type Header struct {
	MessageType       int
	StationID         uint
	TowMS             uint // time of week in milliseconds (GPS) or time of day in milliseconds (GLONASS)
	Synchronous       bool
	SatelliteCount    uint
	DivergenceFree    bool
	SmoothingInterval uint
}

// GetGPSHeader decodes the legacy GPS observation header (messages
// 1001-1004). It returns the header and the bit position of the first
// satellite block.
func GetGPSHeader(bitStream []byte, expectedType int) (*Header, uint, error) {
	if bitreader.Len(bitStream) < minBitsGPS {
		return nil, 0, rtcmerr.InvalidMessage("bitstream too short for a legacy GPS observation header")
	}

	var pos uint
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedType {
		return nil, 0, rtcmerr.MessageTypeMismatch(messageType, expectedType)
	}

	stationID := uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID

	towMS := uint(bitreader.GetUint(bitStream, pos, lenTOWGPS))
	pos += lenTOWGPS
	if towMS > rtcmconst.RTCMMaxTowMS {
		return nil, 0, rtcmerr.InvalidMessage("GPS time of week out of range")
	}

	sync := bitreader.GetUint(bitStream, pos, lenSyncFlag) == 1
	pos += lenSyncFlag

	nsat := uint(bitreader.GetUint(bitStream, pos, lenSatelliteCnt))
	pos += lenSatelliteCnt

	divergenceFree := bitreader.GetUint(bitStream, pos, lenDivergenceFree) == 1
	pos += lenDivergenceFree

	smoothingInterval := uint(bitreader.GetUint(bitStream, pos, lenSmoothingInterval))
	pos += lenSmoothingInterval

	return &Header{
		MessageType:       messageType,
		StationID:         stationID,
		TowMS:             towMS,
		Synchronous:       sync,
		SatelliteCount:    nsat,
		DivergenceFree:    divergenceFree,
		SmoothingInterval: smoothingInterval,
	}, pos, nil
}

// GetGlonassHeader decodes the legacy GLONASS observation header (messages
// 1010/1012). It returns the header and the bit position of the first
// satellite block.
func GetGlonassHeader(bitStream []byte, expectedType int) (*Header, uint, error) {
	if bitreader.Len(bitStream) < minBitsGlonass {
		return nil, 0, rtcmerr.InvalidMessage("bitstream too short for a legacy GLONASS observation header")
	}

	var pos uint
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedType {
		return nil, 0, rtcmerr.MessageTypeMismatch(messageType, expectedType)
	}

	stationID := uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID

	todMS := uint(bitreader.GetUint(bitStream, pos, lenTODGlonass))
	pos += lenTODGlonass
	if todMS > rtcmconst.RTCMGLOMaxTowMS {
		return nil, 0, rtcmerr.InvalidMessage("GLONASS time of day out of range")
	}

	sync := bitreader.GetUint(bitStream, pos, lenSyncFlag) == 1
	pos += lenSyncFlag

	nsat := uint(bitreader.GetUint(bitStream, pos, lenSatelliteCnt))
	pos += lenSatelliteCnt

	divergenceFree := bitreader.GetUint(bitStream, pos, lenDivergenceFree) == 1
	pos += lenDivergenceFree

	smoothingInterval := uint(bitreader.GetUint(bitStream, pos, lenSmoothingInterval))
	pos += lenSmoothingInterval

	return &Header{
		MessageType:       messageType,
		StationID:         stationID,
		TowMS:             todMS,
		Synchronous:       sync,
		SatelliteCount:    nsat,
		DivergenceFree:    divergenceFree,
		SmoothingInterval: smoothingInterval,
	}, pos, nil
}
