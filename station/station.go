// Package station decodes reference-station and antenna/receiver metadata
// messages: 1005, 1006, 1007, 1008, 1029, 1033 and 1230.
package station

import (
	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
)

// arpScale converts the wire's 0.1 mm integer units to metres.
const arpScale = 0.0001

// Reference1005 is the reference-station record carried by both 1005 and
// 1006; 1006 additionally populates AntennaHeightM.
type Reference1005 struct {
	MessageType           int
	StationID             uint
	ITRFRealisationYear   uint
	GPSIndicator          bool
	GLONASSIndicator      bool
	GalileoIndicator      bool
	ReferenceStationFlag  bool
	AntennaRefXM          float64
	OscillatorIndicator   bool
	AntennaRefYM          float64
	QuarterCycleIndicator uint
	AntennaRefZM          float64
	HasAntennaHeight      bool
	AntennaHeightM        float64
}

const (
	lenMessageType         = 12
	lenStationID           = 12
	lenITRFRealisationYear = 6
	lenIndicatorBit        = 1
	lenAntennaRef          = 38
	lenOscReserved         = 2
	lenQuarterCycle        = 2
	lenAntennaHeight       = 16
)

const minBits1005 = lenMessageType + lenStationID + lenITRFRealisationYear +
	4*lenIndicatorBit + lenAntennaRef + lenOscReserved + lenAntennaRef +
	lenQuarterCycle + lenAntennaRef

// GetMessage1005 decodes a type 1005 reference-station ARP message.
func GetMessage1005(bitStream []byte) (*Reference1005, error) {
	return decode1005(bitStream, rtcmconst.MessageType1005, false)
}

// GetMessage1006 decodes a type 1006 reference-station ARP message with
// antenna height.
func GetMessage1006(bitStream []byte) (*Reference1005, error) {
	return decode1005(bitStream, rtcmconst.MessageType1006, true)
}

func decode1005(bitStream []byte, expectedType int, hasHeight bool) (*Reference1005, error) {
	minBits := uint(minBits1005)
	if hasHeight {
		minBits += lenAntennaHeight
	}
	if bitreader.Len(bitStream) < minBits {
		return nil, rtcmerr.InvalidMessage("bitstream too short for a reference station message")
	}

	var pos uint
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedType {
		return nil, rtcmerr.MessageTypeMismatch(messageType, expectedType)
	}

	r := &Reference1005{MessageType: messageType}
	r.StationID = uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID
	r.ITRFRealisationYear = uint(bitreader.GetUint(bitStream, pos, lenITRFRealisationYear))
	pos += lenITRFRealisationYear

	r.GPSIndicator = bitreader.GetUint(bitStream, pos, lenIndicatorBit) == 1
	pos += lenIndicatorBit
	r.GLONASSIndicator = bitreader.GetUint(bitStream, pos, lenIndicatorBit) == 1
	pos += lenIndicatorBit
	r.GalileoIndicator = bitreader.GetUint(bitStream, pos, lenIndicatorBit) == 1
	pos += lenIndicatorBit
	r.ReferenceStationFlag = bitreader.GetUint(bitStream, pos, lenIndicatorBit) == 1
	pos += lenIndicatorBit

	r.AntennaRefXM = float64(bitreader.GetInt(bitStream, pos, lenAntennaRef)) * arpScale
	pos += lenAntennaRef

	r.OscillatorIndicator = bitreader.GetUint(bitStream, pos, 1) == 1
	pos += lenOscReserved // 1 indicator bit + 1 reserved bit

	r.AntennaRefYM = float64(bitreader.GetInt(bitStream, pos, lenAntennaRef)) * arpScale
	pos += lenAntennaRef

	r.QuarterCycleIndicator = uint(bitreader.GetUint(bitStream, pos, lenQuarterCycle))
	pos += lenQuarterCycle

	r.AntennaRefZM = float64(bitreader.GetInt(bitStream, pos, lenAntennaRef)) * arpScale
	pos += lenAntennaRef

	if hasHeight {
		r.HasAntennaHeight = true
		r.AntennaHeightM = float64(bitreader.GetUint(bitStream, pos, lenAntennaHeight)) * arpScale
		pos += lenAntennaHeight
	}

	return r, nil
}

// maxDescriptorLen is the destination capacity for each length-prefixed
// descriptor string; the wire counter is 8 bits so it can in principle
// claim up to 255 bytes, but every field this module decodes is defined
// to fit within this bound.
const maxDescriptorLen = 31

// Antenna1007 is the antenna descriptor record shared by 1007 and 1008.
type Antenna1007 struct {
	MessageType       int
	StationID         uint
	AntennaDescriptor string
	AntennaSetupID    uint
	AntennaSerial     string
}

// GetMessage1007 decodes a type 1007 antenna descriptor message.
func GetMessage1007(bitStream []byte) (*Antenna1007, error) {
	const expectedType = rtcmconst.MessageType1007
	pos, staID, desc, err := decodeStationAndString(bitStream, expectedType)
	if err != nil {
		return nil, err
	}
	if pos+8 > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage("bitstream too short for antenna setup id")
	}
	setup := uint(bitreader.GetUint(bitStream, pos, 8))
	return &Antenna1007{MessageType: expectedType, StationID: staID, AntennaDescriptor: desc, AntennaSetupID: setup}, nil
}

// GetMessage1008 decodes a type 1008 antenna descriptor and serial number
// message.
func GetMessage1008(bitStream []byte) (*Antenna1007, error) {
	const expectedType = rtcmconst.MessageType1008
	pos, staID, desc, err := decodeStationAndString(bitStream, expectedType)
	if err != nil {
		return nil, err
	}
	if pos+8 > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage("bitstream too short for antenna setup id")
	}
	setup := uint(bitreader.GetUint(bitStream, pos, 8))
	pos += 8
	serial, _, err := decodeLengthPrefixedString(bitStream, pos)
	if err != nil {
		return nil, err
	}
	return &Antenna1007{MessageType: expectedType, StationID: staID, AntennaDescriptor: desc, AntennaSetupID: setup, AntennaSerial: serial}, nil
}

// Receiver1033 is the type 1033 record: antenna descriptor/serial and
// receiver descriptor/firmware/serial. It is zero-initialized before
// parsing so that any unread string (none of the wire fields are
// optional here, but the zero value is still the documented default)
// reads back as empty.
type Receiver1033 struct {
	MessageType        int
	StationID          uint
	AntennaDescriptor  string
	AntennaSetupID     uint
	AntennaSerial      string
	ReceiverDescriptor string
	ReceiverFirmware   string
	ReceiverSerial     string
}

// GetMessage1033 decodes a type 1033 receiver and antenna descriptor
// message.
func GetMessage1033(bitStream []byte) (*Receiver1033, error) {
	const expectedType = rtcmconst.MessageType1033
	r := &Receiver1033{}
	pos, staID, desc, err := decodeStationAndString(bitStream, expectedType)
	if err != nil {
		return nil, err
	}
	r.MessageType = expectedType
	r.StationID = staID
	r.AntennaDescriptor = desc

	if pos+8 > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage("bitstream too short for antenna setup id")
	}
	r.AntennaSetupID = uint(bitreader.GetUint(bitStream, pos, 8))
	pos += 8

	var s string
	if s, pos, err = decodeLengthPrefixedString(bitStream, pos); err != nil {
		return nil, err
	}
	r.AntennaSerial = s
	if s, pos, err = decodeLengthPrefixedString(bitStream, pos); err != nil {
		return nil, err
	}
	r.ReceiverDescriptor = s
	if s, pos, err = decodeLengthPrefixedString(bitStream, pos); err != nil {
		return nil, err
	}
	r.ReceiverFirmware = s
	if s, _, err = decodeLengthPrefixedString(bitStream, pos); err != nil {
		return nil, err
	}
	r.ReceiverSerial = s

	return r, nil
}

// decodeStationAndString reads the message type, station id and the first
// length-prefixed descriptor string common to 1007/1008/1033.
func decodeStationAndString(bitStream []byte, expectedType int) (pos uint, stationID uint, s string, err error) {
	if bitreader.Len(bitStream) < lenMessageType+lenStationID+8 {
		return 0, 0, "", rtcmerr.InvalidMessage("bitstream too short for a station descriptor header")
	}
	pos = 0
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedType {
		return 0, 0, "", rtcmerr.MessageTypeMismatch(messageType, expectedType)
	}
	stationID = uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID

	s, pos, err = decodeLengthPrefixedString(bitStream, pos)
	return pos, stationID, s, err
}

// decodeLengthPrefixedString reads an 8-bit length counter followed by
// that many 8-bit characters. If the counter exceeds maxDescriptorLen the
// message is rejected as INVALID_MESSAGE rather than silently truncated.
func decodeLengthPrefixedString(bitStream []byte, pos uint) (string, uint, error) {
	if pos+8 > bitreader.Len(bitStream) {
		return "", 0, rtcmerr.InvalidMessage("bitstream too short for a string length counter")
	}
	n := uint(bitreader.GetUint(bitStream, pos, 8))
	pos += 8
	if n > maxDescriptorLen {
		return "", 0, rtcmerr.InvalidMessage("descriptor string length exceeds destination capacity")
	}
	if pos+n*8 > bitreader.Len(bitStream) {
		return "", 0, rtcmerr.InvalidMessage("bitstream too short for a descriptor string")
	}
	b := bitreader.GetString(bitStream, pos, n)
	pos += n * 8
	return string(b), pos, nil
}

// TextMessage1029 is the type 1029 Unicode text record.
type TextMessage1029 struct {
	StationID         uint
	ModifiedJulianDay uint
	UTCSecondOfDay    uint
	UnicodeCharCount  uint
	Text              string
}

const maxText1029Len = 255

// GetMessage1029 decodes a type 1029 Unicode text string message. The
// byte sequence is copied verbatim; UTF-8 is not validated.
func GetMessage1029(bitStream []byte) (*TextMessage1029, error) {
	const expectedType = rtcmconst.MessageType1029
	const fixedBits = lenMessageType + lenStationID + 16 + 17 + 7 + 8
	if bitreader.Len(bitStream) < fixedBits {
		return nil, rtcmerr.InvalidMessage("bitstream too short for a type 1029 header")
	}

	var pos uint
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedType {
		return nil, rtcmerr.MessageTypeMismatch(messageType, expectedType)
	}

	m := &TextMessage1029{}
	m.StationID = uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID
	m.ModifiedJulianDay = uint(bitreader.GetUint(bitStream, pos, 16))
	pos += 16
	m.UTCSecondOfDay = uint(bitreader.GetUint(bitStream, pos, 17))
	pos += 17
	m.UnicodeCharCount = uint(bitreader.GetUint(bitStream, pos, 7))
	pos += 7
	n := uint(bitreader.GetUint(bitStream, pos, 8))
	pos += 8
	if n > maxText1029Len {
		return nil, rtcmerr.InvalidMessage("type 1029 code unit count exceeds destination capacity")
	}
	if pos+n*8 > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage("bitstream too short for type 1029 text")
	}
	m.Text = string(bitreader.GetString(bitStream, pos, n))

	return m, nil
}

// CodePhaseBias1230 is the type 1230 GLONASS code-phase bias record.
// Absent biases (their mask bit clear) are left at 0.0.
type CodePhaseBias1230 struct {
	StationID     uint
	BiasIndicator bool
	SignalMask    uint
	L1CABiasM     float64
	L1CABiasValid bool
	L1PBiasM      float64
	L1PBiasValid  bool
	L2CABiasM     float64
	L2CABiasValid bool
	L2PBiasM      float64
	L2PBiasValid  bool
}

const biasScale = 0.02
const biasInvalid int64 = -32768 // most negative 16-bit signed value

// GetMessage1230 decodes a type 1230 GLONASS code-phase bias message.
func GetMessage1230(bitStream []byte) (*CodePhaseBias1230, error) {
	const expectedType = rtcmconst.MessageType1230
	const fixedBits = lenMessageType + lenStationID + 1 + 3 + 4
	if bitreader.Len(bitStream) < fixedBits {
		return nil, rtcmerr.InvalidMessage("bitstream too short for a type 1230 header")
	}

	var pos uint
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != expectedType {
		return nil, rtcmerr.MessageTypeMismatch(messageType, expectedType)
	}

	b := &CodePhaseBias1230{}
	b.StationID = uint(bitreader.GetUint(bitStream, pos, lenStationID))
	pos += lenStationID
	b.BiasIndicator = bitreader.GetUint(bitStream, pos, 1) == 1
	pos += 1 + 3 // indicator bit + 3 reserved bits
	b.SignalMask = uint(bitreader.GetUint(bitStream, pos, 4))
	pos += 4

	type slot struct {
		bit   uint
		valM  *float64
		valid *bool
	}
	slots := [4]slot{
		{bit: 3, valM: &b.L1CABiasM, valid: &b.L1CABiasValid},
		{bit: 2, valM: &b.L1PBiasM, valid: &b.L1PBiasValid},
		{bit: 1, valM: &b.L2CABiasM, valid: &b.L2CABiasValid},
		{bit: 0, valM: &b.L2PBiasM, valid: &b.L2PBiasValid},
	}
	for _, s := range slots {
		if b.SignalMask&(1<<s.bit) == 0 {
			continue
		}
		if pos+16 > bitreader.Len(bitStream) {
			return nil, rtcmerr.InvalidMessage("bitstream too short for a code-phase bias field")
		}
		raw := bitreader.GetInt(bitStream, pos, 16)
		pos += 16
		if raw != biasInvalid {
			*s.valM = float64(raw) * biasScale
			*s.valid = true
		}
	}

	return b, nil
}
