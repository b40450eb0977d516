// Package rtcm3 is the top-level entry point: it inspects the leading
// 12-bit message number of an RTCM3 message and dispatches to the decoder
// for that message type. Framing, CRC validation and transport are the
// caller's responsibility; this package only ever sees one complete
// message body at a time.
//
// The decoded message types are disjoint tagged variants rather than a
// common base record - a legacy observation message and an MSM message
// share nothing but a message number, so Message.Readable holds whichever
// concrete type the dispatch picked, and callers use a type switch to get
// at it.
package rtcm3

import (
	"fmt"

	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/legacyobs"
	"github.com/gnssbridge/rtcm3/msm"
	"github.com/gnssbridge/rtcm3/msmheader"
	"github.com/gnssbridge/rtcm3/proprietary"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
	"github.com/gnssbridge/rtcm3/station"
)

// Message is a decoded RTCM3 message.
type Message struct {
	// MessageType is the RTCM message number read from the bit stream.
	MessageType int

	// Readable holds the decoded message: one of *legacyobs.Message,
	// *station.Reference1005 (types 1005 and 1006), *station.Antenna1007
	// (types 1007 and 1008), *station.Receiver1033, *station.TextMessage1029,
	// *station.CodePhaseBias1230, *msm.Message or *proprietary.Message4062.
	Readable interface{}
}

// Decode reads the leading message number from bitStream and dispatches to
// the matching decoder. It returns rtcmerr.ErrMessageTypeMismatch (wrapped)
// if the message number is not one this module supports, and
// rtcmerr.ErrInvalidMessage (wrapped) if the message body violates one of
// the decoders' invariants.
func Decode(bitStream []byte) (*Message, error) {
	if bitreader.Len(bitStream) < 12 {
		return nil, rtcmerr.InvalidMessage("bitstream too short to contain a message number")
	}
	messageType := int(bitreader.GetUint(bitStream, 0, 12))

	readable, err := decodeByType(bitStream, messageType)
	if err != nil {
		return nil, err
	}

	return &Message{MessageType: messageType, Readable: readable}, nil
}

func decodeByType(bitStream []byte, messageType int) (interface{}, error) {
	switch messageType {
	case rtcmconst.MessageType1001:
		return legacyobs.GetMessage1001(bitStream)
	case rtcmconst.MessageType1002:
		return legacyobs.GetMessage1002(bitStream)
	case rtcmconst.MessageType1003:
		return legacyobs.GetMessage1003(bitStream)
	case rtcmconst.MessageType1004:
		return legacyobs.GetMessage1004(bitStream)
	case rtcmconst.MessageType1010:
		return legacyobs.GetMessage1010(bitStream)
	case rtcmconst.MessageType1012:
		return legacyobs.GetMessage1012(bitStream)

	case rtcmconst.MessageType1005:
		return station.GetMessage1005(bitStream)
	case rtcmconst.MessageType1006:
		return station.GetMessage1006(bitStream)
	case rtcmconst.MessageType1007:
		return station.GetMessage1007(bitStream)
	case rtcmconst.MessageType1008:
		return station.GetMessage1008(bitStream)
	case rtcmconst.MessageType1033:
		return station.GetMessage1033(bitStream)
	case rtcmconst.MessageType1029:
		return station.GetMessage1029(bitStream)
	case rtcmconst.MessageType1230:
		return station.GetMessage1230(bitStream)

	case rtcmconst.MessageType4062:
		return proprietary.GetMessage4062(bitStream)
	}

	if variant, ok := msmheader.Variant(messageType); ok {
		switch variant {
		case 4:
			return msm.GetMSM4Message(bitStream)
		case 5:
			return msm.GetMSM5Message(bitStream)
		case 6:
			return msm.GetMSM6Message(bitStream)
		case 7:
			return msm.GetMSM7Message(bitStream)
		}
	}

	return nil, rtcmerr.MessageTypeMismatch(messageType, 0)
}

// String gives a short human-readable summary of the decoded message,
// useful for logging - the full field-by-field detail lives on the
// concrete Readable type.
func (m *Message) String() string {
	return fmt.Sprintf("message type %d (%T)", m.MessageType, m.Readable)
}
