// Package proprietary decodes the 4062 proprietary message envelope: a
// thin wrapper that identifies a vendor, an inner message type and an
// opaque payload, without interpreting the payload itself.
package proprietary

import (
	"github.com/gnssbridge/rtcm3/bitreader"
	"github.com/gnssbridge/rtcm3/rtcmconst"
	"github.com/gnssbridge/rtcm3/rtcmerr"
)

const (
	lenMessageType = 12
	lenReserved    = 4
	lenInnerType   = 16
	lenSenderID    = 16
	lenLength      = 8
)

const minBitsEnvelope = lenMessageType + lenReserved + lenInnerType + lenSenderID + lenLength

// Message4062 is a decoded type 4062 proprietary envelope.
type Message4062 struct {
	SenderID  uint
	InnerType uint
	Payload   []byte
}

// GetMessage4062 decodes a type 4062 envelope. The four reserved bits
// following the message type must be zero; any other value is an
// INVALID_MESSAGE, not a silently-ignored field.
func GetMessage4062(bitStream []byte) (*Message4062, error) {
	if bitreader.Len(bitStream) < minBitsEnvelope {
		return nil, rtcmerr.InvalidMessage("bitstream too short for a 4062 envelope")
	}

	var pos uint
	messageType := int(bitreader.GetUint(bitStream, pos, lenMessageType))
	pos += lenMessageType
	if messageType != rtcmconst.MessageType4062 {
		return nil, rtcmerr.MessageTypeMismatch(messageType, rtcmconst.MessageType4062)
	}

	reserved := bitreader.GetUint(bitStream, pos, lenReserved)
	pos += lenReserved
	if reserved != 0 {
		return nil, rtcmerr.InvalidMessage("4062 reserved bits must be zero")
	}

	innerType := uint(bitreader.GetUint(bitStream, pos, lenInnerType))
	pos += lenInnerType

	senderID := uint(bitreader.GetUint(bitStream, pos, lenSenderID))
	pos += lenSenderID

	length := uint(bitreader.GetUint(bitStream, pos, lenLength))
	pos += lenLength

	if pos+length*8 > bitreader.Len(bitStream) {
		return nil, rtcmerr.InvalidMessage("4062 payload length exceeds the bitstream")
	}

	payload := bitreader.GetString(bitStream, pos, length)

	return &Message4062{SenderID: senderID, InnerType: innerType, Payload: payload}, nil
}
