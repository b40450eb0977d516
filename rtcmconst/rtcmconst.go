// Package rtcmconst holds the constants shared by every RTCM3 decoder in
// this module: carrier frequencies, pseudorange units, field-width bounds
// and the invalid-value sentinels that each decoder tests against.
package rtcmconst

// RTCM3 message type numbers decoded by this module.
const (
	MessageType1001 = 1001 // GPS L1 only.
	MessageType1002 = 1002 // GPS L1 only, extended.
	MessageType1003 = 1003 // GPS L1 and L2.
	MessageType1004 = 1004 // GPS L1 and L2, extended.
	MessageType1005 = 1005 // Reference station ARP.
	MessageType1006 = 1006 // Reference station ARP with antenna height.
	MessageType1007 = 1007 // Antenna descriptor.
	MessageType1008 = 1008 // Antenna descriptor and serial number.
	MessageType1010 = 1010 // GLONASS L1 only, extended.
	MessageType1012 = 1012 // GLONASS L1 and L2, extended.
	MessageType1029 = 1029 // Unicode text string.
	MessageType1033 = 1033 // Receiver and antenna descriptors.
	MessageType1230 = 1230 // GLONASS code-phase biases.

	MessageType4062 = 4062 // Proprietary envelope.

	MessageTypeMSM4GPS        = 1074
	MessageTypeMSM5GPS        = 1075
	MessageTypeMSM6GPS        = 1076
	MessageTypeMSM7GPS        = 1077
	MessageTypeMSM4Glonass    = 1084
	MessageTypeMSM5Glonass    = 1085
	MessageTypeMSM6Glonass    = 1086
	MessageTypeMSM7Glonass    = 1087
	MessageTypeMSM4Galileo    = 1094
	MessageTypeMSM5Galileo    = 1095
	MessageTypeMSM6Galileo    = 1096
	MessageTypeMSM7Galileo    = 1097
	MessageTypeMSM4SBAS       = 1104
	MessageTypeMSM5SBAS       = 1105
	MessageTypeMSM6SBAS       = 1106
	MessageTypeMSM7SBAS       = 1107
	MessageTypeMSM4QZSS       = 1114
	MessageTypeMSM5QZSS       = 1115
	MessageTypeMSM6QZSS       = 1116
	MessageTypeMSM7QZSS       = 1117
	MessageTypeMSM4Beidou     = 1124
	MessageTypeMSM5Beidou     = 1125
	MessageTypeMSM6Beidou     = 1126
	MessageTypeMSM7Beidou     = 1127
	MessageTypeMSM4NavicIrnss = 1134
	MessageTypeMSM5NavicIrnss = 1135
	MessageTypeMSM6NavicIrnss = 1136
	MessageTypeMSM7NavicIrnss = 1137
)

// Carrier frequencies in Hz, and the GLONASS FDMA per-channel spacing.
const (
	GPSL1Hz = 1.57542e9
	GPSL2Hz = 1.22760e9

	GLOL1Hz      = 1.60200e9
	GLOL1DeltaHz = 0.56250e6
	GLOL2Hz      = 1.24600e9
	GLOL2DeltaHz = 0.43750e6

	// GPSC is the speed of light in metres per second.
	GPSC = 299792458.0
)

// PRUnitGPS and PRUnitGLO are one and two light-milliseconds respectively,
// used to restore the pseudorange ambiguity that the legacy 24-bit/25-bit
// wire field alone cannot represent.
const (
	PRUnitGPS = 299792.458
	PRUnitGLO = 599584.916
)

// GLONASS frequency-channel-number bounds (DF-required to compute the
// per-satellite carrier frequency of an FDMA signal).
const (
	MT1012GLOFCNOffset = 7
	MT1012GLOMaxFCN    = 13
	MSMGLOFCNUnknown   = 255
)

// Time-of-week bounds.
const (
	RTCMMaxTowMS    = 604799999
	RTCMGLOMaxTowMS = 86400999
)

// MSM mask-size limits.
const (
	MSMMaxCells          = 64
	MSMSatelliteMaskSize = 64
	MSMSignalMaskSize    = 32
)

// Per-field invalid sentinels. Each decoder tests the raw extracted value
// against the matching sentinel below and, on a match, clears the relevant
// validity flag and zeroes the derived field instead of treating the
// sentinel as an error; the format permits per-field invalidity.
const (
	// Legacy L1 pseudorange sentinel: the raw bit pattern 0x80000 in the
	// 24-bit (GPS) or 25-bit (GLONASS) field marks the pseudorange as not
	// measured.
	PRL1Invalid uint64 = 0x80000

	// Legacy 20-bit carrier-phase delta sentinel (DF018/DF048): only the
	// sign bit set, i.e. the most negative representable value, which
	// RTKLIB compares as 0xFFF80000 after sign extension ("no phase data").
	CPInvalid20 int64 = -524288 // -(2^19)

	// Legacy 14-bit signed L2 pseudorange-difference sentinel.
	PRL2DiffInvalid int64 = -8192 // -(2^13)

	// MSM rough range (DF397) invalid sentinel: all-ones in the 8-bit field.
	MSMRoughRangeInvalid uint64 = 0xFF

	// MSM rough range-rate (DF399) invalid sentinel: only the sign bit set
	// in the 14-bit signed field, i.e. the most negative representable value.
	MSMRoughRateInvalid int64 = -8192 // -(2^13)

	// MSM4/5 fine pseudorange (DF400) invalid sentinel: most negative 15-bit value.
	MSMPRInvalid int64 = -16384 // -(2^14)
	// MSM6/7 fine pseudorange (DF405) invalid sentinel: most negative 20-bit value.
	MSMPRExtInvalid int64 = -524288 // -(2^19)

	// MSM4/5 fine carrier phase (DF401) invalid sentinel: most negative 22-bit value.
	MSMCPInvalid int64 = -2097152 // -(2^21)
	// MSM6/7 fine carrier phase (DF406) invalid sentinel: most negative 24-bit value.
	MSMCPExtInvalid int64 = -8388608 // -(2^23)

	// MSM5/7 fine phase-range-rate (DF404) invalid sentinel: most negative 15-bit value.
	MSMDopInvalid int64 = -16384 // -(2^14)

	// MSM C/N0 of exactly zero (DF403/DF408) means "not measured".
	MSMCNRInvalid uint64 = 0
)
