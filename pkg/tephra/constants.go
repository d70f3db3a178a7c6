// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

// Package tephra provides a reference Go implementation of the Tephra probe protocol.
//
// Tephra is a binary request/response protocol for reading identity and
// diagnostic data (chip model, feature flags, clocks, reset cause) from
// Espressif-family boards running the Tephra probe firmware. This package
// provides packet encoding/decoding, CRC validation, payload parsing into
// report records, and display formatting.
package tephra

// Protocol framing bytes
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Packet size limits
const (
	MaxPacketSize  = 128 // 12 overhead + 116 payload
	MaxPayloadSize = 116
	AddressSize    = 6
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Special addresses. Device addresses are the 48-bit factory MAC.
const (
	AddressBroadcast = 0x000000000000 // All devices
	AddressStateless = 0xFFFFFFFFFFFF // Bridges, point-to-point links
)

// Message types - Requests (Host → Probe) 0x10-0x2F
const (
	MsgIdentRequest     = 0x10
	MsgVersionRequest   = 0x11
	MsgResetRequest     = 0x12
	MsgClocksRequest    = 0x13
	MsgReportRequest    = 0x1E
	MsgDiscoveryRequest = 0x1F
	MsgPingRequest      = 0x2F
)

// Message types - Responses (Probe → Host) 0x30-0x3F
const (
	MsgIdentData      = 0x30
	MsgVersionData    = 0x31
	MsgResetData      = 0x32
	MsgClocksData     = 0x33
	MsgDeviceAnnounce = 0x35
	MsgReportData     = 0x3E
	MsgPingResponse   = 0x3F
)

// Message types - Errors (Probe → Host) 0xE0-0xEF
const (
	MsgErrorInvalidCmd = 0xE0
)

// Decoder states (internal)
// No separate TYPE state - type is embedded in CBOR payload
const (
	stateIdle = iota
	stateLength
	stateAddress
	statePayload
	stateCRC1
	stateCRC2
)

// ChipModel identifies the SoC family. Values match the numbering the
// probe firmware reports from the vendor SDK's chip-info call.
type ChipModel int

// Known chip model values
const (
	ChipESP32    ChipModel = 1
	ChipESP32S2  ChipModel = 2
	ChipESP32C3  ChipModel = 5
	ChipESP32S3  ChipModel = 9
	ChipESP32C2  ChipModel = 12
	ChipESP32C6  ChipModel = 13
	ChipESP32H2  ChipModel = 16
	ChipESP32P4  ChipModel = 18
	ChipESP32C61 ChipModel = 20
	ChipESP32C5  ChipModel = 23
	ChipESP32H21 ChipModel = 25
	ChipESP32H4  ChipModel = 28
)

// FeatureSet is a bitmask of chip capability flags.
type FeatureSet uint32

// Feature bits. Each flag is independent; bit positions match the
// feature word the probe firmware reports.
const (
	FeatureEmbFlash   FeatureSet = 1 << 0 // embedded flash
	FeatureWiFiBGN    FeatureSet = 1 << 1 // 2.4GHz WiFi 802.11bgn
	FeatureBLE        FeatureSet = 1 << 4 // Bluetooth Low Energy
	FeatureBTClassic  FeatureSet = 1 << 5 // Bluetooth Classic
	FeatureIEEE802154 FeatureSet = 1 << 6 // IEEE 802.15.4 radio
	FeatureEmbPSRAM   FeatureSet = 1 << 7 // embedded PSRAM
)

// Has reports whether every bit in f is set in s.
func (s FeatureSet) Has(f FeatureSet) bool {
	return s&f == f
}

// ResetReason identifies why the chip last restarted.
type ResetReason int

// Reset reason values
const (
	ResetUnknown   ResetReason = 0
	ResetPowerOn   ResetReason = 1
	ResetExternal  ResetReason = 2
	ResetSoftware  ResetReason = 3
	ResetPanic     ResetReason = 4
	ResetIntWdt    ResetReason = 5
	ResetTaskWdt   ResetReason = 6
	ResetOtherWdt  ResetReason = 7
	ResetDeepSleep ResetReason = 8
	ResetBrownout  ResetReason = 9
	ResetSDIO      ResetReason = 10
	ResetUSB       ResetReason = 11
	ResetJTAG      ResetReason = 12
	ResetEfuse     ResetReason = 13
	ResetPwrGlitch ResetReason = 14
	ResetCPULockup ResetReason = 15
)
