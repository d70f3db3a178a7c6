// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

// Request builder functions create Packet structs ready for encoding.
// All Tephra requests are read-only introspection queries; none carry a
// payload except DEVICE_ANNOUNCE echoes from the probe side.

// NewIdentRequest creates an IDENT_REQUEST packet (0x10).
// The probe responds with IDENT_DATA: chip model, feature bitmask,
// core count, and silicon revision.
func NewIdentRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgIdentRequest, nil)
}

// NewVersionRequest creates a VERSION_REQUEST packet (0x11).
// The probe responds with VERSION_DATA containing the SDK version string
// and the probe firmware version.
func NewVersionRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgVersionRequest, nil)
}

// NewResetRequest creates a RESET_REQUEST packet (0x12).
// The probe responds with RESET_DATA containing the last reset reason.
func NewResetRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgResetRequest, nil)
}

// NewClocksRequest creates a CLOCKS_REQUEST packet (0x13).
// The probe responds with CLOCKS_DATA: CPU frequency and flash geometry.
func NewClocksRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgClocksRequest, nil)
}

// NewReportRequest creates a REPORT_REQUEST packet (0x1E).
// The probe responds with REPORT_DATA bundling everything the four
// individual requests return, plus uptime.
func NewReportRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgReportRequest, nil)
}

// NewDiscoveryRequest creates a DISCOVERY_REQUEST packet (0x1F).
// Probes respond with DEVICE_ANNOUNCE. Bridges respond with one
// DEVICE_ANNOUNCE per known device, followed by an end-of-discovery
// marker (DEVICE_ANNOUNCE with all zeros).
func NewDiscoveryRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgDiscoveryRequest, nil)
}

// NewPingRequest creates a PING_REQUEST packet (0x2F).
// Probes respond with PING_RESPONSE containing uptime.
func NewPingRequest(address uint64) *Packet {
	return NewPacketWithPayload(address, MsgPingRequest, nil)
}
