// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import "testing"

func TestRequestBuilders(t *testing.T) {
	tests := []struct {
		name     string
		build    func(uint64) *Packet
		wantType uint8
	}{
		{"ident request", NewIdentRequest, MsgIdentRequest},
		{"version request", NewVersionRequest, MsgVersionRequest},
		{"reset request", NewResetRequest, MsgResetRequest},
		{"clocks request", NewClocksRequest, MsgClocksRequest},
		{"report request", NewReportRequest, MsgReportRequest},
		{"discovery request", NewDiscoveryRequest, MsgDiscoveryRequest},
		{"ping request", NewPingRequest, MsgPingRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build(testAddress)

			if p.Address() != testAddress {
				t.Errorf("Address() = 0x%012X, want 0x%012X", p.Address(), testAddress)
			}
			if p.Type() != tt.wantType {
				t.Errorf("Type() = 0x%02X, want 0x%02X", p.Type(), tt.wantType)
			}
			if p.PayloadMap() != nil {
				t.Errorf("Requests carry no payload, got %v", p.PayloadMap())
			}

			// All requests must be encodable
			wire, err := EncodePacketFromValues(p.Address(), p.Type(), p.PayloadMap())
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if wire[0] != StartByte || wire[len(wire)-1] != EndByte {
				t.Error("Encoded request missing framing bytes")
			}
		})
	}
}

func TestRequestBuilders_SpecialAddresses(t *testing.T) {
	broadcast := NewDiscoveryRequest(AddressBroadcast)
	if !broadcast.IsBroadcast() {
		t.Error("Broadcast discovery should report IsBroadcast")
	}

	stateless := NewPingRequest(AddressStateless)
	if !stateless.IsStateless() {
		t.Error("Stateless ping should report IsStateless")
	}
}
