// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import "testing"

const testAddress = uint64(0x24D7EB15A3C0)

func roundTrip(t *testing.T, p *Packet) *Packet {
	t.Helper()
	wire := MustEncodePacket(p)
	decoded, errs := decodeAll(t, wire)
	if len(errs) > 0 {
		t.Fatalf("Decode errors: %v", errs)
	}
	if decoded == nil {
		t.Fatal("No packet decoded")
	}
	return decoded
}

func TestParseIdentData(t *testing.T) {
	info := ChipInfo{
		Model:    ChipESP32S3,
		Features: FeatureEmbFlash | FeatureWiFiBGN | FeatureBLE,
		Cores:    2,
		Revision: 301,
	}

	decoded := roundTrip(t, NewIdentData(testAddress, info))
	got, err := ParseIdentData(decoded)
	if err != nil {
		t.Fatalf("ParseIdentData error: %v", err)
	}

	if got != info {
		t.Errorf("ChipInfo = %+v, want %+v", got, info)
	}
	if got.RevisionMajor() != 3 || got.RevisionMinor() != 1 {
		t.Errorf("Revision split = %d.%d, want 3.1", got.RevisionMajor(), got.RevisionMinor())
	}
}

func TestParseIdentData_WrongType(t *testing.T) {
	decoded := roundTrip(t, NewPingRequest(testAddress))
	if _, err := ParseIdentData(decoded); err == nil {
		t.Error("Expected error for non-identity packet")
	}
}

func TestParseVersionData(t *testing.T) {
	p := NewPacketWithPayload(testAddress, MsgVersionData, map[int]interface{}{
		0: "v5.3.1",
		1: "tephra-0.4.2",
	})

	decoded := roundTrip(t, p)
	sdkVersion, probeVersion, err := ParseVersionData(decoded)
	if err != nil {
		t.Fatalf("ParseVersionData error: %v", err)
	}
	if sdkVersion != "v5.3.1" {
		t.Errorf("SDK version = %q", sdkVersion)
	}
	if probeVersion != "tephra-0.4.2" {
		t.Errorf("Probe version = %q", probeVersion)
	}
}

func TestParseResetData(t *testing.T) {
	p := NewPacketWithPayload(testAddress, MsgResetData, map[int]interface{}{
		0: uint64(ResetBrownout),
	})

	decoded := roundTrip(t, p)
	reason, err := ParseResetData(decoded)
	if err != nil {
		t.Fatalf("ParseResetData error: %v", err)
	}
	if reason != ResetBrownout {
		t.Errorf("Reason = %d, want %d", reason, ResetBrownout)
	}
}

func TestParseClocksData(t *testing.T) {
	p := NewPacketWithPayload(testAddress, MsgClocksData, map[int]interface{}{
		0: uint64(240),
		1: uint64(8 * 1024 * 1024),
		2: false,
	})

	decoded := roundTrip(t, p)
	mhz, flashBytes, embedded, err := ParseClocksData(decoded)
	if err != nil {
		t.Fatalf("ParseClocksData error: %v", err)
	}
	if mhz != 240 {
		t.Errorf("CPU freq = %d, want 240", mhz)
	}
	if flashBytes != 8*1024*1024 {
		t.Errorf("Flash = %d", flashBytes)
	}
	if embedded {
		t.Error("Flash should be external")
	}
}

func TestParseReportData(t *testing.T) {
	report := ChipReport{
		ChipInfo: ChipInfo{
			Model:    ChipESP32C6,
			Features: FeatureWiFiBGN | FeatureBLE | FeatureIEEE802154,
			Cores:    1,
			Revision: 2,
		},
		SDKVersion:     "v5.4",
		ProbeVersion:   "tephra-0.4.2",
		ResetReason:    ResetPowerOn,
		CPUFreqMHz:     160,
		FlashSizeBytes: 4 * 1024 * 1024,
		FlashEmbedded:  true,
		UptimeMs:       12345,
	}

	decoded := roundTrip(t, NewReportData(testAddress, report))
	got, err := ParseReportData(decoded)
	if err != nil {
		t.Fatalf("ParseReportData error: %v", err)
	}

	if got != report {
		t.Errorf("ChipReport = %+v, want %+v", got, report)
	}
}

func TestParsePingResponse(t *testing.T) {
	p := NewPacketWithPayload(testAddress, MsgPingResponse, map[int]interface{}{
		0: uint64(987654),
	})

	decoded := roundTrip(t, p)
	uptime, err := ParsePingResponse(decoded)
	if err != nil {
		t.Fatalf("ParsePingResponse error: %v", err)
	}
	if uptime != 987654 {
		t.Errorf("Uptime = %d, want 987654", uptime)
	}
}

func TestDeviceAnnounce_EndMarker(t *testing.T) {
	marker := roundTrip(t, NewDeviceAnnounce(AddressBroadcast, ChipInfo{}))
	info, err := ParseIdentData(marker)
	if err != nil {
		t.Fatalf("ParseIdentData error: %v", err)
	}
	if !info.IsEndMarker() {
		t.Error("All-zero announce should be the end-of-discovery marker")
	}

	real := ChipInfo{Model: ChipESP32, Features: FeatureWiFiBGN, Cores: 2, Revision: 3}
	announce := roundTrip(t, NewDeviceAnnounce(testAddress, real))
	info, err = ParseIdentData(announce)
	if err != nil {
		t.Fatalf("ParseIdentData error: %v", err)
	}
	if info.IsEndMarker() {
		t.Error("Populated announce should not be an end marker")
	}
}
