// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import (
	"strings"
	"testing"
)

func TestFormatChipModel_KnownValues(t *testing.T) {
	tests := []struct {
		model ChipModel
		want  string
	}{
		{ChipESP32, "ESP32"},
		{ChipESP32S2, "ESP32-S2"},
		{ChipESP32C3, "ESP32-C3"},
		{ChipESP32S3, "ESP32-S3"},
		{ChipESP32C2, "ESP32-C2"},
		{ChipESP32C6, "ESP32-C6"},
		{ChipESP32H2, "ESP32-H2"},
		{ChipESP32P4, "ESP32-P4"},
		{ChipESP32C61, "ESP32-C61"},
		{ChipESP32C5, "ESP32-C5"},
		{ChipESP32H21, "ESP32-H21"},
		{ChipESP32H4, "ESP32-H4"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatChipModel(tt.model); got != tt.want {
				t.Errorf("FormatChipModel(%d) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestFormatChipModel_UnknownEmbedsRawCode(t *testing.T) {
	tests := []struct {
		model ChipModel
		want  string
	}{
		{0, "UNKNOWN (0)"},
		{3, "UNKNOWN (3)"},
		{42, "UNKNOWN (42)"},
		{999, "UNKNOWN (999)"},
		{-7, "UNKNOWN (-7)"},
	}

	for _, tt := range tests {
		if got := FormatChipModel(tt.model); got != tt.want {
			t.Errorf("FormatChipModel(%d) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestFormatFeatures_IndependentBits(t *testing.T) {
	tests := []struct {
		name     string
		features FeatureSet
		contains []string
		excludes []string
	}{
		{
			name:     "no features",
			features: 0,
			contains: []string{"(none)"},
		},
		{
			name:     "wifi only",
			features: FeatureWiFiBGN,
			contains: []string{"WiFi 802.11bgn"},
			excludes: []string{"BLE", "BT Classic", "Embedded flash", "IEEE", "PSRAM"},
		},
		{
			name:     "ble does not imply bt classic",
			features: FeatureBLE,
			contains: []string{"BLE"},
			excludes: []string{"BT Classic"},
		},
		{
			name:     "typical esp32s3 feature word",
			features: FeatureEmbFlash | FeatureWiFiBGN | FeatureBLE,
			contains: []string{"Embedded flash", "WiFi 802.11bgn", "BLE"},
			excludes: []string{"BT Classic", "IEEE 802.15.4", "PSRAM"},
		},
		{
			name:     "unrelated high bit does not disturb known flags",
			features: FeatureWiFiBGN | 1<<13,
			contains: []string{"WiFi 802.11bgn", "bit 13"},
			excludes: []string{"BLE", "Embedded flash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFeatures(tt.features)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatFeatures(0x%X) = %q, missing %q", uint32(tt.features), got, want)
				}
			}
			for _, exclude := range tt.excludes {
				if strings.Contains(got, exclude) {
					t.Errorf("FormatFeatures(0x%X) = %q, should not contain %q", uint32(tt.features), got, exclude)
				}
			}
		})
	}
}

func TestFeatureSet_Has(t *testing.T) {
	f := FeatureEmbFlash | FeatureBLE
	if !f.Has(FeatureEmbFlash) {
		t.Error("Has(FeatureEmbFlash) should be true")
	}
	if !f.Has(FeatureBLE) {
		t.Error("Has(FeatureBLE) should be true")
	}
	if f.Has(FeatureBTClassic) {
		t.Error("Has(FeatureBTClassic) should be false")
	}
	if f.Has(FeatureEmbFlash | FeatureBTClassic) {
		t.Error("Has should require all bits")
	}
}

func TestFormatResetReason(t *testing.T) {
	tests := []struct {
		reason ResetReason
		want   string
	}{
		{ResetPowerOn, "POWERON"},
		{ResetPanic, "PANIC"},
		{ResetBrownout, "BROWNOUT"},
		{ResetDeepSleep, "DEEPSLEEP"},
		{ResetCPULockup, "CPU_LOCKUP"},
		{ResetReason(77), "UNKNOWN (77)"},
	}

	for _, tt := range tests {
		if got := FormatResetReason(tt.reason); got != tt.want {
			t.Errorf("FormatResetReason(%d) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestDescribeResetReason_UnmappedEmbedsCode(t *testing.T) {
	got := DescribeResetReason(ResetReason(200))
	if !strings.Contains(got, "200") {
		t.Errorf("DescribeResetReason(200) = %q, should embed raw code", got)
	}
}

func TestFormatRevision(t *testing.T) {
	tests := []struct {
		revision int
		want     string
	}{
		{0, "v0"},
		{1, "v1"},
		{3, "v3"},
		{100, "v1.0"},
		{301, "v3.1"},
		{102, "v1.2"},
	}

	for _, tt := range tests {
		if got := FormatRevision(tt.revision); got != tt.want {
			t.Errorf("FormatRevision(%d) = %q, want %q", tt.revision, got, tt.want)
		}
	}
}

func TestFormatFlashSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0"},
		{4 * 1024 * 1024, "4MB"},
		{8 * 1024 * 1024, "8MB"},
		{16 * 1024 * 1024, "16MB"},
		{512 * 1024, "512KB"},
		{1000, "1000 bytes"},
	}

	for _, tt := range tests {
		if got := FormatFlashSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFlashSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   uint64
		want string
	}{
		{0, "0 ms"},
		{999, "999 ms"},
		{1000, "1s"},
		{65000, "1m 5s"},
		{3661000, "1h 1m 1s"},
		{90061000, "1d 1h 1m 1s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestFormatAddress(t *testing.T) {
	got := FormatAddress(0x24D7EB15A3C0)
	if got != "24:D7:EB:15:A3:C0" {
		t.Errorf("FormatAddress = %q", got)
	}
}

func TestFormatMessageType(t *testing.T) {
	tests := []struct {
		msgType uint8
		want    string
	}{
		{MsgIdentRequest, "IDENT_REQUEST"},
		{MsgVersionRequest, "VERSION_REQUEST"},
		{MsgResetRequest, "RESET_REQUEST"},
		{MsgClocksRequest, "CLOCKS_REQUEST"},
		{MsgReportRequest, "REPORT_REQUEST"},
		{MsgDiscoveryRequest, "DISCOVERY_REQUEST"},
		{MsgPingRequest, "PING_REQUEST"},
		{MsgIdentData, "IDENT_DATA"},
		{MsgVersionData, "VERSION_DATA"},
		{MsgResetData, "RESET_DATA"},
		{MsgClocksData, "CLOCKS_DATA"},
		{MsgDeviceAnnounce, "DEVICE_ANNOUNCE"},
		{MsgReportData, "REPORT_DATA"},
		{MsgPingResponse, "PING_RESPONSE"},
		{MsgErrorInvalidCmd, "ERROR_INVALID_CMD"},
		{0x99, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := FormatMessageType(tt.msgType); got != tt.want {
			t.Errorf("FormatMessageType(0x%02X) = %q, want %q", tt.msgType, got, tt.want)
		}
	}
}

func TestFormatPayloadMap_Stable(t *testing.T) {
	payload := map[int]interface{}{
		0: uint64(ChipESP32S3),
		1: uint64(FeatureEmbFlash | FeatureWiFiBGN | FeatureBLE),
		2: uint64(2),
		3: uint64(301),
	}

	first := FormatPayloadMap(MsgIdentData, payload)
	for i := 0; i < 10; i++ {
		if got := FormatPayloadMap(MsgIdentData, payload); got != first {
			t.Fatalf("Output not stable: %q != %q", got, first)
		}
	}

	if !strings.Contains(first, "ESP32-S3") {
		t.Errorf("IDENT_DATA formatting missing model label: %q", first)
	}
	if !strings.Contains(first, "Cores: 2") {
		t.Errorf("IDENT_DATA formatting missing core count: %q", first)
	}
	if !strings.Contains(first, "v3.1") {
		t.Errorf("IDENT_DATA formatting missing revision: %q", first)
	}
}

func TestFormatPayloadMap_UnknownTypeSortedDump(t *testing.T) {
	payload := map[int]interface{}{3: uint64(3), 1: uint64(1), 2: uint64(2)}
	got := FormatPayloadMap(0x99, payload)
	want := "  Payload: 1=1 2=2 3=3\n"
	if got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}
