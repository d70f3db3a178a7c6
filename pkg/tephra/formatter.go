// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import (
	"fmt"
	"sort"
	"strings"
)

// chipModelNames maps known chip model values to their display labels.
var chipModelNames = map[ChipModel]string{
	ChipESP32:    "ESP32",
	ChipESP32S2:  "ESP32-S2",
	ChipESP32C3:  "ESP32-C3",
	ChipESP32S3:  "ESP32-S3",
	ChipESP32C2:  "ESP32-C2",
	ChipESP32C6:  "ESP32-C6",
	ChipESP32H2:  "ESP32-H2",
	ChipESP32P4:  "ESP32-P4",
	ChipESP32C61: "ESP32-C61",
	ChipESP32C5:  "ESP32-C5",
	ChipESP32H21: "ESP32-H21",
	ChipESP32H4:  "ESP32-H4",
}

// FormatChipModel returns the display label for a chip model.
// Unmapped values produce "UNKNOWN (<code>)" with the raw numeric value.
func FormatChipModel(m ChipModel) string {
	if name, ok := chipModelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN (%d)", int(m))
}

// featureNames lists the feature bits in display order.
var featureNames = []struct {
	bit  FeatureSet
	name string
}{
	{FeatureEmbFlash, "Embedded flash"},
	{FeatureWiFiBGN, "WiFi 802.11bgn"},
	{FeatureBLE, "BLE"},
	{FeatureBTClassic, "BT Classic"},
	{FeatureIEEE802154, "IEEE 802.15.4"},
	{FeatureEmbPSRAM, "Embedded PSRAM"},
}

// FormatFeatures returns a comma-separated list of set feature flags.
// Unknown bits are reported as "bit N" so nothing is silently dropped.
func FormatFeatures(f FeatureSet) string {
	if f == 0 {
		return "(none)"
	}

	parts := []string{}
	known := FeatureSet(0)
	for _, feat := range featureNames {
		known |= feat.bit
		if f.Has(feat.bit) {
			parts = append(parts, feat.name)
		}
	}
	for bit := 0; bit < 32; bit++ {
		mask := FeatureSet(1) << bit
		if f&mask != 0 && known&mask == 0 {
			parts = append(parts, fmt.Sprintf("bit %d", bit))
		}
	}

	return strings.Join(parts, ", ")
}

// resetReasonNames maps reset reasons to their short names.
var resetReasonNames = map[ResetReason]string{
	ResetUnknown:   "UNKNOWN",
	ResetPowerOn:   "POWERON",
	ResetExternal:  "EXTERNAL",
	ResetSoftware:  "SOFTWARE",
	ResetPanic:     "PANIC",
	ResetIntWdt:    "INT_WDT",
	ResetTaskWdt:   "TASK_WDT",
	ResetOtherWdt:  "WDT",
	ResetDeepSleep: "DEEPSLEEP",
	ResetBrownout:  "BROWNOUT",
	ResetSDIO:      "SDIO",
	ResetUSB:       "USB",
	ResetJTAG:      "JTAG",
	ResetEfuse:     "EFUSE",
	ResetPwrGlitch: "PWR_GLITCH",
	ResetCPULockup: "CPU_LOCKUP",
}

// resetReasonDescriptions maps reset reasons to one-line explanations.
var resetReasonDescriptions = map[ResetReason]string{
	ResetUnknown:   "reset reason could not be determined",
	ResetPowerOn:   "power-on event",
	ResetExternal:  "external pin reset",
	ResetSoftware:  "software restart",
	ResetPanic:     "exception or panic",
	ResetIntWdt:    "interrupt watchdog",
	ResetTaskWdt:   "task watchdog",
	ResetOtherWdt:  "other watchdog",
	ResetDeepSleep: "wake from deep sleep",
	ResetBrownout:  "brownout",
	ResetSDIO:      "reset over SDIO",
	ResetUSB:       "USB peripheral reset",
	ResetJTAG:      "JTAG reset",
	ResetEfuse:     "efuse error",
	ResetPwrGlitch: "power glitch detected",
	ResetCPULockup: "CPU lockup",
}

// FormatResetReason returns the short name for a reset reason.
// Unmapped values produce "UNKNOWN (<code>)" with the raw numeric value.
func FormatResetReason(r ResetReason) string {
	if name, ok := resetReasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN (%d)", int(r))
}

// DescribeResetReason returns the one-line explanation for a reset reason,
// or the fallback label for unmapped values.
func DescribeResetReason(r ResetReason) string {
	if desc, ok := resetReasonDescriptions[r]; ok {
		return desc
	}
	return fmt.Sprintf("unrecognized reset reason %d", int(r))
}

// FormatRevision formats a silicon revision (major*100+minor) as "vM.m".
// Pre-convention values (< 100) are formatted as a bare "vN".
func FormatRevision(revision int) string {
	if revision < 100 {
		return fmt.Sprintf("v%d", revision)
	}
	return fmt.Sprintf("v%d.%d", revision/100, revision%100)
}

// FormatFlashSize formats a flash size in bytes using MB/KB units.
func FormatFlashSize(bytes uint64) string {
	const mb = 1024 * 1024
	if bytes == 0 {
		return "0"
	}
	if bytes%mb == 0 {
		return fmt.Sprintf("%dMB", bytes/mb)
	}
	if bytes%1024 == 0 {
		return fmt.Sprintf("%dKB", bytes/1024)
	}
	return fmt.Sprintf("%d bytes", bytes)
}

// FormatPacket formats a packet into a human-readable string
func FormatPacket(p *Packet) string {
	timestamp := p.timestamp.Format("15:04:05.000")
	msgType := FormatMessageType(p.Type())

	result := fmt.Sprintf("[%s] %s (0x%02X) addr=%012X len=%d\n", timestamp, msgType, p.Type(), p.address, p.length)

	payloadMap := p.PayloadMap()
	if payloadMap != nil || isEmptyPayloadType(p.Type()) {
		result += FormatPayloadMap(p.Type(), payloadMap)
	}

	return result
}

func isEmptyPayloadType(msgType uint8) bool {
	switch msgType {
	case MsgIdentRequest, MsgVersionRequest, MsgResetRequest, MsgClocksRequest,
		MsgReportRequest, MsgDiscoveryRequest, MsgPingRequest:
		return true
	}
	return false
}

// FormatMessageType returns the human-readable name for a message type
func FormatMessageType(msgType uint8) string {
	switch msgType {
	// Requests (0x10-0x2F)
	case MsgIdentRequest:
		return "IDENT_REQUEST"
	case MsgVersionRequest:
		return "VERSION_REQUEST"
	case MsgResetRequest:
		return "RESET_REQUEST"
	case MsgClocksRequest:
		return "CLOCKS_REQUEST"
	case MsgReportRequest:
		return "REPORT_REQUEST"
	case MsgDiscoveryRequest:
		return "DISCOVERY_REQUEST"
	case MsgPingRequest:
		return "PING_REQUEST"

	// Responses (0x30-0x3F)
	case MsgIdentData:
		return "IDENT_DATA"
	case MsgVersionData:
		return "VERSION_DATA"
	case MsgResetData:
		return "RESET_DATA"
	case MsgClocksData:
		return "CLOCKS_DATA"
	case MsgDeviceAnnounce:
		return "DEVICE_ANNOUNCE"
	case MsgReportData:
		return "REPORT_DATA"
	case MsgPingResponse:
		return "PING_RESPONSE"

	// Errors (0xE0-0xEF)
	case MsgErrorInvalidCmd:
		return "ERROR_INVALID_CMD"

	default:
		return "UNKNOWN"
	}
}

// FormatPayloadMap formats the CBOR payload map based on message type
func FormatPayloadMap(msgType uint8, m map[int]interface{}) string {
	switch msgType {
	case MsgIdentRequest, MsgVersionRequest, MsgResetRequest, MsgClocksRequest,
		MsgReportRequest, MsgDiscoveryRequest, MsgPingRequest:
		return "  (no payload)\n"

	case MsgIdentData, MsgDeviceAnnounce:
		info := chipInfoFromMap(m, 0)
		return fmt.Sprintf("  Model: %s (%d), Features: %s, Cores: %d, Revision: %s\n",
			FormatChipModel(info.Model), int(info.Model), FormatFeatures(info.Features),
			info.Cores, FormatRevision(info.Revision))

	case MsgVersionData:
		sdkVersion, _ := GetMapString(m, 0)
		probeVersion, _ := GetMapString(m, 1)
		return fmt.Sprintf("  SDK: %s, Probe: %s\n", sdkVersion, probeVersion)

	case MsgResetData:
		reason, _ := GetMapUint(m, 0)
		r := ResetReason(reason)
		return fmt.Sprintf("  Reset reason: %s (%d) - %s\n", FormatResetReason(r), reason, DescribeResetReason(r))

	case MsgClocksData:
		mhz, _ := GetMapUint(m, 0)
		flashBytes, _ := GetMapUint(m, 1)
		embedded, _ := GetMapBool(m, 2)
		loc := "external"
		if embedded {
			loc = "embedded"
		}
		return fmt.Sprintf("  CPU: %d MHz, Flash: %s (%s)\n", mhz, FormatFlashSize(flashBytes), loc)

	case MsgReportData:
		info := chipInfoFromMap(m, 0)
		sdkVersion, _ := GetMapString(m, 4)
		reason, _ := GetMapUint(m, 6)
		mhz, _ := GetMapUint(m, 7)
		flashBytes, _ := GetMapUint(m, 8)
		uptime, _ := GetMapUint(m, 10)
		return fmt.Sprintf("  Model: %s, Cores: %d, Revision: %s, SDK: %s, Reset: %s, CPU: %d MHz, Flash: %s, Uptime: %s\n",
			FormatChipModel(info.Model), info.Cores, FormatRevision(info.Revision),
			sdkVersion, FormatResetReason(ResetReason(reason)), mhz,
			FormatFlashSize(flashBytes), FormatDuration(uptime))

	case MsgPingResponse:
		uptime, _ := GetMapUint(m, 0)
		return fmt.Sprintf("  Uptime: %s\n", FormatDuration(uptime))

	case MsgErrorInvalidCmd:
		offending, _ := GetMapUint(m, 0)
		return fmt.Sprintf("  Rejected command: 0x%02X\n", offending)
	}

	// Default: raw map dump, keys in ascending order
	if len(m) == 0 {
		return "  (no payload)\n"
	}
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	result := "  Payload:"
	for _, k := range keys {
		result += fmt.Sprintf(" %d=%v", k, m[k])
	}
	return result + "\n"
}

// FormatDuration formats a millisecond count as a short human-readable duration.
func FormatDuration(ms uint64) string {
	if ms < 1000 {
		return fmt.Sprintf("%d ms", ms)
	}

	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	seconds %= 60
	minutes %= 60
	hours %= 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatAddress formats a 48-bit device address as a colon-separated MAC.
func FormatAddress(address uint64) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		byte(address>>40), byte(address>>32), byte(address>>24),
		byte(address>>16), byte(address>>8), byte(address))
}
