// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import "fmt"

// Payload map keys, per message type.
//
//	IDENT_DATA / DEVICE_ANNOUNCE: 0 => model, 1 => features, 2 => cores, 3 => revision
//	VERSION_DATA:                 0 => sdk-version, 1 => probe-version
//	RESET_DATA:                   0 => reason
//	CLOCKS_DATA:                  0 => cpu-mhz, 1 => flash-bytes, 2 => flash-embedded
//	REPORT_DATA:                  keys 0-3 as IDENT_DATA, 4 => sdk-version,
//	                              5 => probe-version, 6 => reason, 7 => cpu-mhz,
//	                              8 => flash-bytes, 9 => flash-embedded, 10 => uptime-ms
//	PING_RESPONSE:                0 => uptime-ms

// ChipInfo is the chip identity record from IDENT_DATA.
// Populated once per query; never mutated afterwards.
type ChipInfo struct {
	Model    ChipModel
	Features FeatureSet
	Cores    int
	Revision int // major*100 + minor
}

// RevisionMajor returns the major part of the silicon revision.
func (c ChipInfo) RevisionMajor() int {
	return c.Revision / 100
}

// RevisionMinor returns the minor part of the silicon revision.
func (c ChipInfo) RevisionMinor() int {
	return c.Revision % 100
}

// ChipReport is the full diagnostic record from REPORT_DATA.
type ChipReport struct {
	ChipInfo

	SDKVersion   string
	ProbeVersion string
	ResetReason  ResetReason

	CPUFreqMHz     int
	FlashSizeBytes uint64
	FlashEmbedded  bool

	UptimeMs uint64
}

// ParseIdentData extracts a ChipInfo from an IDENT_DATA or DEVICE_ANNOUNCE packet.
func ParseIdentData(p *Packet) (ChipInfo, error) {
	if t := p.Type(); t != MsgIdentData && t != MsgDeviceAnnounce {
		return ChipInfo{}, fmt.Errorf("unexpected message type 0x%02X", t)
	}
	return chipInfoFromMap(p.PayloadMap(), 0), nil
}

// ParseVersionData extracts the SDK and probe firmware version strings
// from a VERSION_DATA packet.
func ParseVersionData(p *Packet) (sdkVersion, probeVersion string, err error) {
	if p.Type() != MsgVersionData {
		return "", "", fmt.Errorf("unexpected message type 0x%02X", p.Type())
	}
	m := p.PayloadMap()
	sdkVersion, _ = GetMapString(m, 0)
	probeVersion, _ = GetMapString(m, 1)
	return sdkVersion, probeVersion, nil
}

// ParseResetData extracts the reset reason from a RESET_DATA packet.
func ParseResetData(p *Packet) (ResetReason, error) {
	if p.Type() != MsgResetData {
		return ResetUnknown, fmt.Errorf("unexpected message type 0x%02X", p.Type())
	}
	reason, _ := GetMapUint(p.PayloadMap(), 0)
	return ResetReason(reason), nil
}

// ParseClocksData extracts CPU frequency and flash geometry from a
// CLOCKS_DATA packet.
func ParseClocksData(p *Packet) (cpuMHz int, flashBytes uint64, flashEmbedded bool, err error) {
	if p.Type() != MsgClocksData {
		return 0, 0, false, fmt.Errorf("unexpected message type 0x%02X", p.Type())
	}
	m := p.PayloadMap()
	mhz, _ := GetMapUint(m, 0)
	flashBytes, _ = GetMapUint(m, 1)
	flashEmbedded, _ = GetMapBool(m, 2)
	return int(mhz), flashBytes, flashEmbedded, nil
}

// ParseReportData extracts a full ChipReport from a REPORT_DATA packet.
func ParseReportData(p *Packet) (ChipReport, error) {
	if p.Type() != MsgReportData {
		return ChipReport{}, fmt.Errorf("unexpected message type 0x%02X", p.Type())
	}
	m := p.PayloadMap()

	report := ChipReport{ChipInfo: chipInfoFromMap(m, 0)}
	report.SDKVersion, _ = GetMapString(m, 4)
	report.ProbeVersion, _ = GetMapString(m, 5)

	reason, _ := GetMapUint(m, 6)
	report.ResetReason = ResetReason(reason)

	mhz, _ := GetMapUint(m, 7)
	report.CPUFreqMHz = int(mhz)
	report.FlashSizeBytes, _ = GetMapUint(m, 8)
	report.FlashEmbedded, _ = GetMapBool(m, 9)
	report.UptimeMs, _ = GetMapUint(m, 10)

	return report, nil
}

// ParsePingResponse extracts the uptime from a PING_RESPONSE packet.
func ParsePingResponse(p *Packet) (uptimeMs uint64, err error) {
	if p.Type() != MsgPingResponse {
		return 0, fmt.Errorf("unexpected message type 0x%02X", p.Type())
	}
	uptimeMs, _ = GetMapUint(p.PayloadMap(), 0)
	return uptimeMs, nil
}

// IsEndMarker reports whether a DEVICE_ANNOUNCE carries the all-zero
// end-of-discovery marker.
func (c ChipInfo) IsEndMarker() bool {
	return c.Model == 0 && c.Features == 0 && c.Cores == 0 && c.Revision == 0
}

// chipInfoFromMap reads the four identity fields starting at the given base key.
func chipInfoFromMap(m map[int]interface{}, base int) ChipInfo {
	model, _ := GetMapUint(m, base)
	features, _ := GetMapUint(m, base+1)
	cores, _ := GetMapUint(m, base+2)
	revision, _ := GetMapUint(m, base+3)

	return ChipInfo{
		Model:    ChipModel(model),
		Features: FeatureSet(features),
		Cores:    int(cores),
		Revision: int(revision),
	}
}

// NewIdentData creates an IDENT_DATA packet from a ChipInfo. Used by the
// loopback tests and by bench fixtures that emulate a probe.
func NewIdentData(address uint64, info ChipInfo) *Packet {
	return NewPacketWithPayload(address, MsgIdentData, identPayload(info))
}

// NewDeviceAnnounce creates a DEVICE_ANNOUNCE packet from a ChipInfo.
func NewDeviceAnnounce(address uint64, info ChipInfo) *Packet {
	return NewPacketWithPayload(address, MsgDeviceAnnounce, identPayload(info))
}

// NewReportData creates a REPORT_DATA packet from a ChipReport.
func NewReportData(address uint64, report ChipReport) *Packet {
	payload := identPayload(report.ChipInfo)
	payload[4] = report.SDKVersion
	payload[5] = report.ProbeVersion
	payload[6] = uint64(report.ResetReason)
	payload[7] = uint64(report.CPUFreqMHz)
	payload[8] = report.FlashSizeBytes
	payload[9] = report.FlashEmbedded
	payload[10] = report.UptimeMs
	return NewPacketWithPayload(address, MsgReportData, payload)
}

func identPayload(info ChipInfo) map[int]interface{} {
	return map[int]interface{}{
		0: uint64(info.Model),
		1: uint64(info.Features),
		2: uint64(info.Cores),
		3: uint64(info.Revision),
	}
}
