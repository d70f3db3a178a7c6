// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import "fmt"

// AnomalyType represents different types of packet anomalies
type AnomalyType int

const (
	AnomalyUnknownModel AnomalyType = iota
	AnomalyInvalidCores
	AnomalyInvalidRevision
	AnomalyInvalidFreq
	AnomalyInvalidFlash
	AnomalyInvalidValue
	AnomalyCRCError
	AnomalyDecodeError
)

// Plausibility bounds for probe-reported values. Values outside these are
// flagged, not rejected: the probe may be newer than this tool.
const (
	maxCores      = 16
	maxRevision   = 9999 // major*100+minor
	minCPUFreqMHz = 10
	maxCPUFreqMHz = 2000
	maxFlashBytes = 1 << 30 // 1GB
)

// ValidationError represents a packet validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidatePacket validates decoded payload values and detects anomalies
// Returns a slice of validation errors (empty if packet is valid)
func ValidatePacket(p *Packet) []ValidationError {
	errors := []ValidationError{}

	switch p.Type() {
	case MsgIdentData:
		errors = append(errors, validateIdent(p)...)
	case MsgDeviceAnnounce:
		info, err := ParseIdentData(p)
		if err == nil && info.IsEndMarker() {
			// End-of-discovery marker is a legal all-zero announce
			return errors
		}
		errors = append(errors, validateIdent(p)...)
	case MsgClocksData:
		errors = append(errors, validateClocks(p)...)
	case MsgReportData:
		errors = append(errors, validateReport(p)...)
	}

	return errors
}

// validateIdent checks the identity fields of IDENT_DATA / DEVICE_ANNOUNCE
func validateIdent(p *Packet) []ValidationError {
	info, err := ParseIdentData(p)
	if err != nil {
		return []ValidationError{{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Unparseable identity payload: %v", err),
		}}
	}
	return validateChipInfo(info)
}

func validateChipInfo(info ChipInfo) []ValidationError {
	errors := []ValidationError{}

	if _, known := chipModelNames[info.Model]; !known {
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownModel,
			Message: fmt.Sprintf("Unknown chip model value=%d", int(info.Model)),
			Details: map[string]interface{}{"model": int(info.Model)},
		})
	}

	if info.Cores < 1 || info.Cores > maxCores {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidCores,
			Message: fmt.Sprintf("Invalid core count=%d (expected 1-%d)", info.Cores, maxCores),
			Details: map[string]interface{}{"cores": info.Cores, "max": maxCores},
		})
	}

	if info.Revision < 0 || info.Revision > maxRevision {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidRevision,
			Message: fmt.Sprintf("Invalid revision value=%d (max %d)", info.Revision, maxRevision),
			Details: map[string]interface{}{"revision": info.Revision, "max": maxRevision},
		})
	}

	return errors
}

// validateClocks checks CLOCKS_DATA frequency and flash values
func validateClocks(p *Packet) []ValidationError {
	mhz, flashBytes, _, err := ParseClocksData(p)
	if err != nil {
		return []ValidationError{{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Unparseable clocks payload: %v", err),
		}}
	}
	return validateClockValues(mhz, flashBytes)
}

func validateClockValues(mhz int, flashBytes uint64) []ValidationError {
	errors := []ValidationError{}

	if mhz < minCPUFreqMHz || mhz > maxCPUFreqMHz {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidFreq,
			Message: fmt.Sprintf("Implausible CPU frequency=%d MHz (expected %d-%d)", mhz, minCPUFreqMHz, maxCPUFreqMHz),
			Details: map[string]interface{}{"mhz": mhz},
		})
	}

	if flashBytes == 0 || flashBytes > maxFlashBytes {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidFlash,
			Message: fmt.Sprintf("Implausible flash size=%d bytes", flashBytes),
			Details: map[string]interface{}{"bytes": flashBytes},
		})
	}

	return errors
}

// validateReport checks the full REPORT_DATA bundle
func validateReport(p *Packet) []ValidationError {
	report, err := ParseReportData(p)
	if err != nil {
		return []ValidationError{{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("Unparseable report payload: %v", err),
		}}
	}

	errors := validateChipInfo(report.ChipInfo)
	errors = append(errors, validateClockValues(report.CPUFreqMHz, report.FlashSizeBytes)...)
	return errors
}
