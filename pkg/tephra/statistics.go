// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import (
	"fmt"
	"strings"
	"time"
)

// Statistics tracks packet statistics and error rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalPackets     uint64
	ValidPackets     uint64
	CRCErrors        uint64
	DecodeErrors     uint64
	AnomalousValues  uint64
	UnknownModels    uint64
	InvalidCores     uint64
	InvalidRevisions uint64
	InvalidFreqs     uint64
	InvalidFlash     uint64

	// Rates (calculated)
	PacketRate float64 // packets/sec
	ErrorRate  float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update updates statistics based on a packet and its errors
func (s *Statistics) Update(packet *Packet, decodeErr error, validationErrors []ValidationError) {
	s.TotalPackets++

	// Handle decode errors
	if decodeErr != nil {
		if strings.HasPrefix(decodeErr.Error(), "CRC mismatch") {
			s.CRCErrors++
		} else {
			// Other decode errors (framing, overflow, etc.)
			s.DecodeErrors++
		}
		return // Don't process packet further if decode failed
	}

	// Handle validation errors
	if len(validationErrors) > 0 {
		for _, err := range validationErrors {
			switch err.Type {
			case AnomalyUnknownModel:
				s.UnknownModels++
			case AnomalyInvalidCores:
				s.InvalidCores++
			case AnomalyInvalidRevision:
				s.InvalidRevisions++
			case AnomalyInvalidFreq:
				s.InvalidFreqs++
			case AnomalyInvalidFlash:
				s.InvalidFlash++
			}
			s.AnomalousValues++
		}
	} else {
		// No errors - packet is valid
		s.ValidPackets++
	}

	// Update timestamp for rate calculation
	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates packet and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.PacketRate = float64(s.TotalPackets) / elapsed
		errorCount := s.CRCErrors + s.DecodeErrors + s.AnomalousValues
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	// Calculate percentages
	var validPercent, crcErrorPercent, decodeErrorPercent, anomalousPercent float64
	if s.TotalPackets > 0 {
		validPercent = float64(s.ValidPackets) * 100.0 / float64(s.TotalPackets)
		crcErrorPercent = float64(s.CRCErrors) * 100.0 / float64(s.TotalPackets)
		decodeErrorPercent = float64(s.DecodeErrors) * 100.0 / float64(s.TotalPackets)
		anomalousPercent = float64(s.AnomalousValues) * 100.0 / float64(s.TotalPackets)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Packets:   %8d\n", s.TotalPackets)
	result += fmt.Sprintf("Valid Packets:   %8d (%.1f%%)\n", s.ValidPackets, validPercent)

	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d (%.1f%%)\n", s.CRCErrors, crcErrorPercent)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", s.DecodeErrors, decodeErrorPercent)
	}
	if s.AnomalousValues > 0 {
		result += fmt.Sprintf("Anomalous Values:%8d (%.1f%%)\n", s.AnomalousValues, anomalousPercent)
		if s.UnknownModels > 0 {
			result += fmt.Sprintf("  Unknown Models:   %5d\n", s.UnknownModels)
		}
		if s.InvalidCores > 0 {
			result += fmt.Sprintf("  Invalid Cores:    %5d\n", s.InvalidCores)
		}
		if s.InvalidRevisions > 0 {
			result += fmt.Sprintf("  Invalid Revision: %5d\n", s.InvalidRevisions)
		}
		if s.InvalidFreqs > 0 {
			result += fmt.Sprintf("  Invalid CPU Freq: %5d\n", s.InvalidFreqs)
		}
		if s.InvalidFlash > 0 {
			result += fmt.Sprintf("  Invalid Flash:    %5d\n", s.InvalidFlash)
		}
	}

	result += fmt.Sprintf("Packet Rate:     %8.1f pkts/sec\n", s.PacketRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalPackets = 0
	s.ValidPackets = 0
	s.CRCErrors = 0
	s.DecodeErrors = 0
	s.AnomalousValues = 0
	s.UnknownModels = 0
	s.InvalidCores = 0
	s.InvalidRevisions = 0
	s.InvalidFreqs = 0
	s.InvalidFlash = 0
	s.PacketRate = 0
	s.ErrorRate = 0
}
