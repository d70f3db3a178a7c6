// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package tephra

import (
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestFuzz_DecoderGarbage feeds random byte streams into the decoder.
// The decoder may report errors but must never panic, and must stay
// able to decode a valid packet afterwards.
func TestFuzz_DecoderGarbage(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	decoder := NewDecoder()
	for round := 0; round < rounds; round++ {
		chunk := make([]byte, 1+rng.Intn(64))
		rng.Read(chunk)
		for _, b := range chunk {
			decoder.DecodeByte(b)
		}
	}

	// Decoder must recover once real traffic resumes
	wire, err := EncodePacketFromValues(testAddress, MsgPingRequest, nil)
	if err != nil {
		t.Fatal(err)
	}
	var got *Packet
	for _, b := range wire {
		packet, _ := decoder.DecodeByte(b)
		if packet != nil {
			got = packet
		}
	}
	if got == nil || got.Type() != MsgPingRequest {
		t.Error("Decoder failed to recover after garbage stream")
	}
}

// TestFuzz_EncodeDecodeRoundTrip round-trips randomized identity payloads.
func TestFuzz_EncodeDecodeRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		address := rng.Uint64() & 0xFFFFFFFFFFFF
		info := ChipInfo{
			Model:    ChipModel(rng.Intn(64)),
			Features: FeatureSet(rng.Uint32()),
			Cores:    rng.Intn(32),
			Revision: rng.Intn(1000),
		}

		wire := MustEncodePacket(NewIdentData(address, info))
		packet, errs := decodeAll(t, wire)
		if len(errs) > 0 {
			t.Fatalf("Round %d: decode errors %v", round, errs)
		}
		if packet == nil {
			t.Fatalf("Round %d: no packet decoded", round)
		}
		if packet.Address() != address {
			t.Fatalf("Round %d: address 0x%012X != 0x%012X", round, packet.Address(), address)
		}

		got, err := ParseIdentData(packet)
		if err != nil {
			t.Fatalf("Round %d: parse error %v", round, err)
		}
		if got != info {
			t.Fatalf("Round %d: %+v != %+v", round, got, info)
		}
	}
}

// TestFuzz_FormatterTotal checks the display formatters are total over
// arbitrary inputs: no panic, never an empty string, and unmapped enum
// values always surface the raw code.
func TestFuzz_FormatterTotal(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		model := ChipModel(rng.Intn(1 << 16))
		label := FormatChipModel(model)
		if label == "" {
			t.Fatalf("Round %d: empty label for model %d", round, model)
		}
		if _, known := chipModelNames[model]; !known {
			want := strconv.Itoa(int(model))
			if !strings.Contains(label, want) {
				t.Fatalf("Round %d: fallback %q does not embed code %s", round, label, want)
			}
		}

		if FormatFeatures(FeatureSet(rng.Uint32())) == "" {
			t.Fatalf("Round %d: empty feature list", round)
		}
		if FormatResetReason(ResetReason(rng.Intn(1<<10))) == "" {
			t.Fatalf("Round %d: empty reset reason", round)
		}
	}
}
