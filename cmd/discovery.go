// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/calderic/fumarole/pkg/tephra"
	"github.com/spf13/cobra"
)

var (
	discoveryTimeout int
	discoveryBridge  bool
)

var discoveryCmd = &cobra.Command{
	Use:   "discovery",
	Short: "Discover probes via serial or WebSocket",
	Long: `Send DISCOVERY_REQUEST to discover Tephra probes.

Modes:
  Direct (default): Send broadcast DISCOVERY_REQUEST. Probes respond with
                    DEVICE_ANNOUNCE carrying their chip identity.

  Bridge (--bridge): Send stateless DISCOVERY_REQUEST to a WebSocket bridge.
                     The bridge responds with DEVICE_ANNOUNCE for each known
                     device, followed by an end-of-discovery marker (all zeros).

Probes ignore non-broadcast DISCOVERY_REQUEST; bridges respond to the
stateless address with their device table.

Examples:
  # Direct serial discovery
  fumarole discovery --port /dev/ttyUSB0

  # WebSocket bridge discovery
  fumarole discovery --url ws://bench.local/tephra --bridge

Exit codes:
  0 - Discovery successful (at least one device found)
  1 - Discovery failed (no devices or timeout)
  2 - Connection error`,
	RunE: runDiscovery,
}

func init() {
	rootCmd.AddCommand(discoveryCmd)
	discoveryCmd.Flags().IntVar(&discoveryTimeout, "timeout", 5, "Timeout in seconds for discovery")
	discoveryCmd.Flags().BoolVar(&discoveryBridge, "bridge", false, "Use bridge mode (stateless address)")
}

func runDiscovery(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	mode := "direct"
	var address uint64 = tephra.AddressBroadcast
	if discoveryBridge {
		mode = "bridge"
		address = tephra.AddressStateless
	}

	fmt.Printf("Fumarole - Probe Discovery\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("Timeout: %d seconds\n\n", discoveryTimeout)

	decoder := tephra.NewDecoder()

	// Create DISCOVERY_REQUEST packet
	discoveryPacket := tephra.NewDiscoveryRequest(address)
	wireBytes := tephra.MustEncodePacket(discoveryPacket)

	// Send discovery request
	fmt.Printf("Sending DISCOVERY_REQUEST (address=%s)...\n", tephra.FormatAddress(address))
	_, err = conn.Write(wireBytes)
	if err != nil {
		fmt.Printf("SEND FAILED: %v\n", err)
		os.Exit(2)
	}

	// Collect DEVICE_ANNOUNCE responses
	type foundDevice struct {
		address uint64
		info    tephra.ChipInfo
	}
	devices := make([]foundDevice, 0)
	done := make(chan bool, 1)
	errChan := make(chan error, 1)

	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			for j := 0; j < n; j++ {
				packet, decodeErr := decoder.DecodeByte(buf[j])
				if decodeErr != nil {
					continue
				}
				if packet == nil || packet.Type() != tephra.MsgDeviceAnnounce {
					continue
				}

				info, parseErr := tephra.ParseIdentData(packet)
				if parseErr != nil {
					continue
				}

				// End-of-discovery marker (bridge mode only)
				if info.IsEndMarker() {
					if discoveryBridge {
						fmt.Printf("\nEnd of discovery marker received\n")
						done <- true
						return
					}
					// Ignore zero announces in direct mode
					continue
				}

				devices = append(devices, foundDevice{address: packet.Address(), info: info})
				fmt.Printf("\nProbe found:\n")
				fmt.Printf("  Address: %s\n", tephra.FormatAddress(packet.Address()))
				fmt.Printf("  Model: %s\n", tephra.FormatChipModel(info.Model))
				fmt.Printf("  Features: %s\n", tephra.FormatFeatures(info.Features))
				fmt.Printf("  Cores: %d\n", info.Cores)
				fmt.Printf("  Revision: %s\n", tephra.FormatRevision(info.Revision))

				// Direct links are typically point-to-point but keep
				// listening for more announces until the timeout
			}
		}
	}()

	// Wait for discovery to complete or timeout
	select {
	case <-done:
		// Discovery complete (bridge sent end marker)
	case err := <-errChan:
		fmt.Printf("READ FAILED: %v\n", err)
		os.Exit(2)
	case <-time.After(time.Duration(discoveryTimeout) * time.Second):
		if discoveryBridge {
			fmt.Printf("\nTIMEOUT: No end-of-discovery marker received in %ds\n", discoveryTimeout)
		} else {
			// In direct mode, timeout is expected after all devices respond
			if len(devices) > 0 {
				fmt.Printf("\nDiscovery timeout reached\n")
			} else {
				fmt.Printf("\nTIMEOUT: No probes responded in %ds\n", discoveryTimeout)
			}
		}
	}

	// Summary
	fmt.Printf("\n--- Discovery summary ---\n")
	fmt.Printf("Probes found: %d\n", len(devices))

	if len(devices) == 0 {
		if discoveryBridge {
			fmt.Printf("No probes discovered. Bridge may not have any connected devices.\n")
		} else {
			fmt.Printf("No probes discovered. Check connection and device power.\n")
		}
		os.Exit(1)
	}

	return nil
}
