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
	pingTimeout int
	pingCount   int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the link by sending PING_REQUEST to the probe",
	Long: `Send PING_REQUEST packets and wait for PING_RESPONSE.

Each response carries the probe's uptime; round-trip time is measured on
the host. Over a WebSocket bridge the stateless address is handled by the
bridge itself, which makes this command useful for verifying:
  - The connection is established
  - HTTP Basic authentication works (WebSocket)
  - Bidirectional packet flow works

Exit codes:
  0 - All pings successful
  1 - One or more pings failed/timed out
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingTimeout, "timeout", 5, "Timeout in seconds for each ping")
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	// Bridges answer the stateless address; direct probes answer broadcast
	address := uint64(tephra.AddressBroadcast)
	if wsURL != "" {
		address = tephra.AddressStateless
	}

	fmt.Printf("Fumarole - Ping Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds per ping\n", pingTimeout)
	fmt.Printf("Count: %d pings\n\n", pingCount)

	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		startTime := time.Now()
		response, err := transact(conn, tephra.NewPingRequest(address),
			tephra.MsgPingResponse, time.Duration(pingTimeout)*time.Second)

		switch {
		case err == errResponseTimeout:
			fmt.Printf("TIMEOUT (no response in %ds)\n", pingTimeout)
			failCount++

		case err != nil:
			fmt.Printf("FAILED: %v\n", err)
			failCount++

		default:
			rtt := time.Since(startTime)
			uptime, _ := tephra.ParsePingResponse(response)
			fmt.Printf("PONG from %s, uptime=%s, rtt=%v\n",
				tephra.FormatAddress(response.Address()),
				tephra.FormatDuration(uptime), rtt.Round(time.Millisecond))
			successCount++
		}

		// Small delay between pings
		if i < pingCount {
			time.Sleep(100 * time.Millisecond)
		}
	}

	// Summary
	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Printf("%d pings sent, %d responses received, %.0f%% packet loss\n",
		pingCount, successCount, float64(failCount)/float64(pingCount)*100)

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}
