// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/calderic/fumarole/pkg/tephra"
	"github.com/spf13/cobra"
)

var (
	watchShowAll       bool
	watchStatsInterval int
	watchUseTUI        bool
	watchRefresh       int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of probe reports and link health",
	Long: `Continuously poll the probe and track link statistics.

A REPORT_REQUEST is sent at a fixed interval; every packet on the link is
decoded, validated, and counted. The dashboard shows:
  - The latest chip report (model, features, clocks, reset reason)
  - Packet and error statistics (CRC errors, decode failures, anomalies)
  - An event log of validation findings

By default, only errors are logged. Use --show-all to log valid packets too.
Use --tui=false for plain text output with periodic statistics summaries.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchShowAll, "show-all", false, "Log all packets (not just errors)")
	watchCmd.Flags().IntVar(&watchStatsInterval, "stats-interval", 10, "Statistics summary interval in text mode (seconds)")
	watchCmd.Flags().BoolVar(&watchUseTUI, "tui", true, "Use terminal UI (false for text mode)")
	watchCmd.Flags().IntVar(&watchRefresh, "refresh", 5, "Report poll interval in seconds (0 disables polling)")
}

// watchEvent carries one decoded packet (or decode failure) from the
// reader goroutine to the UI.
type watchEvent struct {
	packet           *tephra.Packet
	decodeErr        error
	validationErrors []tephra.ValidationError
}

func runWatch(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	events := make(chan watchEvent, 64)
	done := make(chan struct{})
	defer close(done)

	// Reader goroutine: decode and validate everything on the link
	go func() {
		decoder := tephra.NewDecoder()
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				select {
				case events <- watchEvent{decodeErr: err}:
				case <-done:
				}
				return
			}

			for i := 0; i < n; i++ {
				packet, decodeErr := decoder.DecodeByte(buf[i])
				if decodeErr != nil {
					select {
					case events <- watchEvent{decodeErr: decodeErr}:
					case <-done:
						return
					}
					continue
				}
				if packet != nil {
					select {
					case events <- watchEvent{packet: packet, validationErrors: tephra.ValidatePacket(packet)}:
					case <-done:
						return
					}
				}
			}
		}
	}()

	// Poll goroutine: request a fresh report at the configured interval
	if watchRefresh > 0 {
		go func() {
			request := tephra.MustEncodePacket(tephra.NewReportRequest(tephra.AddressBroadcast))
			ticker := time.NewTicker(time.Duration(watchRefresh) * time.Second)
			defer ticker.Stop()

			if _, err := conn.Write(request); err != nil {
				return
			}
			for {
				select {
				case <-ticker.C:
					if _, err := conn.Write(request); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()
	}

	if watchUseTUI {
		return runWatchTUI(connInfo, events)
	}
	return runWatchText(connInfo, events)
}

// runWatchText is the plain text mode: errors as they come, periodic
// statistics summaries, and a report block whenever one arrives.
func runWatchText(connInfo string, events <-chan watchEvent) error {
	fmt.Printf("Fumarole - Watch\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := tephra.NewStatistics()
	statsTicker := time.NewTicker(time.Duration(watchStatsInterval) * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case ev := <-events:
			if ev.decodeErr != nil {
				if ev.decodeErr == ErrConnectionClosed {
					log.Printf("Connection closed")
					return nil
				}
				stats.Update(nil, ev.decodeErr, nil)
				fmt.Printf("[ERROR] %v\n", ev.decodeErr)
				continue
			}

			stats.Update(ev.packet, nil, ev.validationErrors)

			if len(ev.validationErrors) > 0 {
				msgType := tephra.FormatMessageType(ev.packet.Type())
				for _, verr := range ev.validationErrors {
					fmt.Printf("[ANOMALY] %s: %s\n", msgType, verr.Message)
				}
			} else if ev.packet.Type() == tephra.MsgReportData {
				if report, err := tephra.ParseReportData(ev.packet); err == nil {
					fmt.Println()
					printChipReport(os.Stdout, ev.packet.Address(), report)
					fmt.Println()
				}
			} else if watchShowAll {
				fmt.Print(tephra.FormatPacket(ev.packet))
			}

		case <-statsTicker.C:
			fmt.Print(stats.String())
		}
	}
}
