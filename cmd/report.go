// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/calderic/fumarole/pkg/tephra"
	"github.com/spf13/cobra"
)

var (
	reportTimeout int
	reportSplit   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query and print a one-shot chip report",
	Long: `Send a REPORT_REQUEST to the probe and print the returned chip report.

The report is a fixed set of read-only introspection values the probe takes
straight from the SDK: chip model, feature flags, core count, silicon
revision, SDK version, last reset reason, CPU frequency, and flash geometry.
The query runs once; output is plain key-value lines.

With --split, the four individual requests (IDENT, VERSION, RESET, CLOCKS)
are issued sequentially instead of the bundled REPORT_REQUEST. Useful for
probing firmware builds that only implement a subset.

Exit codes:
  0 - Report received and printed
  1 - No response within timeout
  2 - Connection error`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportTimeout, "timeout", 5, "Timeout in seconds per request")
	reportCmd.Flags().BoolVar(&reportSplit, "split", false, "Issue individual requests instead of the report bundle")
}

func runReport(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Fumarole - Chip Report\n")
	fmt.Printf("Connection: %s\n\n", connInfo)

	if reportSplit {
		return runSplitReport(conn)
	}

	request := tephra.NewReportRequest(tephra.AddressBroadcast)
	response, err := transact(conn, request, tephra.MsgReportData, time.Duration(reportTimeout)*time.Second)
	if err != nil {
		return reportFailure(err)
	}

	report, err := tephra.ParseReportData(response)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Malformed REPORT_DATA: %v\n", err)
		os.Exit(1)
	}

	printChipReport(os.Stdout, response.Address(), report)
	return nil
}

// runSplitReport assembles the report from the four individual requests.
func runSplitReport(conn Connection) error {
	timeout := time.Duration(reportTimeout) * time.Second
	report := tephra.ChipReport{}
	var address uint64

	ident, err := transact(conn, tephra.NewIdentRequest(tephra.AddressBroadcast), tephra.MsgIdentData, timeout)
	if err != nil {
		return reportFailure(err)
	}
	address = ident.Address()
	if report.ChipInfo, err = tephra.ParseIdentData(ident); err != nil {
		fmt.Fprintf(os.Stderr, "Malformed IDENT_DATA: %v\n", err)
		os.Exit(1)
	}

	version, err := transact(conn, tephra.NewVersionRequest(tephra.AddressBroadcast), tephra.MsgVersionData, timeout)
	if err != nil {
		return reportFailure(err)
	}
	if report.SDKVersion, report.ProbeVersion, err = tephra.ParseVersionData(version); err != nil {
		fmt.Fprintf(os.Stderr, "Malformed VERSION_DATA: %v\n", err)
		os.Exit(1)
	}

	reset, err := transact(conn, tephra.NewResetRequest(tephra.AddressBroadcast), tephra.MsgResetData, timeout)
	if err != nil {
		return reportFailure(err)
	}
	if report.ResetReason, err = tephra.ParseResetData(reset); err != nil {
		fmt.Fprintf(os.Stderr, "Malformed RESET_DATA: %v\n", err)
		os.Exit(1)
	}

	clocks, err := transact(conn, tephra.NewClocksRequest(tephra.AddressBroadcast), tephra.MsgClocksData, timeout)
	if err != nil {
		return reportFailure(err)
	}
	if report.CPUFreqMHz, report.FlashSizeBytes, report.FlashEmbedded, err = tephra.ParseClocksData(clocks); err != nil {
		fmt.Fprintf(os.Stderr, "Malformed CLOCKS_DATA: %v\n", err)
		os.Exit(1)
	}

	printChipReport(os.Stdout, address, report)
	return nil
}

func reportFailure(err error) error {
	if err == errResponseTimeout {
		fmt.Fprintf(os.Stderr, "TIMEOUT: no response within %d seconds\n", reportTimeout)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "READ FAILED: %v\n", err)
	os.Exit(2)
	return nil
}

// printChipReport writes the key-value report block. Every feature flag is
// printed as its own yes/no line so each bit is visible independently of
// the others.
func printChipReport(w io.Writer, address uint64, report tephra.ChipReport) {
	// The UNKNOWN label already embeds the raw code
	model := tephra.FormatChipModel(report.Model)
	if !strings.HasPrefix(model, "UNKNOWN") {
		model = fmt.Sprintf("%s (%d)", model, int(report.Model))
	}

	fmt.Fprintf(w, "Device:         %s\n", tephra.FormatAddress(address))
	fmt.Fprintf(w, "Chip model:     %s\n", model)
	fmt.Fprintf(w, "Cores:          %d\n", report.Cores)
	fmt.Fprintf(w, "Revision:       %s\n", tephra.FormatRevision(report.Revision))
	fmt.Fprintf(w, "Features:       %s\n", tephra.FormatFeatures(report.Features))

	flags := []struct {
		bit   tephra.FeatureSet
		label string
	}{
		{tephra.FeatureEmbFlash, "Embedded flash"},
		{tephra.FeatureWiFiBGN, "WiFi 802.11bgn"},
		{tephra.FeatureBLE, "BLE"},
		{tephra.FeatureBTClassic, "BT Classic"},
		{tephra.FeatureIEEE802154, "IEEE 802.15.4"},
		{tephra.FeatureEmbPSRAM, "Embedded PSRAM"},
	}
	for _, f := range flags {
		state := "no"
		if report.Features.Has(f.bit) {
			state = "yes"
		}
		fmt.Fprintf(w, "  %-16s %s\n", f.label+":", state)
	}

	if report.SDKVersion != "" {
		fmt.Fprintf(w, "SDK version:    %s\n", report.SDKVersion)
	}
	if report.ProbeVersion != "" {
		fmt.Fprintf(w, "Probe version:  %s\n", report.ProbeVersion)
	}
	fmt.Fprintf(w, "Reset reason:   %s (%d) - %s\n",
		tephra.FormatResetReason(report.ResetReason), int(report.ResetReason),
		tephra.DescribeResetReason(report.ResetReason))
	fmt.Fprintf(w, "CPU frequency:  %d MHz\n", report.CPUFreqMHz)

	flashLoc := "external"
	if report.FlashEmbedded {
		flashLoc = "embedded"
	}
	fmt.Fprintf(w, "Flash size:     %s (%s)\n", tephra.FormatFlashSize(report.FlashSizeBytes), flashLoc)

	if report.UptimeMs > 0 {
		fmt.Fprintf(w, "Uptime:         %s\n", tephra.FormatDuration(report.UptimeMs))
	}
}
