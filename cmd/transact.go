// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"fmt"
	"time"

	"github.com/calderic/fumarole/pkg/tephra"
)

// errResponseTimeout marks a request that got no matching response in time.
var errResponseTimeout = fmt.Errorf("response timeout")

// transact sends a request packet and waits for the first response of the
// wanted type. Other packets (telemetry, announces) are ignored, decode
// errors are skipped; the caller decides how to surface the timeout.
func transact(conn Connection, request *tephra.Packet, wantType uint8, timeout time.Duration) (*tephra.Packet, error) {
	wireBytes := tephra.MustEncodePacket(request)

	if _, err := conn.Write(wireBytes); err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	responseChan := make(chan *tephra.Packet, 1)
	errChan := make(chan error, 1)

	go func() {
		decoder := tephra.NewDecoder()
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			for i := 0; i < n; i++ {
				packet, decodeErr := decoder.DecodeByte(buf[i])
				if decodeErr != nil {
					// Ignore decode errors; resync on next start byte
					continue
				}
				if packet != nil && packet.Type() == wantType {
					responseChan <- packet
					return
				}
			}
		}
	}()

	select {
	case packet := <-responseChan:
		return packet, nil
	case err := <-errChan:
		return nil, err
	case <-time.After(timeout):
		return nil, errResponseTimeout
	}
}
