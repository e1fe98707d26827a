/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ntp

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPort is the standard NTP UDP port
const DefaultPort = 123

// DefaultServers are public servers used as fallbacks and for resets
var DefaultServers = []string{"pool.ntp.org", "time.nist.gov", "time.google.com"}

// Response is the result of a single NTP query
type Response struct {
	// ServerTime is the remote clock reading, taken from the transmit timestamp
	ServerTime time.Time
	// LocalTime is the local clock reading taken when the response arrived
	LocalTime time.Time
	// Offset is the estimated difference between local and remote clocks
	Offset time.Duration
}

// Query sends a single mode 3 request to server and reads one response.
// Software timestamps are good enough here: the consumers of this data
// set clocks with second-level precision at best.
func Query(server string, port int, timeout time.Duration) (*Response, error) {
	addr := net.JoinHostPort(server, strconv.Itoa(port))
	conn, err := net.DialTimeout("udp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	clientTransmitTime := time.Now()
	sec, frac := Time(clientTransmitTime)
	request := &Packet{
		Settings:   0x1B,
		TxTimeSec:  sec,
		TxTimeFrac: frac,
	}
	if err := binary.Write(conn, binary.BigEndian, request); err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", addr, err)
	}

	buf := make([]byte, PacketSizeBytes)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", addr, err)
	}
	clientReceiveTime := time.Now()
	response, err := BytesToPacket(buf[:n])
	if err != nil {
		return nil, err
	}
	// origin time must echo our transmit time, otherwise the response
	// belongs to some other exchange
	if response.OrigTimeSec != sec || response.OrigTimeFrac != frac {
		return nil, fmt.Errorf("origin timestamp mismatch in response from %s", addr)
	}

	serverReceiveTime := Unix(response.RxTimeSec, response.RxTimeFrac)
	serverTransmitTime := Unix(response.TxTimeSec, response.TxTimeFrac)
	originTime := Unix(sec, frac)

	log.Debugf("Origin TX timestamp (T1): %v", originTime)
	log.Debugf("Server RX timestamp (T2): %v", serverReceiveTime)
	log.Debugf("Server TX timestamp (T3): %v", serverTransmitTime)
	log.Debugf("Client RX timestamp (T4): %v", clientReceiveTime)

	offset := Offset(originTime, serverReceiveTime, serverTransmitTime, clientReceiveTime)
	log.Debugf("Offset: %v, delay: %v", offset, RoundTripDelay(originTime, serverReceiveTime, serverTransmitTime, clientReceiveTime))

	return &Response{
		ServerTime: serverTransmitTime,
		LocalTime:  clientReceiveTime,
		Offset:     offset,
	}, nil
}
