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
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// Unix
	usec  = int64(1585147599)
	unsec = int64(631495778)
	// NTP
	nsec  = uint32(3794136399)
	nfrac = uint32(2712253714)
)

func TestTime(t *testing.T) {
	sec, frac := Time(time.Unix(usec, unsec))
	require.Equal(t, nsec, sec)
	require.Equal(t, nfrac, frac)
}

func TestUnix(t *testing.T) {
	// fraction conversion loses sub-nanosecond precision
	require.WithinDuration(t, time.Unix(usec, unsec), Unix(nsec, nfrac), time.Microsecond)
}

func TestTimeUnixRoundTrip(t *testing.T) {
	now := time.Now()
	sec, frac := Time(now)
	require.WithinDuration(t, now, Unix(sec, frac), time.Microsecond)
}

func TestPacketRoundTrip(t *testing.T) {
	request := &Packet{
		Settings:   0x1B,
		Poll:       3,
		Precision:  -6,
		TxTimeSec:  nsec,
		TxTimeFrac: nfrac,
	}
	b, err := request.Bytes()
	require.NoError(t, err)
	require.Len(t, b, PacketSizeBytes)

	parsed, err := BytesToPacket(b)
	require.NoError(t, err)
	require.Equal(t, request, parsed)
}

func TestBytesToPacketTooShort(t *testing.T) {
	_, err := BytesToPacket([]byte{0x1B, 0x00})
	require.Error(t, err)
}

func TestOffsetAndDelay(t *testing.T) {
	trueOffset := 100 * time.Millisecond
	oneWay := 10 * time.Millisecond

	originTime := time.Unix(usec, 0)
	serverReceiveTime := originTime.Add(oneWay + trueOffset)
	serverTransmitTime := serverReceiveTime.Add(time.Millisecond)
	clientReceiveTime := serverTransmitTime.Add(oneWay - trueOffset)

	require.Equal(t, trueOffset, Offset(originTime, serverReceiveTime, serverTransmitTime, clientReceiveTime))
	require.Equal(t, 2*oneWay, RoundTripDelay(originTime, serverReceiveTime, serverTransmitTime, clientReceiveTime))
}

// fakeServer answers one request on a loopback UDP socket the way a
// stratum 2 server would. Errors are silently dropped, the client side
// of the test fails on timeout anyway.
func fakeServer(conn *net.UDPConn, shiftOrigin bool) {
	buf := make([]byte, PacketSizeBytes)
	n, addr, err := conn.ReadFromUDP(buf)
	if err != nil {
		return
	}
	request, err := BytesToPacket(buf[:n])
	if err != nil {
		return
	}

	sec, frac := Time(time.Now())
	response := &Packet{
		Settings:     0x1C,
		Stratum:      2,
		OrigTimeSec:  request.TxTimeSec,
		OrigTimeFrac: request.TxTimeFrac,
		RxTimeSec:    sec,
		RxTimeFrac:   frac,
		TxTimeSec:    sec,
		TxTimeFrac:   frac,
	}
	if shiftOrigin {
		response.OrigTimeSec++
	}
	b, err := response.Bytes()
	if err != nil {
		return
	}
	//nolint:errcheck
	conn.WriteToUDP(b, addr)
}

func TestQuery(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()
	go fakeServer(conn, false)

	port := conn.LocalAddr().(*net.UDPAddr).Port
	resp, err := Query("127.0.0.1", port, time.Second)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), resp.ServerTime, time.Second)
	require.WithinDuration(t, time.Now(), resp.LocalTime, time.Second)
	require.Less(t, resp.Offset.Abs(), time.Second)
}

func TestQueryOriginMismatch(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()
	go fakeServer(conn, true)

	port := conn.LocalAddr().(*net.UDPAddr).Port
	_, err = Query("127.0.0.1", port, time.Second)
	require.ErrorContains(t, err, "origin timestamp mismatch")
}

func TestQueryTimeout(t *testing.T) {
	// listener that never answers
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer conn.Close()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	_, err = Query("127.0.0.1", port, 50*time.Millisecond)
	require.Error(t, err)
}
