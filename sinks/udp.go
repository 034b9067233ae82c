/*
Copyright 2024 The Flowgen Authors

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

// Package sinks implements the output side of the exporter: sending
// encoded payloads as UDP datagrams, or appending them to a PCAP capture
// file.
package sinks

import (
	"fmt"
	"net"

	"github.com/netsynth/flowgen"
)

// sourcePort is fixed so collectors that scope templates by
// (source_address, source_port, exporter_id) see a stable exporter across
// the life of the process, rather than a new one per ephemeral port.
const sourcePort = 2056

// maxUDPPayload is the practical IPv4 UDP payload ceiling.
const maxUDPPayload = 65507

// UDPSink sends payloads as UDP datagrams from a fixed local source port
// to a single configured destination.
type UDPSink struct {
	conn *net.UDPConn
	dest *net.UDPAddr
}

// NewUDPSink binds a UDP socket on 0.0.0.0:2056 and prepares to send to
// destIP:destPort.
func NewUDPSink(destIP string, destPort int) (*UDPSink, error) {
	local := &net.UDPAddr{IP: net.IPv4zero, Port: sourcePort}
	conn, err := net.ListenUDP("udp4", local)
	if err != nil {
		return nil, fmt.Errorf("binding udp source port %d: %w", sourcePort, err)
	}
	ip := net.ParseIP(destIP)
	if ip == nil {
		conn.Close()
		return nil, fmt.Errorf("destination %q is not a valid IPv4 literal", destIP)
	}
	dest := &net.UDPAddr{IP: ip, Port: destPort}
	return &UDPSink{conn: conn, dest: dest}, nil
}

// Send transmits payload as a single datagram.
func (s *UDPSink) Send(payload []byte) error {
	if len(payload) > maxUDPPayload {
		return flowgen.PacketTooLarge(len(payload), maxUDPPayload)
	}
	_, err := s.conn.WriteToUDP(payload, s.dest)
	if err != nil {
		return fmt.Errorf("%w: %v", flowgen.ErrTransmission, err)
	}
	return nil
}

// Close releases the underlying socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}
