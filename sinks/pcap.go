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

package sinks

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/netsynth/flowgen"
)

var (
	synthSrcMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	synthDstMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
	synthSrcIP  = net.IPv4(127, 0, 0, 1)
)

// PCAPSink wraps every payload in a synthetic Ethernet/IPv4/UDP frame and
// appends it to a single pcap file for the lifetime of the run.
type PCAPSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *pcapgo.Writer
	destIP net.IP
	port   uint16
	srcSeq uint16
}

// NewPCAPSink creates (truncating any existing content) path and writes
// the pcap file header.
func NewPCAPSink(path string, destIP string, destPort int) (*PCAPSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating pcap file %s: %w", path, err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing pcap header: %w", err)
	}
	ip := net.ParseIP(destIP)
	if ip == nil {
		f.Close()
		return nil, fmt.Errorf("destination %q is not a valid IPv4 literal", destIP)
	}
	return &PCAPSink{file: f, writer: w, destIP: ip, port: uint16(destPort)}, nil
}

// Send wraps payload in a synthetic Ethernet/IPv4/UDP frame and appends one
// pcap record.
func (s *PCAPSink) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eth := &layers.Ethernet{
		SrcMAC:       synthSrcMAC,
		DstMAC:       synthDstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip4 := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Id:       s.srcSeq,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    synthSrcIP,
		DstIP:    s.destIP,
	}
	s.srcSeq++
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(sourcePort),
		DstPort: layers.UDPPort(s.port),
	}
	if err := udp.SetNetworkLayerForChecksum(ip4); err != nil {
		return fmt.Errorf("%w: %v", flowgen.ErrTransmission, err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip4, udp, gopacket.Payload(payload)); err != nil {
		return fmt.Errorf("%w: %v", flowgen.ErrTransmission, err)
	}

	frame := buf.Bytes()
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if err := s.writer.WritePacket(ci, frame); err != nil {
		return fmt.Errorf("%w: %v", flowgen.ErrTransmission, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *PCAPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
