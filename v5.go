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

package flowgen

import (
	"bytes"
	"net"
	"time"
)

const (
	v5HeaderLen  = 24
	v5RecordLen  = 48
	v5MaxRecords = 30
)

// V5Timing carries the auto-filled header values an encoder cannot derive
// from configuration alone.
type V5Timing struct {
	UnixSecs  uint32
	UnixNsecs uint32
	SysUpTime uint32 // milliseconds since process start
}

// EncodeV5 renders one or more v5 packets for records, splitting at
// v5MaxRecords. seqStart is the flow_sequence value for the first packet;
// subsequent packets (if split) advance it by the number of records each
// carries. Returns the packets in order.
func EncodeV5(records []LegacyRecord, seqStart uint32, timing V5Timing) ([][]byte, error) {
	var packets [][]byte
	seq := seqStart

	for offset := 0; offset < len(records); offset += v5MaxRecords {
		end := offset + v5MaxRecords
		if end > len(records) {
			end = len(records)
		}
		chunk := records[offset:end]

		buf, err := encodeV5Packet(chunk, seq, timing)
		if err != nil {
			return nil, err
		}
		packets = append(packets, buf)

		advance, err := checkedUint16("v5 flow_sequence advance", len(chunk))
		if err != nil {
			return nil, err
		}
		seq += uint32(advance)
	}
	return packets, nil
}

func encodeV5Packet(chunk []LegacyRecord, seq uint32, timing V5Timing) ([]byte, error) {
	count, err := checkedUint16("v5 packet record count", len(chunk))
	if err != nil {
		return nil, PacketTooLarge(len(chunk), 0xFFFF)
	}

	size, err := checkedAddInt("v5 packet size", v5HeaderLen, len(chunk)*v5RecordLen)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))

	writeU16(buf, 5)
	writeU16(buf, count)
	writeU32(buf, timing.SysUpTime)
	writeU32(buf, timing.UnixSecs)
	writeU32(buf, timing.UnixNsecs)
	writeU32(buf, seq)
	buf.WriteByte(0) // engine_type
	buf.WriteByte(0) // engine_id
	writeU16(buf, 0) // sampling_interval

	for _, r := range chunk {
		if err := writeV5Record(buf, r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeV5Record(buf *bytes.Buffer, r LegacyRecord) error {
	if err := writeIPv4(buf, r.SrcAddr); err != nil {
		return err
	}
	if err := writeIPv4(buf, r.DstAddr); err != nil {
		return err
	}
	if err := writeIPv4OrZero(buf, r.NextHop); err != nil {
		return err
	}
	writeU16(buf, r.Input)
	writeU16(buf, r.Output)
	writeU32(buf, r.DPkts)
	writeU32(buf, r.DOctets)
	writeU32(buf, r.First)
	writeU32(buf, r.Last)
	writeU16(buf, r.SrcPort)
	writeU16(buf, r.DstPort)
	buf.WriteByte(0) // pad1
	buf.WriteByte(r.TCPFlags)
	buf.WriteByte(r.Protocol)
	buf.WriteByte(r.Tos)
	writeU16(buf, r.SrcAS)
	writeU16(buf, r.DstAS)
	buf.WriteByte(r.SrcMask)
	buf.WriteByte(r.DstMask)
	writeU16(buf, 0) // pad2
	return nil
}

func writeIPv4(buf *bytes.Buffer, addr string) error {
	ip := net.ParseIP(addr)
	if ip == nil {
		return ConfigurationError("%q is not a valid IPv4 literal", addr)
	}
	b, err := EncodeIPv4(ip, 4)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeIPv4OrZero(buf *bytes.Buffer, addr string) error {
	if addr == "" {
		buf.Write([]byte{0, 0, 0, 0})
		return nil
	}
	return writeIPv4(buf, addr)
}

func writeU16(buf *bytes.Buffer, v uint16) {
	b, _ := EncodeUint(uint64(v), 2)
	buf.Write(b)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	b, _ := EncodeUint(uint64(v), 4)
	buf.Write(b)
}

// sysUpTime returns milliseconds elapsed since since, clamped to uint32.
func sysUpTime(since time.Time) uint32 {
	ms := time.Since(since).Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(ms)
}
