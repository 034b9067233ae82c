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
)

const (
	v7HeaderLen  = 28
	v7RecordLen  = 52
	v7MaxRecords = 27
)

// EncodeV7 renders one or more v7 packets for records, splitting at
// v7MaxRecords, mirroring EncodeV5's split policy.
func EncodeV7(records []LegacyRecord, seqStart uint32, timing V5Timing) ([][]byte, error) {
	var packets [][]byte
	seq := seqStart

	for offset := 0; offset < len(records); offset += v7MaxRecords {
		end := offset + v7MaxRecords
		if end > len(records) {
			end = len(records)
		}
		chunk := records[offset:end]

		buf, err := encodeV7Packet(chunk, seq, timing)
		if err != nil {
			return nil, err
		}
		packets = append(packets, buf)

		advance, err := checkedUint16("v7 flow_sequence advance", len(chunk))
		if err != nil {
			return nil, err
		}
		seq += uint32(advance)
	}
	return packets, nil
}

func encodeV7Packet(chunk []LegacyRecord, seq uint32, timing V5Timing) ([]byte, error) {
	count, err := checkedUint16("v7 packet record count", len(chunk))
	if err != nil {
		return nil, PacketTooLarge(len(chunk), 0xFFFF)
	}

	size, err := checkedAddInt("v7 packet size", v7HeaderLen, len(chunk)*v7RecordLen)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))

	writeU16(buf, 7)
	writeU16(buf, count)
	writeU32(buf, timing.SysUpTime)
	writeU32(buf, timing.UnixSecs)
	writeU32(buf, timing.UnixNsecs)
	writeU32(buf, seq)
	buf.WriteByte(0) // engine_type
	buf.WriteByte(0) // engine_id
	writeU16(buf, 0) // reserved
	writeU32(buf, 0) // reserved word

	for _, r := range chunk {
		if err := writeV7Record(buf, r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeV7Record(buf *bytes.Buffer, r LegacyRecord) error {
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
	buf.WriteByte(0) // flags (invalidated-field bitmap; unused here)
	buf.WriteByte(r.TCPFlags)
	buf.WriteByte(r.Protocol)
	buf.WriteByte(r.Tos)
	writeU16(buf, r.SrcAS)
	writeU16(buf, r.DstAS)
	buf.WriteByte(r.SrcMask)
	buf.WriteByte(r.DstMask)
	writeU16(buf, uint16(r.Flags2))
	if err := writeIPv4OrZero(buf, r.RouterSrc); err != nil {
		return err
	}
	return nil
}
