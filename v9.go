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
	"strconv"
)

const v9HeaderLen = 20

// V9Input is everything EncodeV9 needs for one flow group's packet: the
// flowsets in configured order, which templates to emit this iteration,
// and the header values. Templates themselves are looked up from the
// TemplateCache passed to EncodeV9.
type V9Input struct {
	ExporterID uint32
	Flowsets   []Flowset
	// EmitTemplate reports, per template id, whether that template's
	// definition flowset must be placed in this packet. Populated by the
	// scheduler from TemplateCache.ShouldEmit.
	EmitTemplate map[uint16]bool
	Sequence     uint32
	Timing       V5Timing
}

// EncodeV9 renders a single v9 packet for in. A template flowset is placed
// ahead of its data flowset only when EmitTemplate says so for that
// template id; configuration's own "template"-kind flowsets only seed the
// TemplateCache and are never themselves encoded here.
func EncodeV9(in V9Input, cache TemplateCache) ([]byte, error) {
	var flowsetBufs [][]byte
	recordCount := 0

	for _, fs := range in.Flowsets {
		switch fs.Kind {
		case "template":
			// Template-kind flowsets only seed the TemplateCache at
			// startup (see BuildTemplateCache); whether a template
			// actually goes on the wire this iteration is decided
			// entirely by EmitTemplate below, ahead of its data.

		case "data":
			key := TemplateKey{ExporterID: in.ExporterID, TemplateID: fs.TemplateID}
			tmpl, err := cache.Get(key)
			if err != nil {
				return nil, err
			}
			if in.EmitTemplate != nil && in.EmitTemplate[fs.TemplateID] {
				tbuf, err := encodeV9TemplateFlowset(tmpl)
				if err != nil {
					return nil, err
				}
				flowsetBufs = append(flowsetBufs, tbuf)
				recordCount++ // one template definition record
			}
			dbuf, err := encodeV9DataFlowset(tmpl, fs.Records)
			if err != nil {
				return nil, err
			}
			flowsetBufs = append(flowsetBufs, dbuf)
			recordCount += len(fs.Records)
		}
	}

	// count is the total number of flowset records (template definitions
	// plus data records) in the packet, not the number of flowsets.
	count, err := checkedUint16("v9 record count", recordCount)
	if err != nil {
		return nil, PacketTooLarge(recordCount, 0xFFFF)
	}

	total := v9HeaderLen
	for _, b := range flowsetBufs {
		total, err = checkedAddInt("v9 packet size", total, len(b))
		if err != nil {
			return nil, err
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, total))
	writeU16(buf, 9)
	writeU16(buf, count)
	writeU32(buf, in.Timing.SysUpTime)
	writeU32(buf, in.Timing.UnixSecs)
	writeU32(buf, in.Sequence)
	writeU32(buf, in.ExporterID)
	for _, b := range flowsetBufs {
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func encodeV9TemplateFlowset(t *Template) ([]byte, error) {
	fieldCount, err := checkedUint16("v9 template field count", len(t.Fields))
	if err != nil {
		return nil, err
	}

	bodyLen, err := checkedMulInt("v9 template body size", len(t.Fields), 4)
	if err != nil {
		return nil, err
	}
	// flowset_id(2) + length(2) + template_id(2) + field_count(2) + fields
	headerLen := 8
	length, err := checkedAddInt("v9 template flowset length", headerLen, bodyLen)
	if err != nil {
		return nil, err
	}
	pad := padTo4(length)
	total := length + pad

	buf := bytes.NewBuffer(make([]byte, 0, total))
	lengthU16, err := checkedUint16("v9 template flowset length", total)
	if err != nil {
		return nil, err
	}
	writeU16(buf, 0) // flowset_id=0 marks a template flowset
	writeU16(buf, lengthU16)
	writeU16(buf, t.Key.TemplateID)
	writeU16(buf, fieldCount)
	for _, f := range t.Fields {
		writeU16(buf, f.Type)
		writeU16(buf, f.Length)
	}
	for i := 0; i < pad; i++ {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

func encodeV9DataFlowset(t *Template, records []Record) ([]byte, error) {
	recLen := t.RecordLength()
	bodyLen, err := checkedMulInt("v9 data body size", recLen, len(records))
	if err != nil {
		return nil, err
	}
	headerLen := 4 // flowset_id(2) + length(2)
	length, err := checkedAddInt("v9 data flowset length", headerLen, bodyLen)
	if err != nil {
		return nil, err
	}
	pad := padTo4(length)
	total := length + pad

	buf := bytes.NewBuffer(make([]byte, 0, total))
	lengthU16, err := checkedUint16("v9 data flowset length", total)
	if err != nil {
		return nil, err
	}
	writeU16(buf, t.Key.TemplateID)
	writeU16(buf, lengthU16)
	for _, rec := range records {
		if err := writeFieldRecord(buf, t.Fields, rec); err != nil {
			return nil, err
		}
	}
	for i := 0; i < pad; i++ {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

// writeFieldRecord encodes one data record against a template's field
// layout, looking up each declared field's configured value by name. A
// record name the template does not declare, or a template field the
// record omits, is UnknownField.
func writeFieldRecord(buf *bytes.Buffer, fields []FieldSpec, rec Record) error {
	for name := range rec {
		known := false
		for _, f := range fields {
			if f.Name == name {
				known = true
				break
			}
		}
		if !known {
			return UnknownField(name)
		}
	}
	for _, f := range fields {
		raw, ok := rec[f.Name]
		if !ok {
			return UnknownField(f.Name)
		}
		encoded, err := encodeFieldValue(f.Name, raw, int(f.Length))
		if err != nil {
			return err
		}
		buf.Write(encoded)
	}
	return nil
}

// encodeFieldValue interprets a configured string value according to the
// target width: an IPv4 literal for 4-byte address-shaped fields, else a
// decimal unsigned integer.
func encodeFieldValue(name, raw string, width int) ([]byte, error) {
	if ip := net.ParseIP(raw); ip != nil && ip.To4() != nil && width == 4 {
		return EncodeIPv4(ip, width)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, ConfigurationError("field %s: value %q is neither an IPv4 literal nor an integer", name, raw)
	}
	return EncodeUint(v, width)
}
