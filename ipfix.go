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

import "bytes"

const ipfixHeaderLen = 16

// IPFIXInput mirrors V9Input for the IPFIX encoder. Sequence is the
// message's sequence_number, which (per RFC 7011 §3.1) counts prior data
// records, not prior messages — the scheduler computes the advance amount
// from the total data records this message carries, not from 1.
type IPFIXInput struct {
	ObservationDomainID uint32
	Flowsets            []Flowset
	EmitTemplate        map[uint16]bool
	Sequence            uint32
	ExportTime          uint32
}

// DataRecordCount returns the total number of data records across in's
// data flowsets — the quantity the Sequence Registry must advance by for
// this message, per RFC 7011 semantics.
func (in IPFIXInput) DataRecordCount() int {
	n := 0
	for _, fs := range in.Flowsets {
		if fs.Kind == "data" {
			n += len(fs.Records)
		}
	}
	return n
}

// EncodeIPFIX renders a single IPFIX message for in.
func EncodeIPFIX(in IPFIXInput, cache TemplateCache) ([]byte, error) {
	var setBufs [][]byte

	for _, fs := range in.Flowsets {
		switch fs.Kind {
		case "template":
			// Template-kind flowsets only seed the TemplateCache at
			// startup; wire emission is decided by EmitTemplate below.

		case "data":
			key := TemplateKey{ExporterID: in.ObservationDomainID, TemplateID: fs.TemplateID}
			tmpl, err := cache.Get(key)
			if err != nil {
				return nil, err
			}
			if in.EmitTemplate != nil && in.EmitTemplate[fs.TemplateID] {
				tbuf, err := encodeIPFIXTemplateSet(tmpl)
				if err != nil {
					return nil, err
				}
				setBufs = append(setBufs, tbuf)
			}
			dbuf, err := encodeIPFIXDataSet(tmpl, fs.Records)
			if err != nil {
				return nil, err
			}
			setBufs = append(setBufs, dbuf)
		}
	}

	total := ipfixHeaderLen
	var err error
	for _, b := range setBufs {
		total, err = checkedAddInt("ipfix message size", total, len(b))
		if err != nil {
			return nil, err
		}
	}
	lengthU16, err := checkedUint16("ipfix message length", total)
	if err != nil {
		return nil, PacketTooLarge(total, 0xFFFF)
	}

	buf := bytes.NewBuffer(make([]byte, 0, total))
	writeU16(buf, 10)
	writeU16(buf, lengthU16)
	writeU32(buf, in.ExportTime)
	writeU32(buf, in.Sequence)
	writeU32(buf, in.ObservationDomainID)
	for _, b := range setBufs {
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func encodeIPFIXTemplateSet(t *Template) ([]byte, error) {
	fieldCount, err := checkedUint16("ipfix template field count", len(t.Fields))
	if err != nil {
		return nil, err
	}
	bodyLen, err := checkedMulInt("ipfix template body size", len(t.Fields), 4)
	if err != nil {
		return nil, err
	}
	headerLen := 8 // set_id(2) + length(2) + template_id(2) + field_count(2)
	length, err := checkedAddInt("ipfix template set length", headerLen, bodyLen)
	if err != nil {
		return nil, err
	}
	pad := padTo4(length)
	total := length + pad

	buf := bytes.NewBuffer(make([]byte, 0, total))
	lengthU16, err := checkedUint16("ipfix template set length", total)
	if err != nil {
		return nil, err
	}
	writeU16(buf, 2) // set_id=2 marks a template set
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

func encodeIPFIXDataSet(t *Template, records []Record) ([]byte, error) {
	recLen := t.RecordLength()
	bodyLen, err := checkedMulInt("ipfix data body size", recLen, len(records))
	if err != nil {
		return nil, err
	}
	headerLen := 4 // set_id(2) + length(2)
	length, err := checkedAddInt("ipfix data set length", headerLen, bodyLen)
	if err != nil {
		return nil, err
	}
	pad := padTo4(length)
	total := length + pad

	buf := bytes.NewBuffer(make([]byte, 0, total))
	lengthU16, err := checkedUint16("ipfix data set length", total)
	if err != nil {
		return nil, err
	}
	writeU16(buf, t.Key.TemplateID) // set_id == template_id
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
