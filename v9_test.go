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
	"errors"
	"testing"
)

func buildV9Cache(t *testing.T) TemplateCache {
	t.Helper()
	cfg := &Config{
		Flows: []FlowGroup{
			{
				Version:    V9,
				ExporterID: 1,
				Flowsets: []Flowset{
					{Kind: "template", TemplateID: 256, Fields: v9TemplateFields()},
				},
			},
		},
	}
	cache, err := BuildTemplateCache(cfg, 2)
	if err != nil {
		t.Fatalf("BuildTemplateCache: %v", err)
	}
	return cache
}

func TestEncodeV9TemplateAndData(t *testing.T) {
	cache := buildV9Cache(t)

	in := V9Input{
		ExporterID: 1,
		Flowsets: []Flowset{
			{
				Kind:       "data",
				TemplateID: 256,
				Records: []Record{
					{
						"IPV4_SRC_ADDR": "192.168.10.5",
						"IPV4_DST_ADDR": "93.184.216.34",
						"IN_PKTS":       "50",
						"IN_BYTES":      "35000",
						"L4_SRC_PORT":   "48921",
						"L4_DST_PORT":   "80",
						"PROTOCOL":      "6",
					},
				},
			},
		},
		EmitTemplate: map[uint16]bool{256: true},
		Sequence:     0,
	}

	payload, err := EncodeV9(in, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := uint16(payload[2])<<8 | uint16(payload[3])
	if count != 2 {
		t.Fatalf("count = %d, want 2 (1 template record + 1 data record)", count)
	}

	templateFlowsetID := uint16(payload[v9HeaderLen])<<8 | uint16(payload[v9HeaderLen+1])
	if templateFlowsetID != 0 {
		t.Errorf("template flowset id = %d, want 0", templateFlowsetID)
	}

	templateLen := int(uint16(payload[v9HeaderLen+2])<<8 | uint16(payload[v9HeaderLen+3]))
	dataStart := v9HeaderLen + templateLen
	dataFlowsetID := uint16(payload[dataStart])<<8 | uint16(payload[dataStart+1])
	if dataFlowsetID != 256 {
		t.Errorf("data flowset id = %d, want 256", dataFlowsetID)
	}

	recordStart := dataStart + 4
	wantTail := []byte{0xBF, 0x19, 0x00, 0x50, 0x06}
	recLen := 21
	gotTail := payload[recordStart+recLen-5 : recordStart+recLen]
	if !bytes.Equal(gotTail, wantTail) {
		t.Errorf("record tail = % X, want % X", gotTail, wantTail)
	}

	// record is 21 bytes, data flowset padded to 4-byte alignment: 4+21=25 -> pad 3 -> 28.
	dataFlowsetLen := int(uint16(payload[dataStart+2])<<8 | uint16(payload[dataStart+3]))
	if dataFlowsetLen != 28 {
		t.Errorf("data flowset length = %d, want 28", dataFlowsetLen)
	}
}

func TestEncodeV9CountReflectsRecordsNotFlowsets(t *testing.T) {
	cache := buildV9Cache(t)

	rec := Record{
		"IPV4_SRC_ADDR": "192.168.10.5",
		"IPV4_DST_ADDR": "93.184.216.34",
		"IN_PKTS":       "50",
		"IN_BYTES":      "35000",
		"L4_SRC_PORT":   "48921",
		"L4_DST_PORT":   "80",
		"PROTOCOL":      "6",
	}
	in := V9Input{
		ExporterID: 1,
		Flowsets: []Flowset{
			{Kind: "data", TemplateID: 256, Records: []Record{rec, rec, rec}},
		},
		EmitTemplate: map[uint16]bool{256: true},
	}

	payload, err := EncodeV9(in, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := uint16(payload[2])<<8 | uint16(payload[3])
	if count != 4 {
		t.Fatalf("count = %d, want 4 (1 template record + 3 data records), not 2 (flowset count)", count)
	}
}

func TestEncodeV9MissingTemplate(t *testing.T) {
	cache := NewTemplateCache(2)
	in := V9Input{
		ExporterID: 1,
		Flowsets: []Flowset{
			{Kind: "data", TemplateID: 999, Records: []Record{{}}},
		},
	}
	_, err := EncodeV9(in, cache)
	if !errors.Is(err, ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}
}

func TestEncodeV9UnknownField(t *testing.T) {
	cache := buildV9Cache(t)
	in := V9Input{
		ExporterID: 1,
		Flowsets: []Flowset{
			{Kind: "data", TemplateID: 256, Records: []Record{
				{"IPV4_SRC_ADDR": "10.0.0.1"}, // missing the rest of the template's fields
			}},
		},
	}
	_, err := EncodeV9(in, cache)
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
