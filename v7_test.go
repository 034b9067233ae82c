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

import "testing"

func TestEncodeV7SingleFlow(t *testing.T) {
	records := []LegacyRecord{
		{
			SrcAddr: "192.168.1.100", DstAddr: "172.217.14.206", RouterSrc: "10.1.1.1",
			SrcPort: 52341, DstPort: 443, Protocol: 6,
			DPkts: 150, DOctets: 95000, Flags2: 1,
		},
	}
	packets, err := EncodeV7(records, 0, V5Timing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}
	if len(packets[0]) != v7HeaderLen+v7RecordLen {
		t.Fatalf("payload length = %d, want %d", len(packets[0]), v7HeaderLen+v7RecordLen)
	}
	version := uint16(packets[0][0])<<8 | uint16(packets[0][1])
	if version != 7 {
		t.Errorf("version = %d, want 7", version)
	}
}

func TestEncodeV7SplitsOverMaxRecords(t *testing.T) {
	records := make([]LegacyRecord, v7MaxRecords+1)
	for i := range records {
		records[i] = LegacyRecord{SrcAddr: "10.0.0.1", DstAddr: "10.0.0.2", Protocol: 6}
	}
	packets, err := EncodeV7(records, 0, V5Timing{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
}
