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

// Package fields holds the enumerated NetFlow v9 field types and IPFIX
// information elements this exporter knows how to render, keyed by the
// name operators use in YAML configuration.
package fields

// V9 is a NetFlow v9 field type id, as registered by Cisco.
type V9 uint16

// NetFlow v9 field type ids, restricted to the subset this exporter renders.
const (
	InBytes        V9 = 1
	InPkts         V9 = 2
	Flows          V9 = 3
	Protocol       V9 = 4
	SrcTos         V9 = 5
	TCPFlags       V9 = 6
	L4SrcPort      V9 = 7
	IPv4SrcAddr    V9 = 8
	SrcMask        V9 = 9
	InputSNMP      V9 = 10
	L4DstPort      V9 = 11
	IPv4DstAddr    V9 = 12
	DstMask        V9 = 13
	OutputSNMP     V9 = 14
	IPv4NextHop    V9 = 15
	SrcAS          V9 = 16
	DstAS          V9 = 17
	BGPIPv4NextHop V9 = 18
	LastSwitched   V9 = 21
	FirstSwitched  V9 = 22
	OutBytes       V9 = 23
	OutPkts        V9 = 24
)

var v9ByName = map[string]V9{
	"IN_BYTES":          InBytes,
	"IN_PKTS":           InPkts,
	"FLOWS":             Flows,
	"PROTOCOL":          Protocol,
	"SRC_TOS":           SrcTos,
	"TCP_FLAGS":         TCPFlags,
	"L4_SRC_PORT":       L4SrcPort,
	"IPV4_SRC_ADDR":     IPv4SrcAddr,
	"SRC_MASK":          SrcMask,
	"INPUT_SNMP":        InputSNMP,
	"L4_DST_PORT":       L4DstPort,
	"IPV4_DST_ADDR":     IPv4DstAddr,
	"DST_MASK":          DstMask,
	"OUTPUT_SNMP":       OutputSNMP,
	"IPV4_NEXT_HOP":     IPv4NextHop,
	"SRC_AS":            SrcAS,
	"DST_AS":            DstAS,
	"BGP_IPV4_NEXT_HOP": BGPIPv4NextHop,
	"LAST_SWITCHED":     LastSwitched,
	"FIRST_SWITCHED":    FirstSwitched,
	"OUT_BYTES":         OutBytes,
	"OUT_PKTS":          OutPkts,
}

var v9Names = func() map[V9]string {
	m := make(map[V9]string, len(v9ByName))
	for name, id := range v9ByName {
		m[id] = name
	}
	return m
}()

// LookupV9 resolves a NetFlow v9 field name, as it appears in YAML
// configuration, to its registered field type id.
func LookupV9(name string) (V9, bool) {
	id, ok := v9ByName[name]
	return id, ok
}

func (f V9) String() string {
	if name, ok := v9Names[f]; ok {
		return name
	}
	return "UNKNOWN"
}
