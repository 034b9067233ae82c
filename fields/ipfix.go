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

package fields

// IE is an IPFIX information element id, as registered by IANA in the
// standard (non-enterprise) information element registry.
type IE uint16

// IPFIX information elements, restricted to the subset this exporter renders.
const (
	OctetDeltaCount          IE = 1
	PacketDeltaCount         IE = 2
	DeltaFlowCount           IE = 3
	ProtocolIdentifier       IE = 4
	IPClassOfService         IE = 5
	TCPControlBits           IE = 6
	SourceTransportPort      IE = 7
	SourceIPv4Address        IE = 8
	SourceIPv4PrefixLength   IE = 9
	IngressInterface         IE = 10
	DestinationTransportPort IE = 11
	DestinationIPv4Address   IE = 12
	DestinationIPv4PrefixLen IE = 13
	EgressInterface          IE = 14
	IPNextHopIPv4Address     IE = 15
	BGPSourceAsNumber        IE = 16
	BGPDestinationAsNumber   IE = 17
	BGPNextHopIPv4Address    IE = 18
	FlowEndSysUpTime         IE = 21
	FlowStartSysUpTime       IE = 22
)

var ieByName = map[string]IE{
	"octetDeltaCount":             OctetDeltaCount,
	"packetDeltaCount":            PacketDeltaCount,
	"deltaFlowCount":              DeltaFlowCount,
	"protocolIdentifier":          ProtocolIdentifier,
	"ipClassOfService":            IPClassOfService,
	"tcpControlBits":              TCPControlBits,
	"sourceTransportPort":         SourceTransportPort,
	"sourceIPv4Address":           SourceIPv4Address,
	"sourceIPv4PrefixLength":      SourceIPv4PrefixLength,
	"ingressInterface":            IngressInterface,
	"destinationTransportPort":    DestinationTransportPort,
	"destinationIPv4Address":      DestinationIPv4Address,
	"destinationIPv4PrefixLength": DestinationIPv4PrefixLen,
	"egressInterface":             EgressInterface,
	"ipNextHopIPv4Address":        IPNextHopIPv4Address,
	"bgpSourceAsNumber":           BGPSourceAsNumber,
	"bgpDestinationAsNumber":      BGPDestinationAsNumber,
	"bgpNextHopIPv4Address":       BGPNextHopIPv4Address,
	"flowEndSysUpTime":            FlowEndSysUpTime,
	"flowStartSysUpTime":          FlowStartSysUpTime,
}

var ieNames = func() map[IE]string {
	m := make(map[IE]string, len(ieByName))
	for name, id := range ieByName {
		m[id] = name
	}
	return m
}()

// LookupIE resolves an IPFIX information element name, as it appears in
// YAML configuration, to its registered element id.
func LookupIE(name string) (IE, bool) {
	id, ok := ieByName[name]
	return id, ok
}

func (e IE) String() string {
	if name, ok := ieNames[e]; ok {
		return name
	}
	return "unknown"
}
