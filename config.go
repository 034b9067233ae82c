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
	"os"

	"gopkg.in/yaml.v3"
)

// Destination is the collector (UDP) or synthetic-frame (PCAP) target.
type Destination struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

// FieldDef declares one named field in a v9/IPFIX template flowset. Data
// record values are carried by Flowset.Records, not by FieldDef.
type FieldDef struct {
	Name   string `yaml:"name"`
	Length uint16 `yaml:"length,omitempty"`
	// Value is accepted in configuration as a raw YAML scalar but is not
	// read by any encoder.
	Value string `yaml:"value,omitempty"`
}

// Flowset is one v9/IPFIX template or data declaration within a flow group.
type Flowset struct {
	Kind       string     `yaml:"kind"` // "template" or "data"
	TemplateID uint16     `yaml:"template_id"`
	Fields     []FieldDef `yaml:"fields,omitempty"`
	Records    []Record   `yaml:"records,omitempty"`
}

// Record is one data-record's worth of named field values.
type Record map[string]string

// LegacyRecord is the fixed-layout record carried by a v5/v7 flow group.
type LegacyRecord struct {
	SrcAddr   string `yaml:"src_addr"`
	DstAddr   string `yaml:"dst_addr"`
	NextHop   string `yaml:"next_hop,omitempty"`
	Input     uint16 `yaml:"input,omitempty"`
	Output    uint16 `yaml:"output,omitempty"`
	DPkts     uint32 `yaml:"d_pkts"`
	DOctets   uint32 `yaml:"d_octets"`
	First     uint32 `yaml:"first,omitempty"`
	Last      uint32 `yaml:"last,omitempty"`
	SrcPort   uint16 `yaml:"src_port"`
	DstPort   uint16 `yaml:"dst_port"`
	TCPFlags  uint8  `yaml:"tcp_flags,omitempty"`
	Protocol  uint8  `yaml:"proto"`
	Tos       uint8  `yaml:"tos,omitempty"`
	SrcAS     uint16 `yaml:"src_as,omitempty"`
	DstAS     uint16 `yaml:"dst_as,omitempty"`
	SrcMask   uint8  `yaml:"src_mask,omitempty"`
	DstMask   uint8  `yaml:"dst_mask,omitempty"`
	Flags2    uint8  `yaml:"flags2,omitempty"`     // v7 only
	RouterSrc string `yaml:"router_src,omitempty"` // v7 only
}

// FlowGroup is one version-tagged sequence of flowsets (v9/IPFIX) or
// records (v5/v7), plus an optional header override.
type FlowGroup struct {
	Version    Version           `yaml:"version"`
	ExporterID uint32            `yaml:"exporter_id,omitempty"`
	Header     map[string]uint64 `yaml:"header,omitempty"`
	Flowsets   []Flowset         `yaml:"flowsets,omitempty"`
	Records    []LegacyRecord    `yaml:"records,omitempty"`
}

// Config is the root of the YAML document consumed from --config.
type Config struct {
	Destination *Destination `yaml:"destination,omitempty"`
	Flows       []FlowGroup  `yaml:"flows"`
}

// LoadConfig parses a YAML configuration document, rejecting unknown keys
// at every level (KnownFields), and validates structural requirements not
// expressible in the struct tags alone.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ConfigurationError("reading %s: %v", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration document from memory.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, ConfigurationError("parsing configuration: %v", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Flows) == 0 {
		return ConfigurationError("flows: at least one flow group is required")
	}
	if c.Destination != nil {
		if net.ParseIP(c.Destination.IP) == nil {
			return ConfigurationError("destination.ip %q is not a valid IPv4 literal", c.Destination.IP)
		}
	}
	for i, group := range c.Flows {
		if group.Version == Unknown {
			return ConfigurationError("flows[%d].version is required", i)
		}
		switch group.Version {
		case V5, V7:
			if len(group.Records) == 0 {
				return ConfigurationError("flows[%d]: %s flow group requires at least one record", i, group.Version)
			}
			for _, r := range group.Records {
				if net.ParseIP(r.SrcAddr) == nil {
					return ConfigurationError("flows[%d]: src_addr %q is not a valid IPv4 literal", i, r.SrcAddr)
				}
				if net.ParseIP(r.DstAddr) == nil {
					return ConfigurationError("flows[%d]: dst_addr %q is not a valid IPv4 literal", i, r.DstAddr)
				}
			}
		case V9, IPFIX:
			if len(group.Flowsets) == 0 {
				return ConfigurationError("flows[%d]: %s flow group requires at least one flowset", i, group.Version)
			}
			for j, fs := range group.Flowsets {
				switch fs.Kind {
				case "template":
					if fs.TemplateID < 256 {
						return ConfigurationError("flows[%d].flowsets[%d]: template_id must be >= 256", i, j)
					}
				case "data":
					if fs.TemplateID < 256 {
						return ConfigurationError("flows[%d].flowsets[%d]: template_id must be >= 256", i, j)
					}
				default:
					return ConfigurationError("flows[%d].flowsets[%d]: unknown kind %q", i, j, fs.Kind)
				}
			}
		}
	}
	return nil
}

// DefaultDestination is used when neither the configuration nor --dest
// supplies a destination.
var DefaultDestination = Destination{IP: "127.0.0.1", Port: 2055}

// ResolveDestination applies the --dest override, if any, over the
// configuration's destination, falling back to DefaultDestination.
func ResolveDestination(cfg *Config, override *Destination) Destination {
	if override != nil {
		return *override
	}
	if cfg.Destination != nil {
		return *cfg.Destination
	}
	return DefaultDestination
}

// SampleConfig is the built-in configuration used when --config is absent.
// It exercises one flow group per supported version.
func SampleConfig() *Config {
	return &Config{
		Flows: []FlowGroup{
			{
				Version: V5,
				Records: []LegacyRecord{
					{
						SrcAddr: "192.168.1.100", DstAddr: "172.217.14.206",
						SrcPort: 52341, DstPort: 443, Protocol: 6,
						DPkts: 150, DOctets: 95000,
					},
				},
			},
			{
				Version:    V9,
				ExporterID: 1,
				Flowsets: []Flowset{
					{
						Kind:       "template",
						TemplateID: 256,
						Fields: []FieldDef{
							{Name: "IPV4_SRC_ADDR", Length: 4},
							{Name: "IPV4_DST_ADDR", Length: 4},
							{Name: "IN_PKTS", Length: 4},
							{Name: "IN_BYTES", Length: 4},
							{Name: "L4_SRC_PORT", Length: 2},
							{Name: "L4_DST_PORT", Length: 2},
							{Name: "PROTOCOL", Length: 1},
						},
					},
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
			},
		},
	}
}
