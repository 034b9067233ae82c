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

import "gopkg.in/yaml.v3"

// Version identifies which NetFlow/IPFIX wire format a FlowGroup renders to.
type Version uint8

const (
	Unknown Version = iota
	V5
	V7
	V9
	IPFIX
)

func (v Version) String() string {
	switch v {
	case V5:
		return "v5"
	case V7:
		return "v7"
	case V9:
		return "v9"
	case IPFIX:
		return "ipfix"
	default:
		return "unknown"
	}
}

func (v Version) MarshalText() ([]byte, error) {
	s := v.String()
	if s == "unknown" {
		return nil, ConfigurationError("unknown version tag")
	}
	return []byte(s), nil
}

func (v *Version) UnmarshalText(in []byte) error {
	switch string(in) {
	case "v5":
		*v = V5
	case "v7":
		*v = V7
	case "v9":
		*v = V9
	case "ipfix":
		*v = IPFIX
	default:
		return ConfigurationError("unknown version tag %q", string(in))
	}
	return nil
}

// ParseVersion parses a version tag from configuration, returning
// ConfigurationError for anything not in {v5, v7, v9, ipfix}.
func ParseVersion(s string) (Version, error) {
	var v Version
	if err := v.UnmarshalText([]byte(s)); err != nil {
		return Unknown, err
	}
	return v, nil
}

// UnmarshalYAML implements yaml.Unmarshaler so a flow group's version tag
// can be written as a plain scalar ("v5", "v9", "ipfix", ...) in
// configuration.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return v.UnmarshalText([]byte(s))
}
