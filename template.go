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

import "fmt"

// FieldSpec is one (field_type, field_length) pair of a v9/IPFIX template,
// in wire order.
type FieldSpec struct {
	Name   string
	Type   uint16
	Length uint16
}

// TemplateKey identifies a template by the exporter that defines it (v9
// source_id / IPFIX observation_domain_id) and its template id.
type TemplateKey struct {
	ExporterID uint32
	TemplateID uint16
}

func (k TemplateKey) String() string {
	return fmt.Sprintf("%d/%d", k.ExporterID, k.TemplateID)
}

// Template is the canonical, immutable field layout for one
// (exporter, template id). Templates are constructed once at startup by the
// TemplateCache and never mutated afterwards; encoders only read them.
type Template struct {
	Key     TemplateKey
	Version Version
	Fields  []FieldSpec
}

// RecordLength returns the sum of field lengths, i.e. the number of bytes
// one data record adhering to this template occupies on the wire.
func (t *Template) RecordLength() int {
	total := 0
	for _, f := range t.Fields {
		total += int(f.Length)
	}
	return total
}

// sameLayout reports whether two templates declare identical
// (field_type, field_length) tuples in the same order — the collision
// check spec'd for the Template Cache.
func (t *Template) sameLayout(other *Template) bool {
	if len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		o := other.Fields[i]
		if f.Type != o.Type || f.Length != o.Length {
			return false
		}
	}
	return true
}
