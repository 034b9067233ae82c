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

func TestTemplateRecordLength(t *testing.T) {
	tmpl := &Template{
		Fields: []FieldSpec{
			{Name: "a", Type: 1, Length: 4},
			{Name: "b", Type: 2, Length: 2},
			{Name: "c", Type: 3, Length: 1},
		},
	}
	if got := tmpl.RecordLength(); got != 7 {
		t.Errorf("RecordLength() = %d, want 7", got)
	}
}

func TestTemplateSameLayout(t *testing.T) {
	a := &Template{Fields: []FieldSpec{{Type: 1, Length: 4}, {Type: 2, Length: 2}}}
	b := &Template{Fields: []FieldSpec{{Type: 1, Length: 4}, {Type: 2, Length: 2}}}
	c := &Template{Fields: []FieldSpec{{Type: 1, Length: 4}, {Type: 2, Length: 1}}}
	d := &Template{Fields: []FieldSpec{{Type: 1, Length: 4}}}

	if !a.sameLayout(b) {
		t.Error("identical layouts should match")
	}
	if a.sameLayout(c) {
		t.Error("differing field length should not match")
	}
	if a.sameLayout(d) {
		t.Error("differing field count should not match")
	}
}

func TestTemplateKeyString(t *testing.T) {
	k := TemplateKey{ExporterID: 1, TemplateID: 256}
	if got := k.String(); got != "1/256" {
		t.Errorf("String() = %q, want 1/256", got)
	}
}
