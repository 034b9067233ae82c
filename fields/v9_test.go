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

import "testing"

func TestLookupV9KnownFields(t *testing.T) {
	cases := map[string]V9{
		"IN_BYTES":     InBytes,
		"IN_PKTS":      InPkts,
		"IPV4_SRC_ADDR": IPv4SrcAddr,
		"OUT_PKTS":     OutPkts,
	}
	for name, want := range cases {
		got, ok := LookupV9(name)
		if !ok {
			t.Errorf("LookupV9(%q): not found", name)
			continue
		}
		if got != want {
			t.Errorf("LookupV9(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestLookupV9Unknown(t *testing.T) {
	if _, ok := LookupV9("NOT_A_REAL_FIELD"); ok {
		t.Error("expected LookupV9 to fail for an unrecognized name")
	}
}

func TestV9StringRoundTrip(t *testing.T) {
	if got := InBytes.String(); got != "IN_BYTES" {
		t.Errorf("InBytes.String() = %q, want IN_BYTES", got)
	}
}
