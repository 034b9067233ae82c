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

func TestLookupIEKnownFields(t *testing.T) {
	cases := map[string]IE{
		"octetDeltaCount":    OctetDeltaCount,
		"sourceIPv4Address":  SourceIPv4Address,
		"flowStartSysUpTime": FlowStartSysUpTime,
	}
	for name, want := range cases {
		got, ok := LookupIE(name)
		if !ok {
			t.Errorf("LookupIE(%q): not found", name)
			continue
		}
		if got != want {
			t.Errorf("LookupIE(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestLookupIEUnknown(t *testing.T) {
	if _, ok := LookupIE("notARealElement"); ok {
		t.Error("expected LookupIE to fail for an unrecognized name")
	}
}

func TestIEStringRoundTrip(t *testing.T) {
	if got := OctetDeltaCount.String(); got != "octetDeltaCount" {
		t.Errorf("OctetDeltaCount.String() = %q, want octetDeltaCount", got)
	}
}
