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

import "github.com/netsynth/flowgen/fields"

// lookupFieldID resolves a field name from YAML configuration to its wire
// field type id, using the name table for the given version. Names are
// matched verbatim, as declared in configuration; there is no alias table
// between NetFlow v9's SCREAMING_SNAKE_CASE and IPFIX's camelCase.
func lookupFieldID(version Version, name string) (uint16, error) {
	switch version {
	case V9:
		id, ok := fields.LookupV9(name)
		if !ok {
			return 0, UnknownField(name)
		}
		return uint16(id), nil
	case IPFIX:
		id, ok := fields.LookupIE(name)
		if !ok {
			return 0, UnknownField(name)
		}
		return uint16(id), nil
	default:
		return 0, ConfigurationError("version %s does not use named templates", version)
	}
}
