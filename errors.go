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
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these to classify a failure into
// one of the four kinds spec'd for this system: configuration, template,
// encoding, transmission.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTemplate      = errors.New("template error")
	ErrEncoding      = errors.New("encoding error")
	ErrTransmission  = errors.New("transmission error")

	ErrInvalidFieldLength      = fmt.Errorf("%w: invalid field length", ErrEncoding)
	ErrValueExceedsFieldLength = fmt.Errorf("%w: value exceeds field length", ErrEncoding)
	ErrArithmeticOverflow      = fmt.Errorf("%w: arithmetic overflow", ErrEncoding)
	ErrPacketTooLarge          = fmt.Errorf("%w: packet too large", ErrEncoding)
	ErrUnknownField            = fmt.Errorf("%w: unknown field", ErrEncoding)
	ErrMissingTemplate         = fmt.Errorf("%w: missing template", ErrTemplate)
)

// ConfigurationError wraps a malformed-configuration cause: bad YAML, an
// unknown field name, a missing required key, an invalid IPv4 literal, or
// an unknown version tag.
func ConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}

// TemplateCollision reports two template definitions for the same
// (exporter, template id) whose field layouts disagree.
func TemplateCollision(exporterID uint32, templateID uint16) error {
	return fmt.Errorf("%w: template collision for exporter %d, template %d", ErrTemplate, exporterID, templateID)
}

// MissingTemplate reports a data flowset referencing an undefined template.
func MissingTemplate(exporterID uint32, templateID uint16) error {
	return fmt.Errorf("%w for exporter %d, template %d", ErrMissingTemplate, exporterID, templateID)
}

// UnknownField reports a data record field name not present in a template,
// a template field that a data record omits, or a name not recognized by
// the field tables in package fields.
func UnknownField(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownField, name)
}

// InvalidFieldLength reports a value whose natural encoding cannot be
// produced at the requested width (e.g. an IPv4 address into anything but
// 4 bytes).
func InvalidFieldLength(got, want int) error {
	return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidFieldLength, got, want)
}

// ValueExceedsFieldLength reports an unsigned integer that does not fit in
// the requested number of bytes without truncation.
func ValueExceedsFieldLength(value uint64, width int) error {
	return fmt.Errorf("%w: %d does not fit in %d bytes", ErrValueExceedsFieldLength, value, width)
}

// ArithmeticOverflow reports a checked size computation (packet length,
// record count, padding) that would overflow, with a short description of
// where it happened.
func ArithmeticOverflow(context string) error {
	return fmt.Errorf("%w: %s", ErrArithmeticOverflow, context)
}

// PacketTooLarge reports an encoded packet or UDP datagram exceeding the
// relevant protocol limit.
func PacketTooLarge(size, limit int) error {
	return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPacketTooLarge, size, limit)
}
