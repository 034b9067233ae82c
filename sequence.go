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

import "sync"

// SequenceKey identifies one exporter's counter. v5/v7 count flows, v9
// counts packets, IPFIX counts data records — advance_by semantics differ
// per version, but the registry itself is version-agnostic: it just holds
// a counter per (version, exporter_id).
type SequenceKey struct {
	Version    Version
	ExporterID uint32
}

// SequenceRegistry holds per-exporter monotonic counters, mutated only by
// the scheduler's sequential sequence-assignment pass. Counters wrap
// modulo 2^32.
type SequenceRegistry struct {
	mu    sync.Mutex
	state map[SequenceKey]uint32
}

// NewSequenceRegistry returns an empty registry; counters are created
// lazily at zero on first use of a key.
func NewSequenceRegistry() *SequenceRegistry {
	return &SequenceRegistry{state: make(map[SequenceKey]uint32)}
}

// Next returns the current sequence value for key, then advances it by
// advanceBy (mod 2^32).
func (r *SequenceRegistry) Next(key SequenceKey, advanceBy uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.state[key]
	r.state[key] = current + advanceBy
	return current
}

// Reset zeroes every counter.
func (r *SequenceRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = make(map[SequenceKey]uint32)
}
