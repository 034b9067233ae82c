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
	"sync"
)

// TemplateCache stores the templates built from configuration at startup
// and decides, per iteration, whether a given template needs to be
// retransmitted ahead of its data.
//
// Caches are built once and are safe for concurrent read access from the
// scheduler's encoding pass; ShouldEmit/MarkEmitted are invoked only from
// the scheduler's sequential sequence-assignment pass.
type TemplateCache interface {
	// Get returns the canonical template for key, or MissingTemplate.
	Get(key TemplateKey) (*Template, error)

	// ShouldEmit reports whether the template at key must be (re-)sent in
	// the given iteration, per the emission policy in §4.C: always for
	// iterations 1-3, then whenever 30 seconds have elapsed (at the
	// configured interval) since it was last marked emitted.
	ShouldEmit(key TemplateKey, iteration uint64) bool

	// MarkEmitted records that the template at key was placed on the wire
	// during the given iteration.
	MarkEmitted(key TemplateKey, iteration uint64)

	// All returns every template currently in the cache, keyed by
	// TemplateKey. The returned map must not be mutated by callers.
	All() map[TemplateKey]*Template
}

// ephemeralTemplateCache is the only TemplateCache implementation this
// exporter needs: templates are immutable after Build, so a plain
// RWMutex-guarded map (as the teacher library's EphemeralCache uses for its
// decode-side cache) is sufficient — there is no persistence or expiry
// requirement for a process that rebuilds its templates from configuration
// on every start.
type ephemeralTemplateCache struct {
	mu              sync.RWMutex
	templates       map[TemplateKey]*Template
	lastEmitted     map[TemplateKey]uint64
	intervalSeconds float64
}

var _ TemplateCache = (*ephemeralTemplateCache)(nil)

// NewTemplateCache creates an empty cache that applies the emission policy
// using intervalSeconds as the scheduler's configured iteration interval.
func NewTemplateCache(intervalSeconds float64) *ephemeralTemplateCache {
	return &ephemeralTemplateCache{
		templates:       make(map[TemplateKey]*Template),
		lastEmitted:     make(map[TemplateKey]uint64),
		intervalSeconds: intervalSeconds,
	}
}

func (c *ephemeralTemplateCache) add(key TemplateKey, t *Template) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.templates[key]; ok {
		if !existing.sameLayout(t) {
			return TemplateCollision(key.ExporterID, key.TemplateID)
		}
		return nil
	}
	c.templates[key] = t
	return nil
}

func (c *ephemeralTemplateCache) Get(key TemplateKey) (*Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.templates[key]
	if !ok {
		return nil, MissingTemplate(key.ExporterID, key.TemplateID)
	}
	return t, nil
}

func (c *ephemeralTemplateCache) ShouldEmit(key TemplateKey, iteration uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if iteration <= 3 {
		return true
	}
	last, ok := c.lastEmitted[key]
	if !ok {
		return true
	}
	elapsed := float64(iteration-last) * c.intervalSeconds
	return elapsed >= 30
}

func (c *ephemeralTemplateCache) MarkEmitted(key TemplateKey, iteration uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastEmitted[key] = iteration
}

func (c *ephemeralTemplateCache) All() map[TemplateKey]*Template {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[TemplateKey]*Template, len(c.templates))
	for k, v := range c.templates {
		out[k] = v
	}
	return out
}

// BuildTemplateCache constructs the set of templates declared across all
// flow groups in cfg. It is the one place template collisions (§4.C) are
// detected; a mismatch between two declarations sharing an
// (exporter, template id) aborts startup with TemplateCollision.
func BuildTemplateCache(cfg *Config, intervalSeconds float64) (TemplateCache, error) {
	cache := NewTemplateCache(intervalSeconds)

	for _, group := range cfg.Flows {
		if group.Version != V9 && group.Version != IPFIX {
			continue
		}
		exporterID := group.ExporterID
		for _, fs := range group.Flowsets {
			if fs.Kind != "template" {
				continue
			}
			fields, err := resolveTemplateFields(group.Version, fs.Fields)
			if err != nil {
				return nil, err
			}
			if len(fields) == 0 {
				return nil, ConfigurationError("template %d for exporter %d has zero fields", fs.TemplateID, exporterID)
			}
			key := TemplateKey{ExporterID: exporterID, TemplateID: fs.TemplateID}
			t := &Template{Key: key, Version: group.Version, Fields: fields}
			if err := cache.add(key, t); err != nil {
				return nil, err
			}
		}
	}
	return cache, nil
}

// resolveTemplateFields translates the YAML field declarations of a
// template flowset (name + length) into wire (field_type, field_length)
// tuples, using the version-appropriate name table in package fields.
func resolveTemplateFields(version Version, defs []FieldDef) ([]FieldSpec, error) {
	specs := make([]FieldSpec, 0, len(defs))
	for _, d := range defs {
		id, err := lookupFieldID(version, d.Name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, FieldSpec{Name: d.Name, Type: id, Length: d.Length})
	}
	return specs, nil
}
