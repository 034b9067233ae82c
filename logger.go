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

	"github.com/go-logr/logr"
)

// delegatingLogSink forwards Enabled/Info/Error/Init calls to its current
// backend, so that package-level code can hold Log before the caller has
// decided on a backend (e.g. before CLI flags have been parsed). Until
// SetLogger installs a concrete backend, the backend is a discard sink:
// calls made before then are dropped, not buffered. Loggers derived with
// WithName/WithValues are bound to the backend current at that moment.
type delegatingLogSink struct {
	mu      sync.RWMutex
	backend logr.LogSink
}

var root = &delegatingLogSink{backend: logr.Discard().GetSink()}

// Log is the package's logger handle. Components take it (or a named
// sub-logger derived from it via WithName) rather than constructing their
// own.
var Log = logr.New(root)

// SetLogger installs the concrete backend (e.g. a zapr logger) that Log
// delegates to from this point on. Safe to call once at process startup.
func SetLogger(l logr.Logger) {
	root.mu.Lock()
	defer root.mu.Unlock()
	root.backend = l.GetSink()
}

func (d *delegatingLogSink) current() logr.LogSink {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.backend
}

func (d *delegatingLogSink) Init(info logr.RuntimeInfo) {
	d.current().Init(info)
}

func (d *delegatingLogSink) Enabled(level int) bool {
	return d.current().Enabled(level)
}

func (d *delegatingLogSink) Info(level int, msg string, keysAndValues ...any) {
	d.current().Info(level, msg, keysAndValues...)
}

func (d *delegatingLogSink) Error(err error, msg string, keysAndValues ...any) {
	d.current().Error(err, msg, keysAndValues...)
}

func (d *delegatingLogSink) WithValues(keysAndValues ...any) logr.LogSink {
	return d.current().WithValues(keysAndValues...)
}

func (d *delegatingLogSink) WithName(name string) logr.LogSink {
	return d.current().WithName(name)
}

var _ logr.LogSink = (*delegatingLogSink)(nil)
