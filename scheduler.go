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
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// SchedulerState names the Emission Scheduler's state machine positions.
type SchedulerState int

const (
	Idle SchedulerState = iota
	Running
	Draining
	Halted
	Aborted
)

func (s SchedulerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Halted:
		return "halted"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Sink is anything the scheduler can hand a fully-encoded payload to, in
// configured order, during the emit pass.
type Sink interface {
	Send(payload []byte) error
	Close() error
}

// pollQuantum bounds how long the scheduler's sleep blocks before
// rechecking cancellation, per the ≤100ms interruptible-sleep requirement.
const pollQuantum = 100 * time.Millisecond

// maxEncodeWorkers bounds the encoding pass's worker pool.
const maxEncodeWorkers = 8

// Scheduler drives the configured flow groups at a fixed interval,
// computing sequence numbers single-threaded, encoding concurrently, and
// emitting to the sink in configured order.
type Scheduler struct {
	cfg       *Config
	cache     TemplateCache
	seq       *SequenceRegistry
	sink      Sink
	interval  time.Duration
	once      bool
	startedAt time.Time
	log       logr.Logger
	metrics   *Metrics

	mu    sync.Mutex
	state SchedulerState
}

// NewScheduler builds a scheduler. cache must already contain every
// template referenced by cfg's v9/IPFIX flow groups (see
// BuildTemplateCache).
func NewScheduler(cfg *Config, cache TemplateCache, sink Sink, interval time.Duration, once bool, log logr.Logger, metrics *Metrics) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		cache:     cache,
		seq:       NewSequenceRegistry(),
		sink:      sink,
		interval:  interval,
		once:      once,
		startedAt: time.Now(),
		log:       log,
		metrics:   metrics,
		state:     Idle,
	}
}

// State reports the scheduler's current position, safe for concurrent
// reads (e.g. from a health endpoint).
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(state SchedulerState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// packetJob is one flow group tagged with its sequence number(s), ready for
// the (possibly concurrent) encoding pass.
type packetJob struct {
	index    int
	group    FlowGroup
	sequence uint32
	emitTmpl map[uint16]bool
	timing   V5Timing
}

// Run drives iterations until cancellation (ctx.Done()) or, in --once
// mode, after exactly one iteration. It returns nil on clean halt and a
// non-nil error only for a fatal (Aborted) condition. Transmission errors
// are logged and do not abort the run; encoding errors are logged and
// skipped in continuous mode, but in --once mode the first encoding error
// stops the iteration and is returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.setState(Running)
	var iteration uint64

	for {
		select {
		case <-ctx.Done():
			s.setState(Draining)
			s.setState(Halted)
			return nil
		default:
		}

		iteration++
		iterStart := time.Now()
		err := s.runIteration(ctx, iteration)
		if s.metrics != nil {
			s.metrics.IterationDuration.Observe(time.Since(iterStart).Seconds())
		}
		if err != nil {
			s.setState(Aborted)
			return err
		}

		if s.once {
			s.setState(Halted)
			return nil
		}

		if s.sleepInterruptible(ctx) {
			s.setState(Draining)
			s.setState(Halted)
			return nil
		}
	}
}

// sleepInterruptible sleeps for up to s.interval in short polling quanta,
// returning true if ctx was cancelled during the sleep.
func (s *Scheduler) sleepInterruptible(ctx context.Context) bool {
	deadline := time.Now().Add(s.interval)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		quantum := pollQuantum
		if remaining < quantum {
			quantum = remaining
		}
		select {
		case <-ctx.Done():
			return true
		case <-time.After(quantum):
		}
	}
}

func (s *Scheduler) runIteration(ctx context.Context, iteration uint64) error {
	jobs := s.assignSequences(iteration)

	encoded := s.encodeConcurrently(jobs)

	select {
	case <-ctx.Done():
		return nil
	default:
	}

	for _, ep := range encoded {
		if ep.err != nil {
			s.log.Error(ep.err, "encoding failed, skipping flow group", "index", ep.index)
			if s.metrics != nil {
				s.metrics.EncodingErrors.Inc()
			}
			if s.once {
				return ep.err
			}
			continue
		}
		for _, payload := range ep.payloads {
			if err := s.sink.Send(payload); err != nil {
				s.log.Error(err, "transmission failed", "index", ep.index)
				if s.metrics != nil {
					s.metrics.TransmissionErrors.Inc()
				}
				continue
			}
			if s.metrics != nil {
				s.metrics.PacketsSent.Inc()
				s.metrics.BytesSent.Add(float64(len(payload)))
			}
		}
	}
	return nil
}

// assignSequences is the scheduler's sequential pre-pass: walk flow groups
// in configured order, computing and reserving sequence numbers from the
// registry. Must not run concurrently with itself.
func (s *Scheduler) assignSequences(iteration uint64) []packetJob {
	jobs := make([]packetJob, 0, len(s.cfg.Flows))
	timing := V5Timing{
		UnixSecs:  uint32(time.Now().Unix()),
		SysUpTime: sysUpTime(s.startedAt),
	}

	for i, group := range s.cfg.Flows {
		job := packetJob{index: i, group: group, timing: resolveTiming(group, timing)}

		switch group.Version {
		case V5, V7:
			key := SequenceKey{Version: group.Version, ExporterID: group.ExporterID}
			auto := s.seq.Next(key, uint32(len(group.Records)))
			job.sequence = resolveSequence(group, auto)

		case V9:
			key := SequenceKey{Version: V9, ExporterID: group.ExporterID}
			auto := s.seq.Next(key, 1)
			job.sequence = resolveSequence(group, auto)
			job.emitTmpl = s.resolveEmitTemplate(group, iteration)

		case IPFIX:
			key := SequenceKey{Version: IPFIX, ExporterID: group.ExporterID}
			n := 0
			for _, fs := range group.Flowsets {
				if fs.Kind == "data" {
					n += len(fs.Records)
				}
			}
			auto := s.seq.Next(key, uint32(n))
			job.sequence = resolveSequence(group, auto)
			job.emitTmpl = s.resolveEmitTemplate(group, iteration)
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// resolveTiming applies a flow group's header override, if any, over the
// auto-filled timing values (wall-clock seconds since epoch, milliseconds
// since process start). IPFIX has no sys_up_time header field, so only
// unix_secs/export_time is overridable there.
func resolveTiming(group FlowGroup, auto V5Timing) V5Timing {
	timing := auto
	if group.Header == nil {
		return timing
	}
	timeKey := "unix_secs"
	if group.Version == IPFIX {
		timeKey = "export_time"
	}
	if v, ok := group.Header[timeKey]; ok {
		timing.UnixSecs = uint32(v)
	}
	if group.Version != IPFIX {
		if v, ok := group.Header["sys_up_time"]; ok {
			timing.SysUpTime = uint32(v)
		}
	}
	return timing
}

// resolveSequence applies a flow group's header override, if any, over the
// auto-filled Sequence Registry value. v5/v7 name the field flow_sequence;
// v9/IPFIX name it sequence_number.
func resolveSequence(group FlowGroup, auto uint32) uint32 {
	if group.Header == nil {
		return auto
	}
	seqKey := "flow_sequence"
	if group.Version == V9 || group.Version == IPFIX {
		seqKey = "sequence_number"
	}
	if v, ok := group.Header[seqKey]; ok {
		return uint32(v)
	}
	return auto
}

// resolveEmitTemplate asks the TemplateCache, per referenced template id,
// whether it must be placed ahead of its data in this iteration, and marks
// it emitted when so.
func (s *Scheduler) resolveEmitTemplate(group FlowGroup, iteration uint64) map[uint16]bool {
	out := make(map[uint16]bool)
	for _, fs := range group.Flowsets {
		if fs.Kind != "data" {
			continue
		}
		key := TemplateKey{ExporterID: group.ExporterID, TemplateID: fs.TemplateID}
		if s.cache.ShouldEmit(key, iteration) {
			out[fs.TemplateID] = true
			s.cache.MarkEmitted(key, iteration)
		}
	}
	return out
}

type encodedPacket struct {
	index    int
	payloads [][]byte
	err      error
}

// encodeConcurrently runs the encoding pass over jobs with a bounded
// worker pool, then returns results ordered by original index — sequence
// numbers were already fixed in the prior pass, so encoding order doesn't
// affect correctness, only the final re-gather does.
func (s *Scheduler) encodeConcurrently(jobs []packetJob) []encodedPacket {
	results := make([]encodedPacket, len(jobs))
	sem := make(chan struct{}, maxEncodeWorkers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job packetJob) {
			defer wg.Done()
			defer func() { <-sem }()
			payloads, err := s.encodeJob(job)
			results[i] = encodedPacket{index: job.index, payloads: payloads, err: err}
		}(i, job)
	}
	wg.Wait()
	return results
}

func (s *Scheduler) encodeJob(job packetJob) ([][]byte, error) {
	switch job.group.Version {
	case V5:
		return EncodeV5(job.group.Records, job.sequence, job.timing)
	case V7:
		return EncodeV7(job.group.Records, job.sequence, job.timing)
	case V9:
		payload, err := EncodeV9(V9Input{
			ExporterID:   job.group.ExporterID,
			Flowsets:     job.group.Flowsets,
			EmitTemplate: job.emitTmpl,
			Sequence:     job.sequence,
			Timing:       job.timing,
		}, s.cache)
		if err != nil {
			return nil, err
		}
		return [][]byte{payload}, nil
	case IPFIX:
		payload, err := EncodeIPFIX(IPFIXInput{
			ObservationDomainID: job.group.ExporterID,
			Flowsets:            job.group.Flowsets,
			EmitTemplate:        job.emitTmpl,
			Sequence:            job.sequence,
			ExportTime:          job.timing.UnixSecs,
		}, s.cache)
		if err != nil {
			return nil, err
		}
		return [][]byte{payload}, nil
	default:
		return nil, ConfigurationError("flow group %d: unsupported version %s", job.index, job.group.Version)
	}
}
