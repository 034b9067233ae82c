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

/*
Package flowgen synthesizes NetFlow v5, v7, v9 and IPFIX export packets from
a declarative configuration and emits them at a steady cadence, either as
UDP datagrams or into a pcap capture file.

# Overview

flowgen exists to exercise flow collectors, SIEMs and monitoring pipelines
without a live network to generate real traffic. Given a set of configured
flow groups, it builds the template state required by v9/IPFIX ahead of
time, then drives a scheduler that assembles wire-format packets on a fixed
interval and hands them to an output sink.

# Data structures

A Config holds an ordered list of FlowGroups. Each FlowGroup carries a
Version (V5, V7, V9 or IPFIX), optional header field overrides, and an
ordered list of Flowsets. For v9/IPFIX, a Flowset is either a template
declaration (consumed once, at startup, to build the TemplateCache) or a
data declaration referencing a template id, whose Records are rendered
every iteration. A v5/v7 FlowGroup has no Flowsets; it carries its
fixed-layout records directly in Records.

# Template handling

The TemplateCache is built once from configuration and is immutable
thereafter; two template declarations sharing an (exporter, template id)
that disagree on field layout fail construction. At runtime, the cache
also decides, per iteration, whether a template needs to be retransmitted
ahead of its data (RFC 3954 §9 / RFC 7011 §10 template refresh).

# Sequencing

The SequenceRegistry hands out per-(version, exporter) monotonic sequence
numbers. v9 counts packets, IPFIX counts data records, v5/v7 count
exported flow records — see RFC 7011 §3.1 for why IPFIX and v9 diverge
here.
*/
package flowgen
