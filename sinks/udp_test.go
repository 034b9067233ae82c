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

package sinks

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func TestUDPSinkSendsToConfiguredDestination(t *testing.T) {
	listener, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	defer listener.Close()

	port := listener.LocalAddr().(*net.UDPAddr).Port
	sink, err := NewUDPSink("127.0.0.1", port)
	if err != nil {
		t.Fatalf("NewUDPSink: %v", err)
	}
	defer sink.Close()

	payload := []byte("synthetic-netflow-payload")
	if err := sink.Send(payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1500)
	n, addr, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("ReadFromUDP: %v", err)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Errorf("got %q, want %q", buf[:n], payload)
	}
	if addr.Port != sourcePort {
		t.Errorf("source port = %d, want %d", addr.Port, sourcePort)
	}
}

func TestUDPSinkRejectsOversizedDatagram(t *testing.T) {
	sink, err := NewUDPSink("127.0.0.1", 2055)
	if err != nil {
		t.Fatalf("NewUDPSink: %v", err)
	}
	defer sink.Close()

	oversized := make([]byte, maxUDPPayload+1)
	if err := sink.Send(oversized); err == nil {
		t.Fatal("expected error for oversized datagram")
	}
}
