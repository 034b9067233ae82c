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
	"bytes"
	"errors"
	"net"
	"testing"
)

func TestEncodeIPv4(t *testing.T) {
	got, err := EncodeIPv4(net.ParseIP("192.168.1.100"), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xC0, 0xA8, 0x01, 0x64}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncodeIPv4WrongWidth(t *testing.T) {
	_, err := EncodeIPv4(net.ParseIP("192.168.1.100"), 6)
	if !errors.Is(err, ErrInvalidFieldLength) {
		t.Fatalf("expected ErrInvalidFieldLength, got %v", err)
	}
}

func TestEncodeUint(t *testing.T) {
	cases := []struct {
		value uint64
		width int
		want  []byte
	}{
		{0x50, 2, []byte{0x00, 0x50}},
		{35000, 4, []byte{0x00, 0x00, 0x88, 0xB8}},
		{6, 1, []byte{0x06}},
	}
	for _, c := range cases {
		got, err := EncodeUint(c.value, c.width)
		if err != nil {
			t.Fatalf("EncodeUint(%d, %d): %v", c.value, c.width, err)
		}
		if !bytes.Equal(got, c.want) {
			t.Errorf("EncodeUint(%d, %d) = %x, want %x", c.value, c.width, got, c.want)
		}
	}
}

func TestEncodeUintOverflow(t *testing.T) {
	_, err := EncodeUint(256, 1)
	if !errors.Is(err, ErrValueExceedsFieldLength) {
		t.Fatalf("expected ErrValueExceedsFieldLength, got %v", err)
	}
}

func TestEncodeBytesPads(t *testing.T) {
	got, err := EncodeBytes([]byte{0x01, 0x02}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x01, 0x02, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncodeBytesRejectsOverlong(t *testing.T) {
	_, err := EncodeBytes([]byte{1, 2, 3}, 2)
	if !errors.Is(err, ErrInvalidFieldLength) {
		t.Fatalf("expected ErrInvalidFieldLength, got %v", err)
	}
}

func TestPadTo4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: 3}
	for in, want := range cases {
		if got := padTo4(in); got != want {
			t.Errorf("padTo4(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestCheckedMulIntOverflow(t *testing.T) {
	_, err := checkedMulInt("test", 1<<62, 4)
	if !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}
