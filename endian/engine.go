// Package endian provides byte order utilities for POD encoding and decoding.
//
// POD buffers are exchanged between components on the same host, so the
// builder and parser default to the host byte order. A fixed order can be
// selected when buffers are written to files or sent to a peer with a
// different architecture.
//
// # Basic Usage
//
//	engine := endian.GetNativeEngine()
//	b := builder.New(buf, builder.WithByteOrder(engine))
//
// For interoperability with a known peer order:
//
//	engine := endian.GetLittleEndianEngine()
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEngine returns the engine matching the host byte order.
func GetNativeEngine() EndianEngine {
	if IsNativeBigEndian() {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// ParseEngine maps "native", "little" or "big" to an engine.
// An empty name selects the native engine.
func ParseEngine(name string) (EndianEngine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native", "host":
		return GetNativeEngine(), nil
	case "little", "le", "little-endian":
		return GetLittleEndianEngine(), nil
	case "big", "be", "big-endian":
		return GetBigEndianEngine(), nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}
