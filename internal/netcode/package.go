package netcode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrPackageTooLarge is returned when a payload exceeds ApMaxSizeBytes.
var ErrPackageTooLarge = errors.New("netcode: package too large")

// Package is an application payload destined for fragmentation into frames.
type Package struct {
	Size uint32
	Data []byte
}

// NewPackage wraps data as a Package, validating its size against the
// per-epoch capacity bound.
func NewPackage(data []byte) (Package, error) {
	if len(data) > ApMaxSizeBytes {
		return Package{}, fmt.Errorf("%w: %d bytes exceeds max %d", ErrPackageTooLarge, len(data), ApMaxSizeBytes)
	}
	return Package{Size: uint32(len(data)), Data: data}, nil
}

// IntoFragments splits a Package into fixed-size fragments. The payload
// length is written little-endian into the first ApLengthIndexSizeBytes of
// fragment 0; remaining capacity is filled with payload; the final fragment
// is zero-padded.
func IntoFragments(pkg Package) ([]Fragment, error) {
	if len(pkg.Data) > ApMaxSizeBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds max %d", ErrPackageTooLarge, len(pkg.Data), ApMaxSizeBytes)
	}

	total := ApLengthIndexSizeBytes + len(pkg.Data)
	numFragments := (total + FragmentSizeBytes - 1) / FragmentSizeBytes
	if numFragments == 0 {
		numFragments = 1
	}

	frags := make([]Fragment, numFragments)

	var lenBuf [ApLengthIndexSizeBytes]byte
	binary.LittleEndian.PutUint32(lenBuf[:], pkg.Size)
	copy(frags[0][:ApLengthIndexSizeBytes], lenBuf[:])

	written := 0
	// remaining capacity of fragment 0 after the length header
	firstCap := FragmentSizeBytes - ApLengthIndexSizeBytes
	n := copy(frags[0][ApLengthIndexSizeBytes:], pkg.Data[:min(firstCap, len(pkg.Data))])
	written += n

	for i := 1; i < numFragments; i++ {
		remain := pkg.Data[written:]
		n := copy(frags[i][:], remain[:min(FragmentSizeBytes, len(remain))])
		written += n
	}

	return frags, nil
}

// FromFragments reassembles a Package from fragments produced by
// IntoFragments, in participant-assigned order. Reads the declared length
// from fragment 0 and truncates the concatenated payload to it.
func FromFragments(frags []Fragment) (Package, error) {
	if len(frags) == 0 {
		return Package{}, errors.New("netcode: no fragments to reassemble")
	}
	size := binary.LittleEndian.Uint32(frags[0][:ApLengthIndexSizeBytes])

	data := make([]byte, 0, size)
	data = append(data, frags[0][ApLengthIndexSizeBytes:]...)
	for _, f := range frags[1:] {
		data = append(data, f[:]...)
	}
	if uint32(len(data)) < size {
		return Package{}, fmt.Errorf("netcode: fragments carry %d bytes, declared length is %d", len(data), size)
	}
	data = data[:size]
	return Package{Size: size, Data: data}, nil
}

// NumFragments returns how many fragments a payload of the given length
// would split into.
func NumFragments(payloadLen int) int {
	total := ApLengthIndexSizeBytes + payloadLen
	n := (total + FragmentSizeBytes - 1) / FragmentSizeBytes
	if n == 0 {
		return 1
	}
	return n
}
