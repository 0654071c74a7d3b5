package netcode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tpetri/mcgserver/internal/gf16"
)

// ErrIllegalFactor is returned when a frame's declared (offset, width) runs
// would read or write outside the bounds of one participant's fragment range.
var ErrIllegalFactor = errors.New("netcode: illegal factor run")

// Fragment is a fixed-size opaque payload chunk owned by one participant.
type Fragment [FragmentSizeBytes]byte

// FrameHeader identifies the sender, epoch, and overflow state of a frame.
type FrameHeader struct {
	Participant   uint8
	IsOverflowing bool
	Epoch         uint8
}

func (h FrameHeader) encode() [HeaderSizeBytes]byte {
	var b [HeaderSizeBytes]byte
	b[0] = h.Participant
	if h.IsOverflowing {
		b[1] = 1
	}
	b[2] = h.Epoch
	return b
}

func decodeHeader(b []byte) FrameHeader {
	return FrameHeader{
		Participant:   b[0],
		IsOverflowing: b[1] != 0,
		Epoch:         b[2],
	}
}

// FrameFactor is the coding vector for one frame, expressed compactly as
// one contiguous run of non-zero coefficients per participant.
type FrameFactor struct {
	Widths  [MaxParticipants]uint8
	Offsets [MaxParticipants]uint16
	Coeffs  [CodingFactorsPerFrame / 2]byte // packed nibble pairs
}

// Expand scatters the packed runs into a full length-EpochSizeFragments
// coefficient vector over GF(2^4).
func (f FrameFactor) Expand() ([EpochSizeFragments]byte, error) {
	var out [EpochSizeFragments]byte
	cursor := 0
	for p := 0; p < MaxParticipants; p++ {
		width := int(f.Widths[p])
		if width == 0 {
			continue
		}
		offset := int(f.Offsets[p])
		if offset < 0 || width < 0 || offset+width > FragmentsPerParticipant {
			return out, fmt.Errorf("%w: participant %d offset=%d width=%d", ErrIllegalFactor, p, offset, width)
		}
		base := p * FragmentsPerParticipant
		for i := 0; i < width; i++ {
			nibble := nibbleAt(f.Coeffs[:], cursor)
			out[base+offset+i] = nibble
			cursor++
		}
	}
	return out, nil
}

func nibbleAt(packed []byte, idx int) byte {
	b := packed[idx/2]
	lo, hi := gf16.UnpackNibbles(b)
	if idx%2 == 0 {
		return lo
	}
	return hi
}

func setNibbleAt(packed []byte, idx int, v byte) {
	b := packed[idx/2]
	lo, hi := gf16.UnpackNibbles(b)
	if idx%2 == 0 {
		lo = v
	} else {
		hi = v
	}
	packed[idx/2] = gf16.PackNibbles(lo, hi)
}

// CompactFactor builds a FrameFactor from a full coefficient vector and the
// known fragment-count bound for each participant. Only non-zero runs are
// encoded; offset is the first non-zero index within the participant's
// range and width spans through its last non-zero index.
func CompactFactor(full [EpochSizeFragments]byte) FrameFactor {
	var f FrameFactor
	cursor := 0
	for p := 0; p < MaxParticipants; p++ {
		base := p * FragmentsPerParticipant
		first, last := -1, -1
		for i := 0; i < FragmentsPerParticipant; i++ {
			if full[base+i] != 0 {
				if first == -1 {
					first = i
				}
				last = i
			}
		}
		if first == -1 {
			continue
		}
		width := last - first + 1
		f.Widths[p] = uint8(width)
		f.Offsets[p] = uint16(first)
		for i := 0; i < width; i++ {
			setNibbleAt(f.Coeffs[:], cursor, full[base+first+i])
			cursor++
		}
	}
	return f
}

func (f FrameFactor) encode() []byte {
	out := make([]byte, 0, NetworkCodingSizeBytes)
	out = append(out, f.Widths[:]...)
	for _, o := range f.Offsets {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], o)
		out = append(out, b[:]...)
	}
	out = append(out, f.Coeffs[:]...)
	return out
}

func decodeFactor(b []byte) FrameFactor {
	var f FrameFactor
	copy(f.Widths[:], b[:MaxParticipants])
	off := b[MaxParticipants : MaxParticipants+2*MaxParticipants]
	for i := 0; i < MaxParticipants; i++ {
		f.Offsets[i] = binary.LittleEndian.Uint16(off[i*2 : i*2+2])
	}
	copy(f.Coeffs[:], b[MaxParticipants+2*MaxParticipants:])
	return f
}

// Frame is one network-coded datagram: header + coding vector + fragment.
// One QR image carries exactly one frame.
type Frame struct {
	Header   FrameHeader
	Factor   FrameFactor
	Fragment Fragment
}

// Encode serializes a Frame to its fixed FrameSizeBytes wire layout:
// header || factors || fragment.
func (fr Frame) Encode() []byte {
	out := make([]byte, 0, FrameSizeBytes)
	hdr := fr.Header.encode()
	out = append(out, hdr[:]...)
	out = append(out, fr.Factor.encode()...)
	out = append(out, fr.Fragment[:]...)
	return out
}

// DecodeFrame reverses Encode. Round-trip law: DecodeFrame(Encode(f)) == f
// for every well-formed frame.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) != FrameSizeBytes {
		return Frame{}, fmt.Errorf("netcode: frame must be %d bytes, got %d", FrameSizeBytes, len(b))
	}
	var fr Frame
	fr.Header = decodeHeader(b[:HeaderSizeBytes])
	factorBytes := b[HeaderSizeBytes : HeaderSizeBytes+NetworkCodingSizeBytes]
	fr.Factor = decodeFactor(factorBytes)
	copy(fr.Fragment[:], b[HeaderSizeBytes+NetworkCodingSizeBytes:])
	return fr, nil
}
