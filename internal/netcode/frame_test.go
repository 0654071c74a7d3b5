package netcode

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func randFrame(r *rand.Rand) Frame {
	var full [EpochSizeFragments]byte
	for i := range full {
		if r.IntN(4) == 0 {
			full[i] = byte(1 + r.IntN(15))
		}
	}
	var frag Fragment
	r.Read(frag[:])
	return Frame{
		Header: FrameHeader{
			Participant:   uint8(r.IntN(MaxParticipants)),
			IsOverflowing: r.IntN(2) == 0,
			Epoch:         uint8(r.IntN(256)),
		},
		Factor:   CompactFactor(full),
		Fragment: frag,
	}
}

func TestFrameEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 200; i++ {
		fr := randFrame(r)
		encoded := fr.Encode()
		require.Len(t, encoded, FrameSizeBytes)
		decoded, err := DecodeFrame(encoded)
		require.NoError(t, err)
		require.Equal(t, fr, decoded)
	}
}

func TestDecodeFrameRejectsWrongSize(t *testing.T) {
	_, err := DecodeFrame(make([]byte, FrameSizeBytes-1))
	require.Error(t, err)
}

func TestExpandRejectsOutOfBoundsRun(t *testing.T) {
	f := FrameFactor{}
	f.Widths[0] = FragmentsPerParticipant
	f.Offsets[0] = 1 // 1+FragmentsPerParticipant overflows the participant's range
	_, err := f.Expand()
	require.ErrorIs(t, err, ErrIllegalFactor)
}

func TestCompactFactorExpandRoundTrip(t *testing.T) {
	var full [EpochSizeFragments]byte
	full[0] = 3
	full[FragmentsPerParticipant+5] = 7
	full[2*FragmentsPerParticipant+FragmentsPerParticipant-1] = 1

	cf := CompactFactor(full)
	got, err := cf.Expand()
	require.NoError(t, err)
	require.Equal(t, full, got)
}
