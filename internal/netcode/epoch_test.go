package netcode

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tpetri/mcgserver/internal/gf16"
)

// combinedFrame builds a frame whose fragment is a random non-zero linear
// combination of the given owner's fragments, restricted to that owner's
// column range (mirrors how a real sender only ever codes across its own
// fragments within an epoch).
func combinedFrame(r *rand.Rand, epoch uint8, participant int, fragments []Fragment) Frame {
	var full [EpochSizeFragments]byte
	var combined Fragment
	base := participant * FragmentsPerParticipant
	for i, frag := range fragments {
		coeff := gf16.RandNonZero(r)
		full[base+i] = coeff
		for b := range combined {
			combined[b] ^= mulByte(coeff, frag[b])
		}
	}
	return Frame{
		Header:   FrameHeader{Participant: uint8(participant), Epoch: epoch},
		Factor:   CompactFactor(full),
		Fragment: combined,
	}
}

func TestEpochRecoversSingleSenderTwoFragments(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 42))
	payload := make([]byte, 1024)
	r.Read(payload)

	pkg, err := NewPackage(payload)
	require.NoError(t, err)
	frags, err := IntoFragments(pkg)
	require.NoError(t, err)
	require.Len(t, frags, 2)

	epoch := NewEpoch(0)
	for i := 0; i < 6; i++ {
		epoch.PushFrame(combinedFrame(r, 0, 0, frags))
	}

	recovered, ok := epoch.ParticipantComplete(0, 2)
	require.True(t, ok)
	require.Equal(t, frags, recovered)

	rebuilt, err := FromFragments(recovered)
	require.NoError(t, err)
	require.Equal(t, payload, rebuilt.Data)
}

func TestEpochRedundantFrameDoesNotChangeRank(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	frags := make([]Fragment, 3)
	for i := range frags {
		r.Read(frags[i][:])
	}

	epoch := NewEpoch(1)
	f1 := combinedFrame(r, 1, 0, frags)
	epoch.PushFrame(f1)
	rankAfterFirst := epoch.Rank()

	epoch.PushFrame(f1) // exact duplicate
	require.Equal(t, rankAfterFirst, epoch.Rank())
}

func TestEpochMultiParticipantRecovery(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))

	var fragsA, fragsB [3]Fragment
	for i := range fragsA {
		r.Read(fragsA[i][:])
		r.Read(fragsB[i][:])
	}

	epoch := NewEpoch(2)
	for i := 0; i < 5; i++ {
		epoch.PushFrame(combinedFrame(r, 2, 0, fragsA[:]))
	}
	for i := 0; i < 5; i++ {
		epoch.PushFrame(combinedFrame(r, 2, 1, fragsB[:]))
	}

	gotA, ok := epoch.ParticipantComplete(0, 3)
	require.True(t, ok)
	require.Equal(t, fragsA[:], gotA)

	gotB, ok := epoch.ParticipantComplete(1, 3)
	require.True(t, ok)
	require.Equal(t, fragsB[:], gotB)

	require.Equal(t, 0, epoch.NeededEquations())
}

func TestEpochPartialProgressBeforeEnoughFrames(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	frags := make([]Fragment, 2)
	for i := range frags {
		r.Read(frags[i][:])
	}
	epoch := NewEpoch(0)
	epoch.PushFrame(combinedFrame(r, 0, 0, frags))
	_, ok := epoch.ParticipantComplete(0, 2)
	require.False(t, ok)
}
