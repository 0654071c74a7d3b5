// Package netcode implements the QR-coded network-coding frame format: the
// fixed-layout frame codec, the fragment/package splitter, and the epoch
// decoder that recovers fragments via Gauss-Jordan elimination over GF(2^4).
package netcode

// Wire and epoch size constants. These mirror the original implementation's
// compile-time configuration (native_mcg/crates/qr_comm).
const (
	// MaxParticipants bounds the number of distinct senders an epoch tracks.
	MaxParticipants = 16

	// EpochSizeFragments is the total column count of the epoch matrix:
	// MaxParticipants * FragmentsPerParticipant.
	EpochSizeFragments = 688

	// FragmentsPerParticipant is how many fragments each participant may
	// contribute within one epoch.
	FragmentsPerParticipant = EpochSizeFragments / MaxParticipants

	// FragmentSizeBytes is the fixed payload size of one fragment.
	FragmentSizeBytes = 676

	// HeaderSizeBytes is the fixed size of a FrameHeader on the wire.
	HeaderSizeBytes = 3

	// CodingFactorsPerFrame is how many GF(2^4) coefficients are packed into
	// one frame's factor section (one per epoch column).
	CodingFactorsPerFrame = EpochSizeFragments

	// NetworkCodingSizeBytes is the serialized size of a FrameFactor:
	// widths (P bytes) + offsets (2P bytes) + packed coefficients (K/2 bytes).
	NetworkCodingSizeBytes = MaxParticipants + 2*MaxParticipants + CodingFactorsPerFrame/2

	// FrameSizeBytes is the total wire size of one frame.
	FrameSizeBytes = HeaderSizeBytes + NetworkCodingSizeBytes + FragmentSizeBytes

	// ApLengthIndexSizeBytes is how many bytes of fragment 0 carry the
	// little-endian package length.
	ApLengthIndexSizeBytes = 4

	// ApMaxSizeBytes bounds a Package's payload so it still fits within one
	// epoch's total fragment capacity once the length header is subtracted.
	ApMaxSizeBytes = EpochSizeFragments*FragmentSizeBytes - ApLengthIndexSizeBytes

	// QR rendering parameters the encoder side would need; not used for
	// decoding but retained as documentation of the wire contract.
	QRCodeVersion = 26
	QRCodeECC     = "L"
)
