package main

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericce/interp/internal/audio"
)

func s16le(vals ...int16) []byte {
	out := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func TestPackPCM24WidensAndDuplicates(t *testing.T) {
	t.Parallel()

	packed := packPCM24(s16le(0x1234), 2)
	require.Equal(t, []byte{0x00, 0x34, 0x12, 0x00, 0x34, 0x12}, packed)
}

func TestPackPCM24RoundTripsThroughDecoder(t *testing.T) {
	t.Parallel()

	packed := packPCM24(s16le(16384, -16384, 0), 2)
	samples := audio.DecodePacked24(packed, 2, audio.ChannelLeft)
	require.Equal(t, []float32{0.5, -0.5, 0}, samples)

	// Both channels carry the same duplicated signal.
	right := audio.DecodePacked24(packed, 2, audio.ChannelRight)
	require.Equal(t, samples, right)
}

func TestPackPCM24DropsDanglingByte(t *testing.T) {
	t.Parallel()

	packed := packPCM24([]byte{0x01}, 1)
	require.Empty(t, packed)
}
