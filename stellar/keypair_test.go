package stellar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomKeypairFormat(t *testing.T) {
	keypair, err := RandomKeypair()
	require.NoError(t, err)

	// Stellar account ids are 56-char base32 strings starting with G;
	// seeds start with S.
	assert.Len(t, keypair.Address, 56)
	assert.True(t, strings.HasPrefix(keypair.Address, "G"), "address %q", keypair.Address)
	assert.Len(t, keypair.Seed, 56)
	assert.True(t, strings.HasPrefix(keypair.Seed, "S"), "seed %q", keypair.Seed)
}

func TestRandomKeypairUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		keypair, err := RandomKeypair()
		require.NoError(t, err)
		assert.False(t, seen[keypair.Address])
		seen[keypair.Address] = true
	}
}

func TestStrkeyChecksum(t *testing.T) {
	keypair, err := RandomKeypair()
	require.NoError(t, err)

	raw, err := strkeyEncoding.DecodeString(keypair.Address)
	require.NoError(t, err)
	require.Len(t, raw, 35) // version byte + 32-byte key + 2-byte checksum

	assert.Equal(t, versionAccountID, raw[0])

	payload := raw[:33]
	checksum := uint16(raw[33]) | uint16(raw[34])<<8
	assert.Equal(t, crc16Checksum(payload), checksum)
}

func TestEncodeStrkeyRejectsBadLength(t *testing.T) {
	_, err := encodeStrkey(versionAccountID, make([]byte, 31))
	assert.Error(t, err)
}

// Known CRC16-XModem vector: "123456789" -> 0x31C3.
func TestCrc16KnownVector(t *testing.T) {
	assert.Equal(t, uint16(0x31C3), crc16Checksum([]byte("123456789")))
}
