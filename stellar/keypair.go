package stellar

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// Strkey version bytes: 'G' for account public keys, 'S' for seeds.
const (
	versionAccountID byte = 6 << 3
	versionSeed      byte = 18 << 3
)

var strkeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Keypair holds a freshly generated Stellar keypair. Only the address is
// ever persisted; the seed exists in memory for the caller alone.
type Keypair struct {
	Address string
	Seed    string
}

// RandomKeypair generates an ed25519 keypair and encodes both halves in
// Stellar's strkey format (version byte + payload + CRC16-XModem checksum,
// base32 without padding).
func RandomKeypair() (*Keypair, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}

	address, err := encodeStrkey(versionAccountID, public)
	if err != nil {
		return nil, err
	}
	seed, err := encodeStrkey(versionSeed, private.Seed())
	if err != nil {
		return nil, err
	}

	return &Keypair{Address: address, Seed: seed}, nil
}

func encodeStrkey(version byte, payload []byte) (string, error) {
	if len(payload) != 32 {
		return "", fmt.Errorf("strkey payload must be 32 bytes, got %d", len(payload))
	}

	raw := make([]byte, 0, 35)
	raw = append(raw, version)
	raw = append(raw, payload...)

	checksum := crc16Checksum(raw)
	raw = append(raw, byte(checksum&0xFF), byte(checksum>>8))

	return strkeyEncoding.EncodeToString(raw), nil
}

// crc16Checksum computes CRC16-XModem (polynomial 0x1021, zero initial).
func crc16Checksum(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
