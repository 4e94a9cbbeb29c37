package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// Sealed seed files carry a single line:
//
//	sealed:scrypt-chacha20poly1305:<base64(salt || nonce || ciphertext)>
//
// The scrypt parameters are fixed per format version; bumping them means a
// new prefix.
const sealedPrefix = "sealed:scrypt-chacha20poly1305:"

const (
	scryptN       = 1 << 15
	scryptR       = 8
	scryptP       = 1
	sealSaltSize  = 16
	sealKeySize   = chacha20poly1305.KeySize
	sealNonceSize = chacha20poly1305.NonceSizeX
)

var ErrSealedSeed = errors.New("keys: cannot open sealed seed")

// IsSealed reports whether a seed file body is sealed.
func IsSealed(body string) bool { return strings.HasPrefix(body, sealedPrefix) }

func sealKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, sealKeySize)
}

// SealSeed encrypts seed under passphrase.
func SealSeed(seed []byte, passphrase string) (string, error) {
	if len(seed) != SeedSize {
		return "", fmt.Errorf("expected seed length of %d bytes", SeedSize)
	}
	if passphrase == "" {
		return "", errors.New("keys: empty passphrase")
	}

	salt := make([]byte, sealSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := sealKey(passphrase, salt)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, sealNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	blob := append(append(salt, nonce...), aead.Seal(nil, nonce, seed, nil)...)
	return sealedPrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// OpenSeed decrypts a sealed seed file body.
func OpenSeed(body, passphrase string) ([]byte, error) {
	if !IsSealed(body) {
		return nil, fmt.Errorf("%w: not a sealed seed", ErrSealedSeed)
	}
	if passphrase == "" {
		return nil, fmt.Errorf("%w: passphrase required", ErrSealedSeed)
	}
	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(body, sealedPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealedSeed, err)
	}
	if len(blob) < sealSaltSize+sealNonceSize {
		return nil, fmt.Errorf("%w: truncated", ErrSealedSeed)
	}
	salt := blob[:sealSaltSize]
	nonce := blob[sealSaltSize : sealSaltSize+sealNonceSize]
	ciphertext := blob[sealSaltSize+sealNonceSize:]

	key, err := sealKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	seed, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: wrong passphrase or corrupt file", ErrSealedSeed)
	}
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: unexpected seed length", ErrSealedSeed)
	}
	return seed, nil
}
