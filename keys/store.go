package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"xdao.co/govtoken/token"
)

// SeedSize is the byte length of every stored seed. It matches both the
// secp256k1 scalar size and the ed25519/dilithium3 seed size.
const SeedSize = 32

// KeyStore stores seeds on the local filesystem, one identifier per
// directory. Attestor keys derived from a signer's seed live under the
// identifier's roles/ subdirectory.
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Identifier string
	Roles      []string
}

func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".xdao", "govtoken", "keys"), nil
}

func Open(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) signerPath(identifier string) string {
	return filepath.Join(ks.Directory, identifier, "signer.key")
}

func (ks *KeyStore) rolePath(identifier, role string) string {
	return filepath.Join(ks.Directory, identifier, "roles", role+".key")
}

func checkName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in %s", char, kind)
	}
	return nil
}

func CheckIdentifier(identifier string) error { return checkName("identifier", identifier) }

func CheckRole(role string) error { return checkName("role", role) }

// ParseSeedHex parses a 32-byte seed from hex, tolerating a 0x prefix and
// surrounding whitespace.
func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", SeedSize, len(data))
	}
	return data, nil
}

func (ks *KeyStore) saveSeed(path string, seed []byte, passphrase string, overwrite bool) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	body := hex.EncodeToString(seed)
	if passphrase != "" {
		body, err = SealSeed(seed, passphrase)
		if err != nil {
			return err
		}
	}
	if _, err := file.WriteString(body + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func (ks *KeyStore) loadSeed(path, passphrase string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(string(data))
	if IsSealed(body) {
		return OpenSeed(body, passphrase)
	}
	if passphrase != "" {
		return nil, errors.New("passphrase given but seed file is not sealed")
	}
	return ParseSeedHex(body)
}

// InitializeSigner stores seed as identifier's signer key and returns the
// ledger address it controls.
func (ks *KeyStore) InitializeSigner(identifier string, seed []byte, passphrase string, overwrite bool) (token.Address, string, error) {
	if err := CheckIdentifier(identifier); err != nil {
		return token.ZeroAddress, "", err
	}
	priv, err := ethcrypto.ToECDSA(seed)
	if err != nil {
		return token.ZeroAddress, "", err
	}
	path := ks.signerPath(identifier)
	if err := ks.saveSeed(path, seed, passphrase, overwrite); err != nil {
		return token.ZeroAddress, "", err
	}
	return token.PubkeyToAddress(&priv.PublicKey), path, nil
}

// Signer loads identifier's secp256k1 private key.
func (ks *KeyStore) Signer(identifier, passphrase string) (*ecdsa.PrivateKey, error) {
	if err := CheckIdentifier(identifier); err != nil {
		return nil, err
	}
	seed, err := ks.loadSeed(ks.signerPath(identifier), passphrase)
	if err != nil {
		return nil, err
	}
	return ethcrypto.ToECDSA(seed)
}

// SignerAddress returns the ledger address identifier's signer key controls.
func (ks *KeyStore) SignerAddress(identifier, passphrase string) (token.Address, error) {
	priv, err := ks.Signer(identifier, passphrase)
	if err != nil {
		return token.ZeroAddress, err
	}
	return token.PubkeyToAddress(&priv.PublicKey), nil
}

// DeriveAttestor derives and stores a role-specific attestor seed from
// identifier's signer seed. The same role always yields the same seed.
func (ks *KeyStore) DeriveAttestor(identifier, role, passphrase string, overwrite bool) (string, error) {
	if err := CheckIdentifier(identifier); err != nil {
		return "", err
	}
	if err := CheckRole(role); err != nil {
		return "", err
	}
	rootSeed, err := ks.loadSeed(ks.signerPath(identifier), passphrase)
	if err != nil {
		return "", err
	}
	roleSeed, err := DeriveAttestorSeed(rootSeed, role)
	if err != nil {
		return "", err
	}
	path := ks.rolePath(identifier, role)
	if err := ks.saveSeed(path, roleSeed, passphrase, overwrite); err != nil {
		return "", err
	}
	return path, nil
}

// AttestorSeed loads the role-specific attestor seed for identifier.
func (ks *KeyStore) AttestorSeed(identifier, role, passphrase string) ([]byte, error) {
	if err := CheckIdentifier(identifier); err != nil {
		return nil, err
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}
	return ks.loadSeed(ks.rolePath(identifier, role), passphrase)
}

// LoadSeed resolves a seed from the first source given: a hex literal, an
// explicit file, or a named signer (optionally a role key).
func (ks *KeyStore) LoadSeed(seedHex, signerName, signerRole, keyFile, passphrase string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return ks.loadSeed(keyFile, passphrase)
	}
	if signerName != "" {
		if err := CheckIdentifier(signerName); err != nil {
			return nil, err
		}
		if signerRole == "" {
			return ks.loadSeed(ks.signerPath(signerName), passphrase)
		}
		if err := CheckRole(signerRole); err != nil {
			return nil, err
		}
		return ks.loadSeed(ks.rolePath(signerName, signerRole), passphrase)
	}
	return nil, errors.New("no signer provided")
}

func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			identifiers = append(identifiers, entry.Name())
		}
	}
	sort.Strings(identifiers)

	var result []KeyEntry
	for _, identifier := range identifiers {
		roleEntries, rerr := os.ReadDir(filepath.Join(ks.Directory, identifier, "roles"))
		var roles []string
		if rerr == nil {
			for _, roleEntry := range roleEntries {
				if roleEntry.IsDir() {
					continue
				}
				if strings.HasSuffix(roleEntry.Name(), ".key") {
					roles = append(roles, strings.TrimSuffix(roleEntry.Name(), ".key"))
				}
			}
			sort.Strings(roles)
		}
		result = append(result, KeyEntry{Identifier: identifier, Roles: roles})
	}
	return result, nil
}
