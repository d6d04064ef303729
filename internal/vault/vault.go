// Package vault implements the signing-key collaborator (spec §4.J):
// an AES-256-GCM + PBKDF2-HMAC-SHA256 key vault consumed through
// core.Signer so the rest of the engine never touches a raw key.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/pbkdf2"

	"github.com/clladder/clladder/core"
)

const (
	formatVersion   byte = 1
	saltLen              = 16
	nonceLen             = 12
	pbkdf2Iterations     = 600_000
	keyLen               = 32
)

// Vault holds an encrypted signing key and decrypts it only on the
// stack during Sign, zeroing the buffer immediately after use.
type Vault struct {
	ciphertextB64  string
	address        core.Address
	cachedPassword string
}

// New wraps an already-encrypted blob produced by Encrypt, alongside
// the EOA address it signs for (recovered once at creation so callers
// never need the password to query Address()).
func New(ciphertextB64 string, address core.Address) *Vault {
	return &Vault{ciphertextB64: ciphertextB64, address: address}
}

// Address implements core.Signer.
func (v *Vault) Address() core.Address { return v.address }

// Encrypt implements spec §4.J: derives a 32-byte key via
// PBKDF2-HMAC-SHA256 (600,000 iterations) from password+salt, then
// seals the raw private key with AES-256-GCM. Output layout:
// version(1) | salt(16) | nonce(12) | ciphertext | tag(16), base64-wrapped.
func Encrypt(privateKey []byte, password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", &core.CryptoUnavailableError{Reason: err.Error()}
	}
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", &core.CryptoUnavailableError{Reason: err.Error()}
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLen, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", &core.CryptoUnavailableError{Reason: err.Error()}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", &core.CryptoUnavailableError{Reason: err.Error()}
	}

	sealed := gcm.Seal(nil, nonce, privateKey, nil)

	out := make([]byte, 0, 1+saltLen+nonceLen+len(sealed))
	out = append(out, formatVersion)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// decrypt recovers the raw private key. Wrong password and corrupted
// ciphertext are deliberately indistinguishable (spec §4.J / §8 test 10)
// to avoid giving an attacker an oracle.
func decrypt(ciphertextB64 string, password string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, &core.DecryptionFailedError{}
	}
	if len(raw) < 1+saltLen+nonceLen+16 {
		return nil, &core.DecryptionFailedError{}
	}
	if raw[0] != formatVersion {
		return nil, &core.DecryptionFailedError{}
	}

	salt := raw[1 : 1+saltLen]
	nonce := raw[1+saltLen : 1+saltLen+nonceLen]
	sealed := raw[1+saltLen+nonceLen:]

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLen, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &core.DecryptionFailedError{}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &core.DecryptionFailedError{}
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, &core.DecryptionFailedError{}
	}
	return plain, nil
}

// SignTx implements core.Signer: decrypts on the stack, signs with
// EIP-155 replay protection, and zeroes the key buffer before
// returning.
func (v *Vault) SignTx(tx *types.Transaction, chainID *big.Int) (signed *types.Transaction, err error) {
	return v.signWithPassword(tx, chainID, v.cachedPassword)
}

// Unlock stores the session password in memory so SignTx can be called
// without threading it through every call site; it is still only ever
// read back into a short-lived buffer inside signWithPassword.
func (v *Vault) Unlock(password string) { v.cachedPassword = password }

func (v *Vault) signWithPassword(tx *types.Transaction, chainID *big.Int, password string) (*types.Transaction, error) {
	keyBytes, err := decrypt(v.ciphertextB64, password)
	if err != nil {
		return nil, err
	}
	defer zero(keyBytes)

	privKey, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, &core.DecryptionFailedError{}
	}

	signer := types.NewLondonSigner(chainID)
	return types.SignTx(tx, signer, privKey)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
