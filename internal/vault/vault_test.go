package vault

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/clladder/clladder/core"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return crypto.FromECDSA(priv)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt(key, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	plain, err := decrypt(blob, "correct horse battery staple")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(plain) != string(key) {
		t.Error("decrypted key does not match the original")
	}
}

func TestDecryptWrongPasswordFails(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt(key, "correct password")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := decrypt(blob, "wrong password"); err == nil {
		t.Error("expected DecryptionFailedError for a wrong password")
	}
}

func TestDecryptCorruptedCiphertextFails(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt(key, "pw")
	if err != nil {
		t.Fatal(err)
	}
	corrupted := blob[:len(blob)-4] + "abcd"
	if _, err := decrypt(corrupted, "pw"); err == nil {
		t.Error("expected DecryptionFailedError for corrupted ciphertext")
	}
}

func TestDecryptRejectsGarbageInput(t *testing.T) {
	if _, err := decrypt("not even base64!!", "pw"); err == nil {
		t.Error("expected DecryptionFailedError for non-base64 input")
	}
	if _, err := decrypt("", "pw"); err == nil {
		t.Error("expected DecryptionFailedError for empty input")
	}
}

func TestVaultSignTxAfterUnlock(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt(key, "session-password")
	if err != nil {
		t.Fatal(err)
	}
	priv, err := crypto.ToECDSA(key)
	if err != nil {
		t.Fatal(err)
	}
	addr := core.AddressFromEthereum(crypto.PubkeyToAddress(priv.PublicKey))

	v := New(blob, addr)
	v.Unlock("session-password")

	tx := types.NewTx(&types.LegacyTx{Nonce: 0, To: nil, Value: big.NewInt(0), Gas: 21000, GasPrice: big.NewInt(1)})
	signed, err := v.SignTx(tx, big.NewInt(1))
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	if signed == nil {
		t.Fatal("expected a signed transaction")
	}
	if v.Address() != addr {
		t.Errorf("Address() = %v, want %v", v.Address(), addr)
	}
}

func TestVaultSignTxWrongUnlockPasswordFails(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt(key, "real-password")
	if err != nil {
		t.Fatal(err)
	}
	v := New(blob, core.Address{})
	v.Unlock("wrong-password")

	tx := types.NewTx(&types.LegacyTx{Nonce: 0, To: nil, Value: big.NewInt(0), Gas: 21000, GasPrice: big.NewInt(1)})
	if _, err := v.SignTx(tx, big.NewInt(1)); err == nil {
		t.Error("expected SignTx to fail when unlocked with the wrong password")
	}
}
