package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/clladder/clladder/core"
	"github.com/clladder/clladder/internal/vault"
)

// vaultFile is the on-disk JSON shape loadVault reads (vault.Encrypt's
// output plus the address it was derived for); no ladderctl command writes it.
type vaultFile struct {
	Ciphertext string `json:"ciphertext"`
	Address    string `json:"address"`
}

func loadVault(path, password string) (*vault.Vault, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vf vaultFile
	if err := json.Unmarshal(raw, &vf); err != nil {
		return nil, err
	}
	if vf.Ciphertext == "" || vf.Address == "" {
		return nil, errors.New("ladderctl: vault file missing ciphertext or address")
	}
	addr, err := core.ParseAddress(vf.Address)
	if err != nil {
		return nil, err
	}
	v := vault.New(vf.Ciphertext, addr)
	v.Unlock(password)
	return v, nil
}
