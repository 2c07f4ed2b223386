package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blocto/solana-go-sdk/types"
)

// KeyStoreEntry is one encrypted keypair on disk, stored as
// <address>.json inside the keystore directory.
type KeyStoreEntry struct {
	Address      string `json:"address"`
	EncryptedKey string `json:"encrypted_key"`
	Version      int    `json:"version"`
}

// KeyStore persists keypairs encrypted with AES-256-GCM under a
// password-derived key.
type KeyStore struct {
	dir string
}

// NewKeyStore creates a keystore over the given directory.
func NewKeyStore(dir string) *KeyStore {
	return &KeyStore{dir: dir}
}

// Generate creates a fresh keypair, saves it encrypted and returns the
// wallet.
func (ks *KeyStore) Generate(password string) (*LocalWallet, error) {
	account := types.NewAccount()
	if err := ks.Save(&account, password); err != nil {
		return nil, err
	}
	return NewLocalWallet(&account), nil
}

// Save encrypts the keypair and writes its keystore entry.
func (ks *KeyStore) Save(account *types.Account, password string) error {
	encrypted, err := encryptPrivateKey(account.PrivateKey, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt private key: %w", err)
	}

	address := account.PublicKey.ToBase58()
	entry := KeyStoreEntry{
		Address:      address,
		EncryptedKey: encrypted,
		Version:      1,
	}

	jsonData, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore entry: %w", err)
	}

	if err := os.MkdirAll(ks.dir, 0700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}

	filename := filepath.Join(ks.dir, address+".json")
	if err := os.WriteFile(filename, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write keystore entry to file: %w", err)
	}

	return nil
}

// Load reads and decrypts the keystore entry for an address.
func (ks *KeyStore) Load(address, password string) (*LocalWallet, error) {
	filename := filepath.Join(ks.dir, address+".json")

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore entry: %w", err)
	}

	var entry KeyStoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore entry: %w", err)
	}

	if entry.Address != address {
		return nil, fmt.Errorf("address mismatch: expected %s, got %s", address, entry.Address)
	}

	privateKey, err := decryptPrivateKey(entry.EncryptedKey, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt private key: %w", err)
	}

	account, err := types.AccountFromBytes(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create account from private key: %w", err)
	}

	return NewLocalWallet(&account), nil
}

// List returns the addresses of every stored entry.
func (ks *KeyStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read keystore directory: %w", err)
	}

	var addresses []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		addresses = append(addresses, name[:len(name)-len(".json")])
	}
	return addresses, nil
}

// encryptPrivateKey encrypts a private key using AES-256-GCM. The nonce is
// prepended to the ciphertext for storage.
func encryptPrivateKey(privateKey []byte, password string) (string, error) {
	key := deriveKey(password)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, privateKey, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decryptPrivateKey decrypts a private key using AES-256-GCM.
func decryptPrivateKey(encryptedKey string, password string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	key := deriveKey(password)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertext = ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// deriveKey creates a 32-byte key from a password using SHA-256.
func deriveKey(password string) []byte {
	hash := sha256.Sum256([]byte(password))
	return hash[:]
}
