// Package report produces the compact encrypted text block used to move
// transaction data through arbitrary text channels (chat, e-mail) between
// an owner and a branch. The key is a shared-secret convention derived
// from a passphrase embedded in the binary: anyone with the application
// can derive it. This is tamper evidence against casual editing, not
// confidentiality.
package report

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// Marker prefixes every encoded report so receivers can recognize one in
// free text.
const Marker = "BSYNC1:"

const nonceSize = 12

var reportKey = deriveKey()

func deriveKey() []byte {
	// Static passphrase and salt: the key must be identical in every copy
	// of the application or reports could not be exchanged at all.
	return argon2.IDKey([]byte("branchsync-report-exchange"), []byte("branchsync.v1"), 1, 64*1024, 4, 32)
}

// Encode encrypts the transactions into a single marker-prefixed text
// block safe to paste into any text channel.
func Encode(items []models.Transaction) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("report has no transactions: %w", common.ErrEmptyData)
	}

	plaintext, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(reportKey)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	return Marker + base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

// Decode verifies the marker, decrypts the block and returns the
// transactions for merge-back into the local store. A block that fails
// authentication was edited in transit (or encoded by a different build)
// and is rejected whole.
func Decode(s string) ([]models.Transaction, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, Marker) {
		return nil, fmt.Errorf("missing report marker: %w", common.ErrValidation)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, Marker))
	if err != nil {
		return nil, fmt.Errorf("malformed report block: %w", common.ErrValidation)
	}
	if len(raw) <= nonceSize {
		return nil, fmt.Errorf("report block too short: %w", common.ErrValidation)
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	block, err := aes.NewCipher(reportKey)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("report failed authentication: %w", common.ErrValidation)
	}

	var items []models.Transaction
	if err := json.Unmarshal(plaintext, &items); err != nil {
		return nil, fmt.Errorf("decode report payload: %w", common.ErrValidation)
	}
	return items, nil
}
