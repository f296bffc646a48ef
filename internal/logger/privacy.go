package logger

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// minSaltLength is the minimum accepted length of LOG_HASH_SALT.
const minSaltLength = 32

var hashSalt string

// InitHashSalt loads the hashing salt from LOG_HASH_SALT. When the variable is
// unset a random salt is generated, so hashes are only stable for the
// lifetime of the process.
func InitHashSalt() error {
	salt := os.Getenv("LOG_HASH_SALT")
	if salt == "" {
		buf := make([]byte, minSaltLength)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate hash salt: %w", err)
		}
		hashSalt = hex.EncodeToString(buf)
		return nil
	}
	if len(salt) < minSaltLength {
		return fmt.Errorf("LOG_HASH_SALT must be at least %d characters", minSaltLength)
	}
	hashSalt = salt
	return nil
}

// InitHashSaltForTesting sets the salt directly.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashChatID creates a privacy-preserving hash of a chat ID.
// This allows correlating a chat's interactions without exposing the ID.
func HashChatID(chatID int64) string {
	data := fmt.Sprintf("%d:%s", chatID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters for readability
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeDescription removes or truncates sensitive information from descriptions.
// This redacts the description but preserves length information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}

	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	// Prefix is cut on a rune boundary.
	prefix := []rune(text)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s...<%d chars>", string(prefix), len(text))
}
