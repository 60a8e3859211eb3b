package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Invite and store auth codes are bearer secrets; only their Argon2id hash
// is persisted. The codes are short-lived human-typed strings, so the
// parameters stay on the light side of the Argon2id recommendations.
const (
	argonMemoryKB    uint32 = 64 * 1024
	argonTime        uint32 = 2
	argonParallelism uint8  = 2
	argonSaltLen            = 16
	argonKeyLen      uint32 = 32
)

// codeCharset omits look-alike characters (0/O, 1/I/l) so codes survive
// being read over the phone.
var codeCharset = []rune("ABCDEFGHJKMNPQRSTUVWXYZ23456789")

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

// GenerateCode produces a random human-readable bearer code of n characters.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive")
	}
	out := make([]rune, n)
	max := big.NewInt(int64(len(codeCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		out[i] = codeCharset[idx.Int64()]
	}
	return string(out), nil
}

// HashCode returns a formatted Argon2id hash for the provided code.
func HashCode(code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("code cannot be empty")
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(code), salt, argonTime, argonMemoryKB, argonParallelism, argonKeyLen)

	encSalt := base64.RawStdEncoding.EncodeToString(salt)
	encHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", argonMemoryKB, argonTime, argonParallelism, encSalt, encHash), nil
}

// VerifyCode returns true when the code matches the encoded hash.
func VerifyCode(code, encoded string) (bool, error) {
	memory, time, parallelism, salt, hash, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(code), salt, time, memory, parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, computed) == 1, nil
}

func decodeHash(encoded string) (memory, time uint32, parallelism uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	for _, token := range strings.Split(parts[3], ",") {
		keyValue := strings.SplitN(token, "=", 2)
		if len(keyValue) != 2 {
			return 0, 0, 0, nil, nil, ErrInvalidHash
		}
		switch keyValue[0] {
		case "m":
			v, perr := strconv.ParseUint(keyValue[1], 10, 32)
			if perr != nil {
				return 0, 0, 0, nil, nil, ErrInvalidHash
			}
			memory = uint32(v)
		case "t":
			v, perr := strconv.ParseUint(keyValue[1], 10, 32)
			if perr != nil {
				return 0, 0, 0, nil, nil, ErrInvalidHash
			}
			time = uint32(v)
		case "p":
			v, perr := strconv.ParseUint(keyValue[1], 10, 8)
			if perr != nil {
				return 0, 0, 0, nil, nil, ErrInvalidHash
			}
			parallelism = uint8(v)
		}
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	return memory, time, parallelism, salt, hash, nil
}
