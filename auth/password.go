package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// HashAlgorithm is the name of a supported password hashing algorithm.
type HashAlgorithm string

// Supported password hashing algorithms.
const (
	HashBcrypt   HashAlgorithm = "bcrypt"
	HashArgon2id HashAlgorithm = "argon2id"
)

// DefaultBcryptCost matches the cost of hashes created by earlier versions of
// the service ($2b$10$...).
const DefaultBcryptCost = 10

const argon2idPrefix = "argon2id$"

// Argon2Params are the tunable parameters of the Argon2id key derivation.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// DefaultArgon2Params returns the Argon2id parameters used for new hashes.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLen:     16,
		KeyLen:      32,
	}
}

// PasswordHasher hashes new passwords with the configured algorithm, and
// verifies passwords against hashes of any supported algorithm.
type PasswordHasher struct {
	algorithm  HashAlgorithm
	bcryptCost int
	argon2     Argon2Params
}

var _ Hasher = (*PasswordHasher)(nil)

// NewPasswordHasher returns a hasher that creates new hashes with algorithm.
// A bcryptCost of 0 uses DefaultBcryptCost.
func NewPasswordHasher(algorithm HashAlgorithm, bcryptCost int) (*PasswordHasher, error) {
	switch algorithm {
	case HashBcrypt, HashArgon2id:
	case "":
		algorithm = HashBcrypt
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm '%s'", algorithm)
	}

	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, bcryptCost)
	}

	return &PasswordHasher{
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
		argon2:     DefaultArgon2Params(),
	}, nil
}

// Hash returns the encoded hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.algorithm == HashArgon2id {
		return hashArgon2id(password, h.argon2)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed hashing password: %w", err)
	}

	return string(hash), nil
}

// Compare reports whether password matches hash. The algorithm is detected
// from the hash encoding. A mismatch is not an error; an unreadable hash is.
func (h *PasswordHasher) Compare(password, hash string) (bool, error) {
	if strings.HasPrefix(hash, argon2idPrefix) {
		return compareArgon2id(password, hash)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed comparing password hash: %w", err)
	}
}

// hashArgon2id returns a PHC-style Argon2id string in the format
// argon2id$v=19$m=65536,t=3,p=4$<salt_b64>$<hash_b64>.
func hashArgon2id(password string, p Argon2Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed generating salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLen)
	enc := base64.RawStdEncoding

	return fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		enc.EncodeToString(salt), enc.EncodeToString(key),
	), nil
}

func compareArgon2id(password, encoded string) (bool, error) {
	p, salt, want, err := parseArgon2id(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parseArgon2id(s string) (p Argon2Params, salt, hash []byte, err error) {
	parts := strings.Split(s, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return p, nil, nil, errors.New("invalid argon2id hash format")
	}

	ver, err := strconv.Atoi(strings.TrimPrefix(parts[1], "v="))
	if err != nil || ver != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version '%s'", parts[1])
	}

	for _, kv := range strings.Split(parts[2], ",") {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return p, nil, nil, fmt.Errorf("invalid argon2 parameter '%s'", kv)
		}
		bitSize := 32
		if key == "p" {
			bitSize = 8
		}
		n, perr := strconv.ParseUint(val, 10, bitSize)
		if perr != nil {
			return p, nil, nil, fmt.Errorf("invalid argon2 parameter '%s': %w", kv, perr)
		}
		switch key {
		case "m":
			p.Memory = uint32(n)
		case "t":
			p.Iterations = uint32(n)
		case "p":
			p.Parallelism = uint8(n)
		default:
			return p, nil, nil, fmt.Errorf("unknown argon2 parameter '%s'", key)
		}
	}

	enc := base64.RawStdEncoding
	if salt, err = enc.DecodeString(parts[3]); err != nil {
		return p, nil, nil, fmt.Errorf("invalid argon2 salt: %w", err)
	}
	if hash, err = enc.DecodeString(parts[4]); err != nil {
		return p, nil, nil, fmt.Errorf("invalid argon2 hash: %w", err)
	}
	if len(hash) < 16 {
		return p, nil, nil, errors.New("invalid argon2 hash length")
	}

	return p, salt, hash, nil
}
