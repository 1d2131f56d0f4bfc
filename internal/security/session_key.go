package security

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"strings"
	"time"
)

var (
	ErrMissingSalt      = errors.New("session key salt is not configured")
	ErrUnknownAlgorithm = errors.New("unknown hmac algorithm")
)

// SessionKeyer derives the opaque key a client presents to look up its
// session token.
type SessionKeyer struct {
	algorithm string
	salt      []byte
	now       func() time.Time
}

func NewSessionKeyer(algorithm string, salt string) *SessionKeyer {
	return &SessionKeyer{algorithm: strings.ToLower(algorithm), salt: []byte(salt), now: time.Now}
}

func (k *SessionKeyer) Derive(email string) (string, error) {
	if len(k.salt) == 0 {
		return "", ErrMissingSalt
	}
	newHash, err := hashFunc(k.algorithm)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(struct {
		Email     string `json:"email"`
		Timestamp int64  `json:"timestamp"`
	}{Email: email, Timestamp: k.now().Unix()})
	if err != nil {
		return "", fmt.Errorf("encode session payload: %w", err)
	}

	mac := hmac.New(newHash, k.salt)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func hashFunc(name string) (func() hash.Hash, error) {
	switch name {
	case "sha1":
		return sha1.New, nil
	case "", "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
}
