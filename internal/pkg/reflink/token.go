package reflink

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxAge is the default validity window for a recommendation link, used
// when the signer is built without an explicit one.
const MaxAge = 30 * 24 * time.Hour

const hashLen = 32

var (
	ErrTokenMalformed = errors.New("recommendation token malformed")
	ErrTokenForged    = errors.New("recommendation token signature mismatch")
	ErrTokenExpired   = errors.New("recommendation token expired")
)

// Link is the decoded content of a valid token: which hyperconnector
// recommended whom for which job, and when the link was issued.
type Link struct {
	HyperconnectorID uuid.UUID
	JobID            uuid.UUID
	IssuedAt         time.Time
}

// Signer mints and validates signed recommendation tokens. A token is the
// first 32 hex chars of sha256(payload+secret), a dot, then the base64url
// payload "hciID:jobID:unixMilli".
type Signer struct {
	secret string
	maxAge time.Duration
	now    func() time.Time
}

func NewSigner(secret string, maxAge time.Duration) *Signer {
	if maxAge <= 0 {
		maxAge = MaxAge
	}
	return &Signer{secret: secret, maxAge: maxAge, now: time.Now}
}

func (s *Signer) Generate(hyperconnectorID, jobID uuid.UUID) string {
	payload := strings.Join([]string{
		hyperconnectorID.String(),
		jobID.String(),
		strconv.FormatInt(s.now().UnixMilli(), 10),
	}, ":")
	return s.sign(payload) + "." + base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func (s *Signer) Validate(token string) (Link, error) {
	hash, encoded, ok := strings.Cut(token, ".")
	if !ok || len(hash) != hashLen {
		return Link{}, ErrTokenMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Link{}, ErrTokenMalformed
	}
	payload := string(raw)

	if subtle.ConstantTimeCompare([]byte(hash), []byte(s.sign(payload))) != 1 {
		return Link{}, ErrTokenForged
	}

	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return Link{}, ErrTokenMalformed
	}
	hciID, err := uuid.Parse(parts[0])
	if err != nil {
		return Link{}, ErrTokenMalformed
	}
	jobID, err := uuid.Parse(parts[1])
	if err != nil {
		return Link{}, ErrTokenMalformed
	}
	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Link{}, ErrTokenMalformed
	}

	issuedAt := time.UnixMilli(millis)
	if s.now().Sub(issuedAt) > s.maxAge {
		return Link{}, ErrTokenExpired
	}

	return Link{HyperconnectorID: hciID, JobID: jobID, IssuedAt: issuedAt}, nil
}

func (s *Signer) sign(payload string) string {
	sum := sha256.Sum256([]byte(payload + s.secret))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// BuildURL turns a token into a shareable link. Bare hosts get a scheme:
// http for local development, https otherwise.
func BuildURL(baseURL, token string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base != "" && !strings.Contains(base, "://") {
		if strings.HasPrefix(base, "localhost") || strings.HasPrefix(base, "127.") {
			base = "http://" + base
		} else {
			base = "https://" + base
		}
	}
	return base + "/recommend/" + token
}
