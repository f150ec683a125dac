package blob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrBadKey = errors.New("blob: invalid object key")

// SignedURLStore mints presigned upload/download URLs against a single
// receipts bucket fronted by the gateway at baseURL. The gateway verifies
// the same HMAC before touching storage, so the API never proxies bytes.
type SignedURLStore struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

func NewSignedURLStore(baseURL, secret string) *SignedURLStore {
	return &SignedURLStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}
}

func (s *SignedURLStore) SignedPutURL(_ context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error) {
	return s.sign("PUT", key, contentType, ttl)
}

func (s *SignedURLStore) SignedGetURL(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	return s.sign("GET", key, "", ttl)
}

func (s *SignedURLStore) sign(method, key, contentType string, ttl time.Duration) (string, time.Time, error) {
	if !validKey(key) {
		return "", time.Time{}, ErrBadKey
	}
	expiresAt := s.now().UTC().Add(ttl)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(method + "\n" + key + "\n" + contentType + "\n" + exp))
	sig := hex.EncodeToString(mac.Sum(nil))

	q := url.Values{}
	q.Set("expires", exp)
	q.Set("signature", sig)
	if contentType != "" {
		q.Set("content_type", contentType)
	}

	u := s.baseURL + "/receipts/" + escapeKey(key) + "?" + q.Encode()
	return u, expiresAt, nil
}

// Verify checks a signature minted by sign. The gateway side calls this.
func (s *SignedURLStore) Verify(method, key, contentType, exp, sig string) bool {
	n, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || s.now().UTC().After(time.Unix(n, 0)) {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(method + "\n" + key + "\n" + contentType + "\n" + exp))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(sig))
}

// validKey rejects traversal and empty segments; keys are slash-joined ids
// plus a sanitized filename.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func escapeKey(key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
