package yelp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// signer produces OAuth 1.0a HMAC-SHA1 query signatures, the scheme the
// v2 search API authenticates with.
type signer struct {
	creds Credentials
	nonce func() string
	now   func() time.Time
}

func newSigner(creds Credentials) *signer {
	return &signer{
		creds: creds,
		nonce: randomNonce,
		now:   time.Now,
	}
}

// sign returns the request parameters with the oauth_* fields attached,
// including the signature over method, endpoint, and all parameters.
func (s *signer) sign(method, endpoint string, params url.Values) url.Values {
	signed := url.Values{}
	for key, values := range params {
		signed[key] = append([]string(nil), values...)
	}
	signed.Set("oauth_consumer_key", s.creds.ConsumerKey)
	signed.Set("oauth_token", s.creds.Token)
	signed.Set("oauth_signature_method", "HMAC-SHA1")
	signed.Set("oauth_version", "1.0")
	signed.Set("oauth_timestamp", strconv.FormatInt(s.now().Unix(), 10))
	signed.Set("oauth_nonce", s.nonce())

	base := signatureBase(method, endpoint, signed)
	key := percentEncode(s.creds.ConsumerSecret) + "&" + percentEncode(s.creds.TokenSecret)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	signed.Set("oauth_signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	return signed
}

// signatureBase builds the OAuth base string: method, encoded endpoint,
// and the sorted, individually encoded parameter pairs.
func signatureBase(method, endpoint string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		for _, value := range params[key] {
			pairs = append(pairs, percentEncode(key)+"="+percentEncode(value))
		}
	}

	return strings.ToUpper(method) + "&" + percentEncode(endpoint) + "&" + percentEncode(strings.Join(pairs, "&"))
}

// percentEncode implements RFC 3986 encoding; url.QueryEscape is close
// but encodes spaces as '+' and leaves '~' alone differently.
func percentEncode(input string) string {
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
	}
	return b.String()
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
