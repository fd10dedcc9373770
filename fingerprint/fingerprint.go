package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/kbukum/rereplay/errors"
)

// KeyLength is the number of base64 characters kept from the SHA-256 digest.
const KeyLength = 20

const (
	headerAuthorization = "authorization"
	headerContentType   = "content-type"
	multipartToken      = "multipart/form-data"
)

// multipartBoundary matches the randomly generated delimiter lines that
// multipart encoders insert between parts: two or more dashes followed by
// an alphanumeric token.
var multipartBoundary = regexp.MustCompile(`-{2,}[A-Za-z0-9]+`)

// Fingerprint identifies a request for replay purposes.
type Fingerprint struct {
	// Key is the truncated content digest used as the cache key.
	Key string
	// CanonicalString is the pre-hash textual form of the request, kept as
	// cache metadata for debugging and audits.
	CanonicalString string
}

// Compute reduces an HTTP request to a deterministic fingerprint.
// The request body, if present, is read in full and restored so the request
// remains usable afterwards.
func Compute(req *http.Request) (Fingerprint, error) {
	if req == nil || req.URL == nil {
		return Fingerprint{}, errors.New(errors.ErrCodeInvalidInput, "request has no URL")
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body any
	if req.Body != nil && req.Body != http.NoBody {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return Fingerprint{}, errors.NewUnstableCanonicalization("request body could not be read").WithCause(err)
		}
		req.Body = io.NopCloser(bytes.NewReader(data))
		body = data
	}

	return ComputeParts(req.URL.String(), method, flattenHeaders(req.Header), body)
}

// ComputeParts fingerprints a request given as loose values. Headers may be
// nil. Body accepts nil, string, []byte, io.Reader, url.Values, or any
// fmt.Stringer; other types fail with an UNSTABLE_CANONICALIZATION error
// rather than hashing an unstable default rendering.
func ComputeParts(rawURL, method string, headers map[string]string, body any) (Fingerprint, error) {
	if rawURL == "" {
		return Fingerprint{}, errors.New(errors.ErrCodeInvalidInput, "request has no URL")
	}
	if method == "" {
		method = http.MethodGet
	}

	bodyText, err := coerceText(body)
	if err != nil {
		return Fingerprint{}, err
	}

	canonHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		canonHeaders[k] = v
	}

	// Multipart boundaries are randomized per call and would defeat
	// determinism even for byte-identical payloads.
	for k, v := range canonHeaders {
		if strings.EqualFold(k, headerContentType) && strings.Contains(strings.ToLower(v), multipartToken) {
			canonHeaders[k] = multipartToken
			bodyText = multipartBoundary.ReplaceAllString(bodyText, "")
		}
	}

	// Authorization values rotate across sessions and must never reach the
	// canonical string or the cache file.
	for k := range canonHeaders {
		if strings.EqualFold(k, headerAuthorization) {
			delete(canonHeaders, k)
		}
	}

	// json.Marshal sorts map keys, so header insertion order cannot leak
	// into the key.
	headerJSON, err := json.Marshal(canonHeaders)
	if err != nil {
		return Fingerprint{}, errors.NewUnstableCanonicalization("headers could not be serialized").WithCause(err)
	}

	canonical := rawURL + "|" + method + "|" + string(headerJSON) + "|" + bodyText

	digest := sha256.Sum256([]byte(canonical))
	key := base64.StdEncoding.EncodeToString(digest[:])[:KeyLength]

	return Fingerprint{Key: key, CanonicalString: canonical}, nil
}

// coerceText renders a body value to text. Types without a faithful textual
// form are rejected: hashing fmt's default rendering (which may include
// pointer addresses or unordered fields) would produce an unstable,
// meaningless key.
func coerceText(body any) (string, error) {
	switch v := body.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case url.Values:
		return v.Encode(), nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return "", errors.NewUnstableCanonicalization("request body could not be read").WithCause(err)
		}
		return string(data), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", errors.NewUnstableCanonicalization(
			fmt.Sprintf("body of type %T cannot be canonicalized to text", body))
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
