package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/kbukum/rereplay/errors"
)

// BodyType classifies how a response body is stored.
type BodyType string

const (
	BodyText   BodyType = "text"
	BodyJSON   BodyType = "json"
	BodyStream BodyType = "stream"
	BodyFile   BodyType = "file"
)

// chunkSentinel separates recorded stream chunks. Record separator control
// bytes frame a private token so the sequence cannot occur inside
// legitimate event-stream data.
const chunkSentinel = "\x1e\x1erereplay:chunk\x1e\x1e"

// headerPair is a single (name, value) header entry. Stored as an ordered
// list so multi-value headers survive the round trip.
type headerPair [2]string

type serializedResponse struct {
	Status     int          `json:"status"`
	StatusText string       `json:"statusText"`
	Headers    []headerPair `json:"headers"`
	BodyType   BodyType     `json:"bodyType"`
	Body       *string      `json:"body"`
	FileType   string       `json:"fileType,omitempty"`
}

// fileEnvelope is the self-describing form of a binary body.
type fileEnvelope struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Serialize encodes an HTTP response as a persistable string. The response
// body is consumed; callers that need the response afterwards should use
// Deserialize on the result.
func Serialize(resp *http.Response) (string, error) {
	if resp == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "response is nil")
	}

	sr := serializedResponse{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    orderedHeaders(resp.Header),
	}

	contentType := resp.Header.Get("Content-Type")

	if strings.Contains(contentType, "text/event-stream") {
		chunks, err := readChunks(resp.Body)
		if err != nil {
			return "", errors.Newf(errors.ErrCodeInvalidInput, "read event stream: %v", err)
		}
		joined := strings.Join(chunks, chunkSentinel)
		sr.BodyType = BodyStream
		sr.Body = &joined
		return marshal(sr)
	}

	var body []byte
	if resp.Body != nil {
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return "", errors.Newf(errors.ErrCodeInvalidInput, "read response body: %v", err)
		}
		body = data
	}

	// Sniff when the origin did not declare a content type.
	if contentType == "" && len(body) > 0 {
		contentType = http.DetectContentType(body)
	}

	switch {
	case strings.Contains(contentType, "application/json"):
		text := string(body)
		sr.BodyType = BodyJSON
		sr.Body = &text
	case isTextual(contentType):
		text := string(body)
		sr.BodyType = BodyText
		sr.Body = &text
	default:
		mimeType := bareMime(contentType)
		envelope, err := json.Marshal(fileEnvelope{
			Type: mimeType,
			Data: base64.StdEncoding.EncodeToString(body),
		})
		if err != nil {
			return "", errors.Newf(errors.ErrCodeInvalidInput, "encode binary body: %v", err)
		}
		text := string(envelope)
		sr.BodyType = BodyFile
		sr.Body = &text
		sr.FileType = mimeType
	}

	return marshal(sr)
}

// Deserialize reconstructs an HTTP response from a serialized string.
// Stream bodies are single-pass: once drained, a fresh Deserialize call is
// needed to replay them again.
func Deserialize(s string) (*http.Response, error) {
	var sr serializedResponse
	if err := json.Unmarshal([]byte(s), &sr); err != nil {
		return nil, errors.NewMalformedCacheEntry(err)
	}

	header := make(http.Header, len(sr.Headers))
	for _, p := range sr.Headers {
		header.Add(p[0], p[1])
	}

	resp := &http.Response{
		StatusCode:    sr.Status,
		Status:        fmt.Sprintf("%d %s", sr.Status, sr.StatusText),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		ContentLength: -1,
	}

	body := ""
	if sr.Body != nil {
		body = *sr.Body
	}

	switch sr.BodyType {
	case BodyStream:
		var chunks [][]byte
		if body != "" {
			for _, c := range strings.Split(body, chunkSentinel) {
				chunks = append(chunks, []byte(c))
			}
		}
		resp.Body = newChunkReader(chunks)
	case BodyFile:
		var envelope fileEnvelope
		if err := json.Unmarshal([]byte(body), &envelope); err != nil {
			return nil, errors.NewMalformedCacheEntry(err)
		}
		raw, err := base64.StdEncoding.DecodeString(envelope.Data)
		if err != nil {
			return nil, errors.NewMalformedCacheEntry(err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(raw))
		resp.ContentLength = int64(len(raw))
	default:
		resp.Body = io.NopCloser(strings.NewReader(body))
		resp.ContentLength = int64(len(body))
	}

	return resp, nil
}

func marshal(sr serializedResponse) (string, error) {
	data, err := json.Marshal(sr)
	if err != nil {
		return "", errors.Newf(errors.ErrCodeInvalidInput, "encode response: %v", err)
	}
	return string(data), nil
}

// statusText extracts the reason phrase, falling back to the standard text
// for the code when the response carries none.
func statusText(resp *http.Response) string {
	if _, text, found := strings.Cut(resp.Status, " "); found {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// orderedHeaders flattens an http.Header into a deterministic (name, value)
// pair list, one pair per value.
func orderedHeaders(h http.Header) []headerPair {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]headerPair, 0, len(h))
	for _, k := range keys {
		for _, v := range h[k] {
			pairs = append(pairs, headerPair{k, v})
		}
	}
	return pairs
}

// isTextual reports whether a content type carries a faithful textual body.
func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	if ct == "" {
		return true
	}
	if strings.HasPrefix(ct, "text/") {
		return true
	}
	for _, token := range []string{"json", "xml", "javascript", "x-www-form-urlencoded"} {
		if strings.Contains(ct, token) {
			return true
		}
	}
	return false
}

// bareMime strips parameters from a content-type value.
func bareMime(contentType string) string {
	if contentType == "" {
		return "application/octet-stream"
	}
	mimeType, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mimeType)
}

// readChunks drains a body preserving read boundaries, so a replayed stream
// yields the same chunk sequence the origin produced.
func readChunks(body io.ReadCloser) ([]string, error) {
	if body == nil {
		return nil, nil
	}
	defer func() { _ = body.Close() }()

	var chunks []string
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			chunks = append(chunks, string(buf[:n]))
		}
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
