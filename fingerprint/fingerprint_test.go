package fingerprint

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/rereplay/errors"
)

func mustRequest(t *testing.T, method, url string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return req
}

func TestCompute_Deterministic(t *testing.T) {
	build := func() *http.Request {
		req := mustRequest(t, http.MethodPost, "https://api.example.test/items", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client", "rereplay-test")
		return req
	}

	first, err := Compute(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		fp, err := Compute(build())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fp.Key != first.Key {
			t.Errorf("key changed across calls: %q vs %q", fp.Key, first.Key)
		}
		if fp.CanonicalString != first.CanonicalString {
			t.Errorf("canonical string changed across calls")
		}
	}
	if len(first.Key) != KeyLength {
		t.Errorf("expected key length %d, got %d", KeyLength, len(first.Key))
	}
}

func TestCompute_DefaultsMethodToGET(t *testing.T) {
	fp, err := ComputeParts("https://example.test/", "", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(fp.CanonicalString, "|GET|") {
		t.Errorf("expected GET in canonical string, got %q", fp.CanonicalString)
	}
}

func TestCompute_EmptyBodyCanonicalizesToEmptyString(t *testing.T) {
	fp, err := Compute(mustRequest(t, http.MethodGet, "https://example.test/joke", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(fp.CanonicalString, "|") {
		t.Errorf("expected empty body segment, got %q", fp.CanonicalString)
	}
}

func TestCompute_AuthorizationExcluded(t *testing.T) {
	build := func(token string) *http.Request {
		req := mustRequest(t, http.MethodGet, "https://api.example.test/me", nil)
		req.Header.Set("Authorization", token)
		req.Header.Set("Accept", "application/json")
		return req
	}

	a, err := Compute(build("Bearer secret-one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute(build("Bearer secret-two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Key != b.Key {
		t.Errorf("authorization value changed the key: %q vs %q", a.Key, b.Key)
	}
	if strings.Contains(a.CanonicalString, "secret-one") {
		t.Errorf("canonical string leaked the authorization value: %q", a.CanonicalString)
	}
	if strings.Contains(strings.ToLower(a.CanonicalString), "authorization") {
		t.Errorf("canonical string kept the authorization header: %q", a.CanonicalString)
	}
}

func TestComputeParts_AuthorizationCaseInsensitive(t *testing.T) {
	a, err := ComputeParts("https://example.test/", "GET", map[string]string{"authorization": "x"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ComputeParts("https://example.test/", "GET", map[string]string{"AUTHORIZATION": "y"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Key != b.Key {
		t.Errorf("authorization casing changed the key")
	}
}

func TestCompute_MultipartBoundaryInvariance(t *testing.T) {
	build := func() *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("name", "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteField("role", "admin"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req := mustRequest(t, http.MethodPost, "https://api.example.test/users", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req
	}

	// Each multipart writer generates a fresh random boundary.
	a, err := Compute(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Key != b.Key {
		t.Errorf("random multipart boundaries changed the key: %q vs %q", a.Key, b.Key)
	}
	if !strings.Contains(a.CanonicalString, `"multipart/form-data"`) {
		t.Errorf("content-type was not reduced to the bare multipart token: %q", a.CanonicalString)
	}
}

func TestComputeParts_HeaderOrderInsensitive(t *testing.T) {
	// Maps carry no order, but the JSON form must be stable regardless of
	// how callers assembled them.
	h1 := map[string]string{}
	h1["A"] = "1"
	h1["B"] = "2"
	h1["C"] = "3"
	h2 := map[string]string{}
	h2["C"] = "3"
	h2["B"] = "2"
	h2["A"] = "1"

	a, err := ComputeParts("https://example.test/", "GET", h1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ComputeParts("https://example.test/", "GET", h2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Key != b.Key {
		t.Errorf("header assembly order changed the key")
	}
}

func TestCompute_RestoresRequestBody(t *testing.T) {
	req := mustRequest(t, http.MethodPost, "https://example.test/", strings.NewReader("payload"))
	if _, err := Compute(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("body was not restored after fingerprinting, got %q", data)
	}
}

func TestComputeParts_BodyCoercion(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"bytes", []byte("raw"), "raw"},
		{"reader", strings.NewReader("streamed"), "streamed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := ComputeParts("https://example.test/", "POST", nil, tt.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasSuffix(fp.CanonicalString, "|"+tt.want) {
				t.Errorf("expected body segment %q in %q", tt.want, fp.CanonicalString)
			}
		})
	}
}

func TestComputeParts_UnstableBodyFailsLoudly(t *testing.T) {
	type opaque struct{ N int }
	_, err := ComputeParts("https://example.test/", "POST", nil, opaque{N: 1})
	if err == nil {
		t.Fatal("expected an error for an uncanonicalizable body")
	}
	if !errors.Is(err, errors.ErrCodeUnstableCanonicalization) {
		t.Errorf("expected UNSTABLE_CANONICALIZATION, got %v", err)
	}
}

func TestComputeParts_RequiresURL(t *testing.T) {
	_, err := ComputeParts("", "GET", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a missing URL")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
