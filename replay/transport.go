package replay

import "net/http"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Transport routes every request of an http.Client through a Replayer.
type Transport struct {
	Replayer *Replayer
}

// compile-time assertion
var _ http.RoundTripper = (*Transport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.Replayer.Intercept(req)
}

// Install swaps the client's transport for an intercepting one and returns
// a restore function that reinstates the original. The paired lifecycle
// keeps interception from leaking across unrelated test units:
//
//	restore := replay.Install(http.DefaultClient, r)
//	defer restore()
//
// A nil client installs on http.DefaultClient.
func Install(client *http.Client, r *Replayer) (restore func()) {
	if client == nil {
		client = http.DefaultClient
	}
	prev := client.Transport
	client.Transport = &Transport{Replayer: r}
	return func() {
		client.Transport = prev
	}
}
