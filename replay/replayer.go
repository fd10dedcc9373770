package replay

import (
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/rereplay/cache"
	"github.com/kbukum/rereplay/codec"
	"github.com/kbukum/rereplay/fingerprint"
	"github.com/kbukum/rereplay/logger"
)

// MetadataCanonicalString is the cache metadata key carrying the canonical
// string a fingerprint was derived from.
const MetadataCanonicalString = "canonicalString"

// RealCall executes a request against the real network. The default is
// http.DefaultTransport.
type RealCall func(*http.Request) (*http.Response, error)

// Replayer records and replays HTTP responses. Each step of the pipeline is
// a replaceable capability; the zero configuration wires the fingerprint,
// codec, and cache packages together.
type Replayer struct {
	store     *cache.Store
	call      RealCall
	log       *logger.Logger
	id        string
	tracer    trace.Tracer
	onlineEnv string

	fingerprintFn func(*http.Request) (fingerprint.Fingerprint, error)
	serializeFn   func(*http.Response) (string, error)
	deserializeFn func(string) (*http.Response, error)
	interceptFn   func(*http.Request) (*http.Response, error)
}

// Option customizes a Replayer.
type Option func(*Replayer)

// WithStore supplies a pre-built cache store, typically to share one scope
// across replayers.
func WithStore(s *cache.Store) Option {
	return func(r *Replayer) { r.store = s }
}

// WithRealCall replaces the function that executes real network calls.
func WithRealCall(call RealCall) Option {
	return func(r *Replayer) { r.call = call }
}

// WithLogger supplies a logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Replayer) { r.log = log }
}

// WithFingerprintFunc replaces the fingerprinting step.
func WithFingerprintFunc(fn func(*http.Request) (fingerprint.Fingerprint, error)) Option {
	return func(r *Replayer) { r.fingerprintFn = fn }
}

// WithSerializeFunc replaces the response serialization step.
func WithSerializeFunc(fn func(*http.Response) (string, error)) Option {
	return func(r *Replayer) { r.serializeFn = fn }
}

// WithDeserializeFunc replaces the response deserialization step.
func WithDeserializeFunc(fn func(string) (*http.Response, error)) Option {
	return func(r *Replayer) { r.deserializeFn = fn }
}

// WithInterceptFunc replaces the whole intercept pipeline, bypassing the
// network, the codec, and the store. Useful for stubbing responses
// entirely.
func WithInterceptFunc(fn func(*http.Request) (*http.Response, error)) Option {
	return func(r *Replayer) { r.interceptFn = fn }
}

// New creates a Replayer.
func New(cfg Config, opts ...Option) (*Replayer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Replayer{
		id:            uuid.NewString(),
		tracer:        otel.Tracer("github.com/kbukum/rereplay/replay"),
		onlineEnv:     cfg.OnlineEnv,
		call:          http.DefaultTransport.RoundTrip,
		fingerprintFn: fingerprint.Compute,
		serializeFn:   codec.Serialize,
		deserializeFn: codec.Deserialize,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.NewDefault()
	}
	r.log = r.log.WithComponent("replay").WithField(logger.FieldReplayerID, r.id)

	if r.store == nil {
		s, err := cache.New(cache.Config{
			Name:       cfg.CacheName,
			Dir:        cfg.CacheDir,
			StaleAfter: cfg.StaleAfter,
		}, r.log)
		if err != nil {
			return nil, err
		}
		r.store = s
	}

	return r, nil
}

// ID returns the replayer's instance id used in log correlation.
func (r *Replayer) ID() string { return r.id }

// Store returns the backing cache store.
func (r *Replayer) Store() *cache.Store { return r.store }

// Online reports whether the bypass toggle is currently set. Evaluated
// fresh on every intercepted call, never cached.
func (r *Replayer) Online() bool {
	switch strings.ToLower(os.Getenv(r.onlineEnv)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Fingerprint computes the fingerprint for a request using the configured
// fingerprinting capability.
func (r *Replayer) Fingerprint(req *http.Request) (fingerprint.Fingerprint, error) {
	return r.fingerprintFn(req)
}

// Serialize encodes a response using the configured serialization
// capability.
func (r *Replayer) Serialize(resp *http.Response) (string, error) {
	return r.serializeFn(resp)
}

// Deserialize reconstructs a response using the configured deserialization
// capability.
func (r *Replayer) Deserialize(s string) (*http.Response, error) {
	return r.deserializeFn(s)
}

// Intercept routes a request through the record/replay pipeline.
//
// In bypass mode (online toggle set) the real call is performed and the
// store is untouched. Otherwise a store miss records the real response and
// a hit replays the recorded one; in both cases the caller receives a
// freshly deserialized response, so the observed shape is identical on
// first and subsequent calls. Network errors pass through unmodified and
// are never cached.
func (r *Replayer) Intercept(req *http.Request) (*http.Response, error) {
	if r.interceptFn != nil {
		return r.interceptFn(req)
	}

	_, span := r.tracer.Start(req.Context(), "rereplay.intercept")
	defer span.End()

	if r.Online() {
		span.SetAttributes(attribute.String("rereplay.mode", "bypass"))
		return r.call(req)
	}
	span.SetAttributes(attribute.String("rereplay.mode", "replay"))

	fp, err := r.fingerprintFn(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("rereplay.key", fp.Key))

	if stored, ok := r.store.Get(fp.Key); ok {
		span.SetAttributes(attribute.Bool("rereplay.cache_hit", true))
		r.log.Debug("replaying recorded response",
			logger.Fields(logger.FieldCacheKey, fp.Key))
		return r.deserializeFn(stored)
	}
	span.SetAttributes(attribute.Bool("rereplay.cache_hit", false))

	resp, err := r.call(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	serialized, err := r.serializeFn(resp)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	r.store.Set(fp.Key, serialized, map[string]string{
		MetadataCanonicalString: fp.CanonicalString,
	})
	r.log.Debug("recorded response",
		logger.Fields(logger.FieldCacheKey, fp.Key, logger.FieldCacheFile, r.store.Path()))

	return r.deserializeFn(serialized)
}
