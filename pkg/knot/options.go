package knot

type options struct {
	project        string
	version        int
	enhancements   string
	fingerprinting string
}

// Option configures a Knot instance.
type Option func(*options)

// WithProject sets the project name stamped onto results. Default: "default".
func WithProject(name string) Option {
	return func(o *options) { o.project = name }
}

// WithAlgorithmVersion pins the grouping algorithm version carried on
// results. Events already grouped under an older version keep their hashes;
// version selection and persistence live with the caller. Default: 1.
func WithAlgorithmVersion(v int) Option {
	return func(o *options) { o.version = v }
}

// WithEnhancements sets the enhancement rule text (frame classification
// rewrites applied before key derivation).
func WithEnhancements(text string) Option {
	return func(o *options) { o.enhancements = text }
}

// WithFingerprinting sets the server-side fingerprinting rule text (key
// overrides applied after derivation).
func WithFingerprinting(text string) Option {
	return func(o *options) { o.fingerprinting = text }
}

func defaultOptions() options {
	return options{
		project: "default",
		version: 1,
	}
}
