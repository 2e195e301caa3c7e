package handler

// AttemptRecorder counts authentication operations by outcome.
type AttemptRecorder interface {
	RecordAuthAttempt(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthAttempt(string, string) {}

// Option configures the handlers.
type Option func(*options)

type options struct {
	recorder         AttemptRecorder
	unifyLoginErrors bool
}

// WithRecorder records every auth attempt on r.
func WithRecorder(r AttemptRecorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithUnifiedLoginErrors reports unknown emails and wrong passwords with the same message.
func WithUnifiedLoginErrors(unify bool) Option {
	return func(o *options) { o.unifyLoginErrors = unify }
}

func buildOptions(opts []Option) *options {
	o := &options{recorder: noopRecorder{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
