package subject

// AssertionOption configures an assertion registered on a trace
// subject.
type AssertionOption func(*assertionOptions)

type assertionOptions struct {
	optional bool
}

// Optional lets the checker skip the assertion when it does not
// hold.
func Optional() AssertionOption {
	return func(o *assertionOptions) {
		o.optional = true
	}
}

func applyOptions(opts []AssertionOption) assertionOptions {
	var o assertionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
