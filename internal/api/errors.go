package api

// Kind classifies a gateway failure. Every failure is normalized to an *Error
// with a human-readable message so callers rarely need to branch on the kind;
// the one exception is KindAuth, which additionally triggers the global
// session clear before it is surfaced.
type Kind int

const (
	// KindTransport covers network failures and timeouts.
	KindTransport Kind = iota
	// KindAuth is an authorization-denied response on a protected call.
	KindAuth
	// KindValidation is any other 4xx carrying a server-supplied message.
	KindValidation
	// KindServer is a 5xx response.
	KindServer
	// KindNotFoundLocally marks an entity absent from local state, e.g.
	// toggling an item that no longer exists client-side.
	KindNotFoundLocally
)

// Error is the single error shape the gateway produces.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFoundLocally builds the local-state variant of the taxonomy.
func NotFoundLocally(message string) *Error {
	return &Error{Kind: KindNotFoundLocally, Message: message}
}
