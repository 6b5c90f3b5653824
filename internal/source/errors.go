package source

import "fmt"

// ErrorKind classifies why a fetch failed.
type ErrorKind int

const (
	// KindUnknown is a remote failure that happened before any request was sent.
	KindUnknown ErrorKind = iota
	// KindNotFound is a 404 from the remote host.
	KindNotFound
	// KindAuthFailed is a 401 or 403 from the remote host.
	KindAuthFailed
	// KindTransport covers network errors and any other non-2xx status.
	KindTransport
	// KindLocalRead is a failure to read a local file.
	KindLocalRead
)

// String returns a short name for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthFailed:
		return "auth_failed"
	case KindTransport:
		return "transport"
	case KindLocalRead:
		return "local_read"
	default:
		return "unknown"
	}
}

// FetchError is returned by every Source. Message is meant for the client
// and already carries any guidance; Err keeps the underlying cause.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func notFoundError() *FetchError {
	return &FetchError{
		Kind:    KindNotFound,
		Message: "GitHub file not found. If this is a private repository, please provide a GITHUB_TOKEN.",
	}
}

func authFailedError(status int) *FetchError {
	return &FetchError{
		Kind:    KindAuthFailed,
		Message: "GitHub authentication failed. Please check your GITHUB_TOKEN.",
		Err:     fmt.Errorf("status code %d", status),
	}
}

func transportError(err error) *FetchError {
	return &FetchError{
		Kind:    KindTransport,
		Message: fmt.Sprintf("Failed to fetch from GitHub: %s", err),
		Err:     err,
	}
}

func unknownError(err error) *FetchError {
	return &FetchError{
		Kind:    KindUnknown,
		Message: "Failed to fetch from GitHub: Unknown error",
		Err:     err,
	}
}

func localReadError(err error) *FetchError {
	return &FetchError{
		Kind:    KindLocalRead,
		Message: fmt.Sprintf("Failed to read local file: %s. Make sure the file exists and is accessible.", err),
		Err:     err,
	}
}
