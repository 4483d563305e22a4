package contextkeys

// RequestId carries the per-request id set by the logger middleware.
type RequestId struct{}
