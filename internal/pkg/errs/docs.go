// Package errs holds the error taxonomy shared by the domain, the use cases
// and the adapters. Every error type unwraps to a sentinel so callers branch
// with errors.Is. A cause passed to a WithCause constructor stays
// reachable through errors.Is and errors.As as well. The HTTP adapter maps those sentinels to status codes.
package errs
