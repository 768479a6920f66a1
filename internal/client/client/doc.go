// Package client is the HTTP transport the Growth Pods client uses to talk to
// the identity service, plus bootstrap of the local SQLite database.
//
// # Overview
//
//  1. A transport-agnostic contract (Client) with one generic Do call.
//  2. HTTPClient, a net/http implementation that joins fixed paths onto a
//     configured base URL, JSON-encodes bodies and injects
//     "Authorization: Bearer <token>" from a TokenSource.
//  3. InitDatabase / RunMigrations for the local store (modernc SQLite plus
//     embedded goose migrations).
//
// # Error Handling
//
// Failures are classified once, here, and callers match them with errors.Is
// or errors.As:
//
//   - ErrUnavailable: the request never got a response (network failure).
//   - *RemoteError: non-2xx status; errors.Is(err, ErrUnauthorized) for 401/403.
//   - ErrMalformedResponse: a 2xx body that does not decode.
//
// Nothing in this package retries. Timeouts are opt-in via WithTimeout.
package client
