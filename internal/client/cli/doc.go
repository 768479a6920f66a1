// Package cli provides the interactive Growth Pods command-line client.
//
// It wires configuration, local storage, the HTTP transport and the auth
// service into an interactive REPL. A background watcher pings the identity
// service and the prompt shows both the session state and reachability.
//
// Commands:
//   - login / logout
//   - refresh: ask the server for a fresh session
//   - forgot / reset: password recovery
//   - status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
