// Package cli provides the interactive portfolio admin console.
//
// It wires configuration, the local session store, the API client and an
// interactive REPL. Typical flow: restore the stored session, start a
// background connectivity watcher and execute user commands until exit.
//
// Key features:
//   - Login / Logout / Register (session kept across runs)
//   - Dashboard summary
//   - Project and inbox listing with bulk delete / mark-read
//   - Tag management and a settings view
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
