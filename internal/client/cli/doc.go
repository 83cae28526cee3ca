// Package cli provides the interactive NoteKeeper terminal client.
//
// It wires configuration, the gRPC backend client, the account and note
// controllers and a REPL that stands in for the app's screens. Typical flow:
// sign in (email/password or the Google account chooser), list notes, expand
// or add notes, and manage the account.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
