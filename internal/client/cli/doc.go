// Package cli provides the interactive flashcards shell.
//
// NewApp wires configuration, the local session database, the API transport,
// the session store and the library, hydrates the session, and returns an
// App whose Run method reads commands until the user exits.
//
// Key features:
//   - Register / Login / Logout / Whoami
//   - Categories: list, add, rename, delete
//   - Flashcards: list with category filter and text query, show, add, edit,
//     delete, server-side search
//   - Statistics per category
//
// A 401 from any call ends the session; the shell says so and returns to
// the login screen.
package cli
