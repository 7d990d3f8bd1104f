// Package session owns the authentication state of the client.
//
// A Store is created once by the composition root, hydrated from local
// storage before anything depends on it, and then shared by the transport
// (as its token source and 401 handler) and the shell.
//
// # Invariants
//
//   - The session is either empty or holds both a user and a token; readers
//     never observe one without the other.
//   - During login the freshly issued token is used for the profile request
//     through the request context only. It becomes visible to other callers
//     together with the user, or not at all.
//   - Only the Store writes the persisted entry.
//   - A forced clear (Invalidate) happens at most once per session and only
//     for the token that was actually rejected.
//
// Subscribers are notified synchronously after every change and must not
// call mutating Store methods from the callback.
package session
