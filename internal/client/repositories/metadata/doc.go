// Package metadata stores small opaque values by key in the client database.
// Keys are namespaced by their owners (for example "flashcards.session");
// the repository does not interpret values.
package metadata
