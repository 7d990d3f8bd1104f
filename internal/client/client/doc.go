// Package client contains the typed API of the flashcards backend.
//
// # Overview
//
// The package provides:
//  1. Endpoint contracts grouped by resource (AuthAPI, CategoryAPI,
//     FlashcardAPI) so that services and the session store can be tested
//     against fakes.
//  2. A concrete implementation (HTTPClient) that maps each call to a
//     transport.Request. Authorization headers, error classification and
//     forced logout live in the transport middleware, not here.
//
// # Error Handling
//
// Failures are *transport.Error values matched with errors.Is against the
// transport sentinels. Register additionally wraps ErrEmailTaken when the
// backend answers 400.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
