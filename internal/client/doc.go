// Package client is the data-sync layer used by flashcard front ends.
//
// A Provider is created once by the application root and passed to every
// consumer. It fetches cards through an API (HTTPAPI in production), keeps
// bookmark, mastery and recently-viewed state in a localstore, and reports
// failures through a Notifier instead of returning them from reads.
//
// With server sync enabled (the default) local state is a write-through
// cache: each mutator writes locally first and then calls the server. A
// failed remote call is notified and not rolled back.
//
// Every logical query carries a sequence number, so a slow response that
// arrives after a newer one has been applied is discarded.
package client
