// Package quiz runs a timed test session over a fixed list of flashcards.
//
// A Session moves NotStarted -> Running -> Finished. While running it shows
// one card at a time and counts elapsed seconds on a ticker goroutine. The
// goroutine is stopped whenever the session leaves Running, whether by
// finishing, Reset or Close.
package quiz
