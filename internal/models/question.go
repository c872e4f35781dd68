package models

// Question is a single trivia question with its correct answer.
// The answer never leaves the server; snapshots only carry the text.
type Question struct {
	ID     int
	Text   string
	Answer string
}
