package server

import "math/rand"

const idLetters = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomID makes a short opaque identifier. Uniqueness is the caller's
// problem; the registry retries on collision.
func randomID(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idLetters[rnd.Intn(len(idLetters))]
	}
	return string(b)
}
