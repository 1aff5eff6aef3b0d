package domain

import "math"

// KFactor bounds how far one game can move a rating.
const KFactor = 32.0

// ExpectedScore is the probability, on the Elo curve, that a player rated
// rating beats one rated opponent.
func ExpectedScore(rating, opponent int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponent-rating)/400))
}

// OutcomeScore maps a finished game to p's Elo score: 1 for a win, 0.5 for
// a draw and 0 for a loss.
func OutcomeScore(winner, p PlayerID) float64 {
	switch winner {
	case Empty:
		return 0.5
	case p:
		return 1
	}
	return 0
}

// CalculateElo returns the rating after one game scored score against an
// opponent rated opponent. Ratings never drop below zero.
func CalculateElo(rating, opponent int, score float64) int {
	next := int(float64(rating) + KFactor*(score-ExpectedScore(rating, opponent)))
	return max(next, 0)
}
