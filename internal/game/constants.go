package game

const (
	// FuseMin and FuseMax bound the fuse position. Reaching an edge
	// ends the round for the side it burned toward.
	FuseMin = -100.0
	FuseMax = 100.0

	// CorrectAnswerStep is how far the fuse moves toward the answering
	// team's winning side on a correct answer.
	CorrectAnswerStep = 25.0

	// LobbyCodeLength is the length of generated lobby codes
	LobbyCodeLength = 6

	// LobbyCodeChars are the characters used for generating lobby codes (excluding ambiguous chars)
	LobbyCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)
