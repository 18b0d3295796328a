package models

// WinnerMapping records that a prize was drawn and who won it. At most one
// mapping exists per prize ID; a participant may appear in several mappings.
type WinnerMapping struct {
	PrizeID       string `bson:"prizeId" json:"prize_id"`
	ParticipantID string `bson:"participantId" json:"participant_id"`
}
