package models

// NextDrawPayload is the combined state the raffle screen needs before each
// draw. The backend never picks a winner itself; the caller draws from
// ParticipantPoolIDs and submits the result separately.
type NextDrawPayload struct {
	// Every winner recorded so far, in draw order.
	CurrentMappings []WinnerMapping `json:"current_mappings"`
	// Present participants who have not won anything yet.
	ParticipantPoolIDs []string `json:"participant_pool_ids"`
	// First prize in catalog order without a winner, null once every prize
	// has been drawn.
	NextPrize *Prize `json:"next_prize"`
	// IDs of the prizes sharing display name and provider with NextPrize,
	// null when there is no next prize.
	PrizeGroupIDs []string `json:"prize_group_ids"`
}
