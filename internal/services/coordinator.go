package services

import (
	"sync"

	"github.com/tenkey-events/raffle-backend/internal/models"
)

// RaffleCoordinator composes the three stores into the payload the raffle
// screen polls before each draw. It never draws: the caller picks a winner
// from the returned pool and submits it through RaffleService.SetWinner,
// which keeps the selection deterministic to test and trivial to override by
// hand.
type RaffleCoordinator struct {
	mu           *sync.RWMutex
	participants *ParticipantService
	prizes       *PrizeService
	ledger       *RaffleService
}

// NewRaffleCoordinator creates a RaffleCoordinator over the three stores.
func NewRaffleCoordinator(mu *sync.RWMutex, participants *ParticipantService, prizes *PrizeService, ledger *RaffleService) *RaffleCoordinator {
	return &RaffleCoordinator{
		mu:           mu,
		participants: participants,
		prizes:       prizes,
		ledger:       ledger,
	}
}

// NextDraw computes the next-draw payload from scratch under one read lock:
// the mapping table, the pool of present participants who have not won yet,
// the first undrawn prize in catalog order and that prize's group. No caching,
// so the payload can never lag the ledger.
func (c *RaffleCoordinator) NextDraw() models.NextDrawPayload {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mappings := c.ledger.mappingsLocked()

	winners := make(map[string]bool, len(mappings))
	drawn := make(map[string]bool, len(mappings))
	for _, mapping := range mappings {
		winners[mapping.ParticipantID] = true
		drawn[mapping.PrizeID] = true
	}

	pool := make([]string, 0)
	for _, id := range c.participants.presentIDsLocked() {
		if !winners[id] {
			pool = append(pool, id)
		}
	}

	var nextPrize *models.Prize
	for i := range c.prizes.catalog {
		if !drawn[c.prizes.catalog[i].ID] {
			prize := c.prizes.catalog[i]
			nextPrize = &prize
			break
		}
	}

	var groupIDs []string
	if nextPrize != nil {
		groupIDs = c.prizes.groupLocked(nextPrize.ID)
	}

	return models.NextDrawPayload{
		CurrentMappings:    mappings,
		ParticipantPoolIDs: pool,
		NextPrize:          nextPrize,
		PrizeGroupIDs:      groupIDs,
	}
}
