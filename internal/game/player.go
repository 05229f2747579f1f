package game

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleDealer Role = "dealer"
	RolePlayer Role = "player"
)

const (
	DefaultUsername = "Default"
	DealerUsername  = "Dealer"
)

// Player is a seat at the table. The dealer is a Player with RoleDealer.
type Player struct {
	ID       string
	Username string
	Role     Role
	hands    []*Hand
}

// NewPlayer creates a player holding a single empty hand
func NewPlayer(id, username string, role Role) *Player {
	if username == "" {
		username = DefaultUsername
	}

	p := &Player{
		ID:       id,
		Username: username,
		Role:     role,
	}
	p.ResetHands()
	return p
}

// ResetHands drops every hand and starts over with one empty hand.
func (p *Player) ResetHands() {
	p.hands = []*Hand{NewHand()}
}

func (p *Player) Hands() []*Hand {
	return p.hands
}

func (p *Player) NumHands() int {
	return len(p.hands)
}

// hand returns the only hand of the player. Splitting is not supported, so
// anything other than exactly one hand is a broken invariant.
func (p *Player) hand() *Hand {
	if len(p.hands) != 1 {
		panic(fmt.Sprintf("player %s holds %d hands, want 1", p.Username, len(p.hands)))
	}
	return p.hands[0]
}

func (p *Player) IsDealer() bool {
	return p.Role == RoleDealer
}

func (p *Player) String() string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(string(p.Role)) + ": " + p.Username)

	if p.IsDealer() {
		h := p.hand()
		fmt.Fprintf(&sb, "\n  Hand %s Total[%s]", h, h.Summary())
		return sb.String()
	}

	for i, h := range p.hands {
		fmt.Fprintf(&sb, "\n  Hand[%d]%s Total[%s] Result[%s]", i, h, h.Summary(), h.Result())
	}
	return sb.String()
}
