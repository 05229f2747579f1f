package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("p1", "testuser", RolePlayer)
	d := NewPlayer("d1", DealerUsername, RoleDealer)

	assert.Equal(t, "testuser", p.Username)
	assert.Equal(t, RolePlayer, p.Role)
	assert.False(t, p.IsDealer())
	assert.Equal(t, 1, p.NumHands())

	assert.Equal(t, DealerUsername, d.Username)
	assert.True(t, d.IsDealer())
	assert.Equal(t, 1, d.NumHands())
}

func TestDefaultUsername(t *testing.T) {
	p := NewPlayer("p1", "", RolePlayer)
	assert.Equal(t, DefaultUsername, p.Username)
}

func TestResetHands(t *testing.T) {
	p := NewPlayer("p1", "testuser", RolePlayer)
	p.Hands()[0].InsertCard(Card{Rank: Nine, Suit: Club})

	p.ResetHands()
	assert.Equal(t, 1, p.NumHands())
	assert.Equal(t, 0, p.Hands()[0].Size())
	assert.Equal(t, InProgress, p.Hands()[0].Result())
}

func TestPlayerString(t *testing.T) {
	p := NewPlayer("p1", "testuser", RolePlayer)
	d := NewPlayer("d1", DealerUsername, RoleDealer)

	assert.Equal(t, "PLAYER: testuser\n  Hand[0] Total[0] Result[inProgress]", p.String())
	assert.Equal(t, "DEALER: Dealer\n  Hand  Total[0]", d.String())

	p.Hands()[0].InsertCard(Card{Rank: Ace, Suit: Spade})
	p.Hands()[0].InsertCard(Card{Rank: Three, Suit: Heart})
	assert.Equal(t, "PLAYER: testuser\n  Hand[0]AS,3H Total[4/14] Result[inProgress]", p.String())
}

func TestSingleHandInvariant(t *testing.T) {
	p := NewPlayer("p1", "testuser", RolePlayer)
	p.hands = append(p.hands, NewHand())

	assert.Panics(t, func() { p.hand() })
}
