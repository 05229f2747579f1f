package game

import (
	"errors"
	"fmt"
	"strings"
)

type Decision string

const (
	Hit   Decision = "hit"
	Stand Decision = "stand"
)

// ParseDecision maps raw input to a Decision. Anything unrecognised comes
// back as-is and is rejected by the turn loop.
func ParseDecision(input string) Decision {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "h", "hit":
		return Hit
	case "s", "stand":
		return Stand
	}
	return Decision(strings.TrimSpace(input))
}

// Turn is what a player sees when asked to act.
type Turn struct {
	PlayerID string
	Username string
	Hand     string
	Total    string
	Dealer   string
}

// Decider supplies hit/stand decisions for player hands.
type Decider interface {
	Decide(t Turn) (Decision, error)
}

// Prompter is a Decider that can also be asked whether to deal again.
type Prompter interface {
	Decider
	PlayAgain() (bool, error)
}

// Outcome is the adjudicated result of one player hand.
type Outcome struct {
	PlayerID    string `json:"playerId"`
	Username    string `json:"username"`
	Hand        string `json:"hand"`
	Value       int    `json:"value"`
	Dealer      string `json:"dealer"`
	DealerValue int    `json:"dealerValue"`
	Result      Result `json:"result"`
}

func (g *Game) hit(h *Hand) (Card, error) {
	card, err := g.deck.DrawCard()
	if err != nil {
		return Card{}, err
	}
	h.InsertCard(card)
	return card, nil
}

// DealCards deals two cards to every player hand, then two to the dealer
func (g *Game) DealCards() error {
	g.phase = PhaseDealing

	for _, p := range g.players {
		for _, h := range p.hands {
			for i := 0; i < 2; i++ {
				if _, err := g.hit(h); err != nil {
					return fmt.Errorf("dealing to %s: %w", p.Username, err)
				}
			}
		}
	}

	h := g.dealer.hand()
	for i := 0; i < 2; i++ {
		if _, err := g.hit(h); err != nil {
			return fmt.Errorf("dealing to dealer: %w", err)
		}
	}

	g.emit(g.event(EventCardsDealt, nil, nil))
	return nil
}

// PlayerTurns asks every player hand for decisions until it stands, busts
// or reaches 21.
func (g *Game) PlayerTurns(d Decider) error {
	g.phase = PhasePlayerTurns
	dealerHand := g.dealer.hand()

	for _, p := range g.players {
		h := p.hand()

		e := g.event(EventTurn, p, h)
		e.Dealer = dealerHand.HiddenString()
		g.emit(e)

		for !h.Resolved() {
			if IsBlackjack(h.MaxValue()) || IsBust(h.MinValue()) {
				h.Resolve()
				g.emit(g.event(EventAutoStand, p, h))
				break
			}

			decision, err := d.Decide(Turn{
				PlayerID: p.ID,
				Username: p.Username,
				Hand:     h.String(),
				Total:    h.Summary(),
				Dealer:   dealerHand.HiddenString(),
			})
			if err != nil {
				return fmt.Errorf("decision for %s: %w", p.Username, err)
			}

			switch decision {
			case Hit:
				card, err := g.hit(h)
				if err != nil {
					return fmt.Errorf("hit for %s: %w", p.Username, err)
				}
				e := g.event(EventPlayerHit, p, h)
				e.Card = card.String()
				e.Dealer = dealerHand.HiddenString()
				g.emit(e)
			case Stand:
				h.Resolve()
				g.emit(g.event(EventPlayerStand, p, h))
			default:
				e := g.event(EventInvalidDecision, p, h)
				e.Error = fmt.Sprintf("invalid decision %q", string(decision))
				g.emit(e)
			}
		}
	}
	return nil
}

// IsDealerHit applies the dealer policy: hit below DealerStand using the
// high-ace total when it is still playable.
func IsDealerHit(minValue, maxValue int) bool {
	if maxValue > Blackjack {
		return minValue < DealerStand
	}
	return maxValue < DealerStand
}

// DealerTurn plays the dealer's hand after all players have played
func (g *Game) DealerTurn() error {
	g.phase = PhaseDealerTurn
	h := g.dealer.hand()
	g.emit(g.event(EventDealerTurn, g.dealer, h))

	for IsDealerHit(h.MinValue(), h.MaxValue()) {
		card, err := g.hit(h)
		if err != nil {
			return fmt.Errorf("dealer hit: %w", err)
		}
		e := g.event(EventDealerHit, g.dealer, h)
		e.Card = card.String()
		g.emit(e)
	}

	h.Resolve()
	g.emit(g.event(EventDealerStand, g.dealer, h))
	return nil
}

// ComputeHandResult adjudicates one player hand against the dealer hand and
// records the result on the player hand. A hand that already has a result
// keeps it.
func ComputeHandResult(pHand, dHand *Hand) Result {
	if pHand.Result() != InProgress {
		return pHand.Result()
	}

	pValue := pHand.Resolve()
	dValue := dHand.Resolve()

	var result Result
	switch {
	case pHand.Size() == 2 && IsBlackjack(pValue) && dHand.Size() == 2 && IsBlackjack(dValue):
		result = Tie
	case IsBust(pValue):
		// Player bust loses even when the dealer busts too
		result = Loss
	case pValue == dValue:
		result = Tie
	case pValue > dValue || IsBust(dValue):
		result = Win
	default:
		result = Loss
	}

	pHand.setResult(result)
	return result
}

// ComputeWinners adjudicates every player hand against the dealer
func (g *Game) ComputeWinners() []Outcome {
	g.phase = PhaseAdjudication
	dHand := g.dealer.hand()

	outcomes := make([]Outcome, 0, len(g.players))
	for _, p := range g.players {
		h := p.hand()
		result := ComputeHandResult(h, dHand)

		outcomes = append(outcomes, Outcome{
			PlayerID:    p.ID,
			Username:    p.Username,
			Hand:        h.String(),
			Value:       h.Value(),
			Dealer:      dHand.String(),
			DealerValue: dHand.Value(),
			Result:      result,
		})

		e := g.event(EventHandResult, p, h)
		e.Dealer = dHand.String()
		g.emit(e)
	}

	g.phase = PhaseComplete
	g.emit(g.event(EventRoundComplete, g.dealer, dHand))
	return outcomes
}

// PlayRound runs one round from the initial deal to adjudication. On error
// the round is abandoned and the game has to be reset.
func (g *Game) PlayRound(d Decider) ([]Outcome, error) {
	if g.phase != PhaseReady {
		return nil, ErrRoundNotReady
	}

	g.emit(g.event(EventRoundStarted, nil, nil))

	if err := g.DealCards(); err != nil {
		return nil, g.abort(err)
	}
	if err := g.PlayerTurns(d); err != nil {
		return nil, g.abort(err)
	}
	if err := g.DealerTurn(); err != nil {
		return nil, g.abort(err)
	}
	return g.ComputeWinners(), nil
}

func (g *Game) abort(err error) error {
	e := g.event(EventRoundAborted, nil, nil)
	e.Error = err.Error()
	g.emit(e)
	return err
}

// maxRedeals bounds how many exhausted rounds in a row Run throws away.
const maxRedeals = 3

// Run plays rounds until the prompter declines another one. A round that
// runs out of cards after the deal is thrown away and dealt again from a
// fresh deck; running out during the deal itself means the table is too
// large and is returned.
func (g *Game) Run(p Prompter) error {
	if g.phase != PhaseReady {
		g.Reset()
	}

	redeals := 0
	for {
		_, err := g.PlayRound(p)
		if err != nil {
			if errors.Is(err, ErrDeckExhausted) && g.phase != PhaseDealing && redeals < maxRedeals {
				redeals++
				g.Reset()
				g.emit(g.event(EventRoundRedealt, nil, nil))
				continue
			}
			return err
		}
		redeals = 0

		again, err := p.PlayAgain()
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		g.Reset()
	}
}
