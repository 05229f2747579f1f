package game

// EventKind identifies what happened at the table.
type EventKind string

const (
	EventRoundStarted    EventKind = "round_started"
	EventCardsDealt      EventKind = "cards_dealt"
	EventTurn            EventKind = "turn"
	EventPlayerHit       EventKind = "player_hit"
	EventPlayerStand     EventKind = "player_stand"
	EventAutoStand       EventKind = "auto_stand"
	EventInvalidDecision EventKind = "invalid_decision"
	EventDealerTurn      EventKind = "dealer_turn"
	EventDealerHit       EventKind = "dealer_hit"
	EventDealerStand     EventKind = "dealer_stand"
	EventHandResult      EventKind = "hand_result"
	EventRoundComplete   EventKind = "round_complete"
	EventRoundAborted    EventKind = "round_aborted"
	EventRoundRedealt    EventKind = "round_redealt"
)

// Event is a value copy of one step of a round. Listeners never see engine
// state directly.
type Event struct {
	Kind     EventKind `json:"kind"`
	GameID   string    `json:"gameId"`
	PlayerID string    `json:"playerId,omitempty"`
	Username string    `json:"username,omitempty"`
	Card     string    `json:"card,omitempty"`
	Hand     string    `json:"hand,omitempty"`
	Total    string    `json:"total,omitempty"`
	Value    int       `json:"value,omitempty"`
	Dealer   string    `json:"dealer,omitempty"`
	Result   Result    `json:"result,omitempty"`
	Error    string    `json:"error,omitempty"`
	Snapshot Snapshot  `json:"snapshot"`
}

// Listener receives events as the round progresses.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a plain function to a Listener.
type ListenerFunc func(e Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

type HandView struct {
	Cards  string `json:"cards"`
	Total  string `json:"total"`
	Value  int    `json:"value"`
	Size   int    `json:"size"`
	Result Result `json:"result"`
}

type SeatView struct {
	PlayerID string     `json:"playerId"`
	Username string     `json:"username"`
	Role     Role       `json:"role"`
	Hands    []HandView `json:"hands"`
}

// Snapshot is a rendered view of the whole table.
type Snapshot struct {
	GameID  string     `json:"gameId"`
	Phase   Phase      `json:"phase"`
	Dealer  SeatView   `json:"dealer"`
	Players []SeatView `json:"players"`
}

func viewHand(h *Hand, hidden bool) HandView {
	if hidden {
		return HandView{Cards: h.HiddenString(), Size: h.Size(), Result: h.Result()}
	}
	return HandView{
		Cards:  h.String(),
		Total:  h.Summary(),
		Value:  h.Value(),
		Size:   h.Size(),
		Result: h.Result(),
	}
}

func viewSeat(p *Player, hidden bool) SeatView {
	seat := SeatView{
		PlayerID: p.ID,
		Username: p.Username,
		Role:     p.Role,
		Hands:    make([]HandView, len(p.hands)),
	}
	for i, h := range p.hands {
		seat.Hands[i] = viewHand(h, hidden)
	}
	return seat
}
