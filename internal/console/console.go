// Package console is the text front end of the table: it reads decisions
// from an input stream and renders table events with pterm.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/pterm/pterm"
)

// maxLineLength is how much of one input line is kept. The rest of a
// longer line is read and discarded.
const maxLineLength = 1024

type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// readLine returns the next input line, trimmed and cut to maxLineLength.
// io.EOF is only returned once nothing is left to read.
func (c *Console) readLine() (string, error) {
	var line []byte
	for {
		chunk, isPrefix, err := c.in.ReadLine()
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				break
			}
			return "", err
		}
		if room := maxLineLength - len(line); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			line = append(line, chunk...)
		}
		if !isPrefix {
			break
		}
	}
	return strings.TrimSpace(string(line)), nil
}

func (c *Console) print(s string) {
	pterm.Fprint(c.out, s)
}

// Welcome prints the banner.
func (c *Console) Welcome() {
	c.print(pterm.DefaultHeader.Sprint("Blackjack") + "\n")
}

// AskName asks for a player name. An empty answer is allowed and gets the
// default username from the engine.
func (c *Console) AskName() (string, error) {
	c.print("Welcome to Blackjack! Please enter your player name: ")
	return c.readLine()
}

// Decide implements game.Decider
func (c *Console) Decide(t game.Turn) (game.Decision, error) {
	c.print(fmt.Sprintf("Player %s type h to HIT or s to STAND? [h/s] ", t.Username))
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	return game.ParseDecision(line), nil
}

// PlayAgain implements game.Prompter
func (c *Console) PlayAgain() (bool, error) {
	c.print("Would you like to play again? Press y for YES and any other key for NO. [y/?] ")
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes", nil
}

// OnEvent implements game.Listener
func (c *Console) OnEvent(e game.Event) {
	switch e.Kind {
	case game.EventRoundStarted:
		c.print(pterm.DefaultSection.Sprint("The cards have been shuffled and the dealer is ready to deal"))
	case game.EventTurn:
		c.print(pterm.Sprintf("Player %s is showing [%s] Total[%s] Dealer is showing [%s]\n",
			e.Username, colorCards(e.Hand), e.Total, colorCards(e.Dealer)))
	case game.EventPlayerHit:
		c.print(pterm.Sprintf("Player %s is dealt a [%s]\n", e.Username, colorCards(e.Card)))
		c.print(pterm.Sprintf("Player %s is showing [%s] Total[%s] Dealer is showing [%s]\n",
			e.Username, colorCards(e.Hand), e.Total, colorCards(e.Dealer)))
	case game.EventAutoStand:
		c.print(pterm.Sprintf("Player %s must STAND with [%s] Total[%d]\n", e.Username, colorCards(e.Hand), e.Value))
	case game.EventPlayerStand:
		c.print(pterm.Sprintf("Player %s will STAND with [%s] Total[%d]\n", e.Username, colorCards(e.Hand), e.Value))
	case game.EventInvalidDecision:
		c.print(pterm.Warning.Sprintln("Invalid user input"))
	case game.EventDealerTurn:
		c.print(pterm.Sprintf("Dealer is showing [%s]\n", colorCards(e.Hand)))
	case game.EventDealerHit:
		c.print(pterm.Sprintf("Dealer must HIT. Dealer is dealt [%s]\n", colorCards(e.Card)))
	case game.EventDealerStand:
		c.print(pterm.Sprintf("Dealer must STAND with [%s] Total[%d]\n", colorCards(e.Hand), e.Value))
	case game.EventHandResult:
		c.print(resultLine(e))
	case game.EventRoundComplete:
		c.printResults(e.Snapshot)
	case game.EventRoundAborted:
		c.print(pterm.Error.Sprintfln("An error in the game has occurred[%s].", e.Error))
	case game.EventRoundRedealt:
		c.print(pterm.Warning.Sprintln("Restarting game."))
	}
}

func resultLine(e game.Event) string {
	switch e.Result {
	case game.Win:
		return pterm.Success.Sprintfln("RESULT: Congratulations %s you WIN", e.Username)
	case game.Tie:
		return pterm.Info.Sprintfln("RESULT: Player %s TIES with the dealer", e.Username)
	}
	if game.IsBust(e.Value) {
		return pterm.Error.Sprintfln("RESULT: Player %s BUSTED dealer wins", e.Username)
	}
	return pterm.Error.Sprintfln("RESULT: Player %s LOSES to the dealer", e.Username)
}

func (c *Console) printResults(s game.Snapshot) {
	data := pterm.TableData{{"Player", "Hand", "Total", "Result"}}
	for _, h := range s.Dealer.Hands {
		data = append(data, []string{s.Dealer.Username, colorCards(h.Cards), fmt.Sprint(h.Value), ""})
	}
	for _, p := range s.Players {
		for _, h := range p.Hands {
			data = append(data, []string{p.Username, colorCards(h.Cards), fmt.Sprint(h.Value), string(h.Result)})
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		log.Printf("console: error rendering results: %v", err)
		for _, row := range data[1:] {
			c.print(strings.Join(row, " ") + "\n")
		}
		return
	}
	c.print(table + "\n")
}

// colorCards paints red suits red and hidden cards grey.
func colorCards(codes string) string {
	if codes == "" {
		return ""
	}
	parts := strings.Split(codes, ",")
	for i, code := range parts {
		switch {
		case code == "XX":
			parts[i] = pterm.Gray(code)
		case strings.HasSuffix(code, "H"), strings.HasSuffix(code, "D"):
			parts[i] = pterm.LightRed(code)
		}
	}
	return strings.Join(parts, ",")
}
