package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"tycoon/internal/domain"
	"tycoon/internal/ports"
	"tycoon/internal/ports/filestore"
	"tycoon/internal/replay"
)

var (
	flagLog   = flag.String("log", "", "Path to an archived game record (JSON)")
	flagHands = flag.Bool("hands", false, "Print every hand after each action")
	flagCard  = flag.String("card", "", "Highlight the steps that play this card, e.g. 3♠ or Joker")
)

func main() {
	flag.Parse()
	if *flagLog == "" {
		pterm.Error.Println("missing -log")
		flag.Usage()
		os.Exit(2)
	}

	var highlight *domain.Card
	if *flagCard != "" {
		c, err := domain.ParseCard(*flagCard)
		if err != nil {
			pterm.Error.Printfln("-card: %v", err)
			os.Exit(2)
		}
		highlight = &c
	}

	record, err := filestore.ReadRecord(*flagLog)
	if err != nil {
		pterm.Error.Printfln("load record: %v", err)
		os.Exit(1)
	}

	pterm.DefaultHeader.WithFullWidth().Printfln("Tycoon game %s (table %s)", record.GameID, record.SessionID)
	pterm.Info.Printfln("%d players, %d actions", record.PlayerCount, len(record.Actions))

	start, err := replay.Deal(record)
	if err != nil {
		pterm.Error.Printfln("deal: %v", err)
		os.Exit(1)
	}
	printHands(record, start)

	hits := 0
	g, err := replay.Run(record, func(s replay.Step) error {
		line := describeStep(record, s)
		if highlight != nil && s.Plays(*highlight) {
			hits++
			line = pterm.BgYellow.Sprint(line)
		}
		pterm.Println(line)
		if *flagHands {
			printHands(record, s.Game)
		}
		return nil
	})
	if err != nil {
		pterm.Error.Printfln("replay stopped: %v", err)
		os.Exit(1)
	}

	printHands(record, g)
	if highlight != nil {
		pterm.Info.Printfln("%s was played in %d step(s)", highlight, hits)
	}
	printFinish(record)
}

func playerName(record ports.GameRecord, seat int) string {
	if seat >= 0 && seat < len(record.Seats) {
		return record.Seats[seat]
	}
	return "player " + strconv.Itoa(seat)
}

func describeStep(record ports.GameRecord, s replay.Step) string {
	name := pterm.LightCyan(playerName(record, s.Action.Player))
	var line string
	switch s.Action.Kind {
	case domain.ActionPlay:
		line = pterm.Sprintf("%3d  %s plays %s", s.Index+1, name, cardList(s.Cards))
	default:
		line = pterm.Sprintf("%3d  %s passes", s.Index+1, name)
	}
	if s.RevolutionToggled {
		if s.Game.Revolution {
			line += " " + pterm.LightMagenta("[revolution]")
		} else {
			line += " " + pterm.LightMagenta("[revolution undone]")
		}
	}
	if s.Cleared != domain.ClearNone {
		line += " " + pterm.Yellow("[table cleared: "+s.Cleared.String()+"]")
	}
	if len(s.Game.HandOf(s.Action.Player)) == 0 && s.Action.Kind == domain.ActionPlay {
		line += " " + pterm.LightGreen("[out]")
	}
	return line
}

func cardList(cards []domain.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = colorCard(c)
	}
	return strings.Join(parts, " ")
}

func colorCard(c domain.Card) string {
	switch {
	case c.IsJoker():
		return pterm.LightMagenta(c.String())
	case c.Suit == domain.Diamonds || c.Suit == domain.Hearts:
		return pterm.LightRed(c.String())
	default:
		return c.String()
	}
}

func printHands(record ports.GameRecord, g *domain.Game) {
	data := pterm.TableData{{"Seat", "Player", "Cards", "Hand"}}
	for seat := 0; seat < g.PlayerCount(); seat++ {
		hand := g.HandOf(seat)
		data = append(data, []string{
			strconv.Itoa(seat),
			playerName(record, seat),
			strconv.Itoa(len(hand)),
			cardList(hand),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func printFinish(record ports.GameRecord) {
	if len(record.FinishOrder) == 0 {
		return
	}
	items := make([]pterm.BulletListItem, len(record.FinishOrder))
	for i, userID := range record.FinishOrder {
		items[i] = pterm.BulletListItem{Level: 0, Text: pterm.Sprintf("%d. %s", i+1, userID)}
	}
	pterm.DefaultSection.Println("Finish order")
	if err := pterm.DefaultBulletList.WithItems(items).Render(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
