package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	rl "github.com/chzyer/readline"

	"github.com/pigstygame/pigsty/comms"
	"github.com/pigstygame/pigsty/game"
)

// Terminal client, mostly for poking at a running server. It speaks the
// line-framed TCP protocol; state shown is whatever the server last sent.

type client struct {
	enc *comms.Encoder

	mu       sync.Mutex
	playerID string
	roomID   string
	view     *game.StateView
}

func main() {
	addr := flag.String("addr", "localhost:8081", "server tcp address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Printf("cannot connect: %v\n", err)
		return
	}
	defer conn.Close()

	completer := rl.NewPrefixCompleter(
		rl.PcItem("games"),
		rl.PcItem("create",
			rl.PcItem("basic"),
			rl.PcItem("expansion"),
		),
		rl.PcItem("join"),
		rl.PcItem("ready"),
		rl.PcItem("unready"),
		rl.PcItem("start"),
		rl.PcItem("hand"),
		rl.PcItem("pigs"),
		rl.PcItem("draw"),
		rl.PcItem("play"),
		rl.PcItem("discard"),
		rl.PcItem("end"),
		rl.PcItem("say"),
		rl.PcItem("leave"),
	)

	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		HistoryFile:       "hist.txt",
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	c := &client{enc: comms.NewEncoder(conn)}

	go c.receive(comms.NewDecoder(conn), l.Stdout())

	repl(l, c)
}

func (c *client) receive(dec *comms.Decoder, out io.Writer) {
	for {
		msg, err := dec.Decode()
		if err != nil {
			fmt.Fprintf(out, "connection lost: %v\n", err)
			return
		}
		c.handle(msg, out)
	}
}

func (c *client) handle(msg comms.Message, out io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Type {
	case "connected":
		var d comms.Connected
		_ = comms.Decode(msg, &d)
		c.playerID = d.PlayerID
		fmt.Fprintf(out, "connected as %s\n", d.PlayerID)
	case "gamesList":
		var d []comms.GameSummary
		_ = comms.Decode(msg, &d)
		if len(d) == 0 {
			fmt.Fprintf(out, "no open games\n")
			return
		}
		for _, g := range d {
			fmt.Fprintf(out, "%s  %d/%d  %s\n", g.ID, g.PlayerCount, g.MaxPlayers, g.GameMode)
		}
	case "gameCreated":
		var d comms.GameCreated
		_ = comms.Decode(msg, &d)
		c.roomID = d.RoomID
		fmt.Fprintf(out, "created room %s\n", d.RoomID)
	case "roomState":
		var d comms.RoomState
		_ = comms.Decode(msg, &d)
		c.roomID = d.ID
		fmt.Fprintf(out, "room %s (%s):\n", d.ID, d.Status)
		for _, p := range d.Players {
			ready := " "
			if p.Ready {
				ready = "*"
			}
			fmt.Fprintf(out, "  %s %s\n", ready, p.Name)
		}
	case "joinError":
		var d comms.JoinError
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "cannot join: %s\n", d.Message)
	case "gameStarted":
		var d comms.GameStarted
		_ = comms.Decode(msg, &d)
		c.roomID = d.RoomID
		c.view = &d.StateView
		fmt.Fprintf(out, "game on! %s mode, %d players\n", d.Mode, len(d.Players))
	case "gameStateUpdated":
		var d game.StateView
		_ = comms.Decode(msg, &d)
		c.view = &d
	case "cardPlayed":
		var d comms.CardPlayed
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "%s played %s\n", c.name(d.PlayerID), d.Card.Type)
	case "cardDrawn":
		var d comms.CardDrawn
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "%s drew a card (%d in hand)\n", c.name(d.PlayerID), d.HandCount)
	case "cardDiscarded":
		var d comms.CardDiscarded
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "%s discarded %s\n", c.name(d.PlayerID), d.Card.Type)
	case "turnStarted":
		var d comms.TurnStarted
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "turn %d: %s to play\n", d.TurnCount, c.name(d.PlayerID))
	case "gameEnded":
		var d comms.GameEnded
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "%s wins!\n", d.Winner.Name)
	case "roomUpdated":
		var d comms.RoomUpdated
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "room now has %d players\n", len(d.Players))
	case "news":
		var d comms.News
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "<%s> %s\n", d.Who, d.What)
	case "error":
		var d comms.WireError
		_ = comms.Decode(msg, &d)
		fmt.Fprintf(out, "error: %s\n", d.Message)
	case "pong", "turnEnded":
		// quiet
	default:
		fmt.Fprintf(out, "? %s\n", msg.Type)
	}
}

// name resolves a player id against the last seen state, under mu.
func (c *client) name(id string) string {
	if c.view != nil {
		for _, p := range c.view.Players {
			if p.ID == id {
				return p.Name
			}
		}
	}
	if id == c.playerID {
		return "you"
	}
	return id
}

func (c *client) send(mtype string, data interface{}) {
	if err := c.enc.Encode(mtype, data); err != nil {
		fmt.Printf("send failed: %v\n", err)
	}
}

func (c *client) snapshot() (string, string, *game.StateView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID, c.roomID, c.view
}

func printHand(view *game.StateView, playerID string) {
	if view == nil {
		fmt.Printf("no game\n")
		return
	}
	for _, p := range view.Players {
		if p.ID != playerID {
			continue
		}
		for _, card := range p.Hand {
			fmt.Printf("  %s (%s)\n", card.ID, card.Type)
		}
		return
	}
}

func printPigs(view *game.StateView) {
	if view == nil {
		fmt.Printf("no game\n")
		return
	}
	for _, p := range view.Players {
		fmt.Printf("%s:\n", p.Name)
		for _, pig := range p.Pigs {
			barn := ""
			if pig.Barn != nil {
				barn = " [barn"
				if pig.Barn.HasLightningRod {
					barn += "+rod"
				}
				if pig.Barn.IsLocked {
					barn += "+lock"
				}
				barn += "]"
			}
			fmt.Printf("  %s %s%s\n", pig.ID, pig.Status, barn)
		}
	}
}

func repl(l *rl.Instance, c *client) {
	for {
		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
		cmd := parts[0]
		rest := ""
		if len(parts) == 2 {
			rest = parts[1]
		}

		playerID, roomID, view := c.snapshot()

		switch cmd {
		case "games":
			c.send("getGames", nil)
		case "create":
			args := strings.Fields(rest)
			mode := game.ModeBasic
			max := 4
			if len(args) > 0 {
				mode = game.Mode(args[0])
			}
			if len(args) > 1 {
				if n, err := strconv.Atoi(args[1]); err == nil {
					max = n
				}
			}
			c.send("createGame", comms.CreateGameReq{GameMode: mode, MaxPlayers: max})
		case "join":
			var room, name string
			if _, err := fmt.Sscan(rest, &room, &name); err != nil {
				fmt.Printf("join <room> <name>\n")
				continue
			}
			c.send("joinRoom", comms.JoinRoomReq{RoomID: room, PlayerName: name})
		case "ready":
			c.send("toggleReady", comms.ToggleReadyReq{RoomID: roomID, Ready: true})
		case "unready":
			c.send("toggleReady", comms.ToggleReadyReq{RoomID: roomID, Ready: false})
		case "start":
			c.send("startGame", comms.StartGameReq{RoomID: roomID})
		case "hand":
			printHand(view, playerID)
		case "pigs":
			printPigs(view)
		case "draw":
			c.send("drawCard", comms.DrawCardReq{RoomID: roomID, PlayerID: playerID})
		case "play":
			args := strings.Fields(rest)
			if len(args) == 0 {
				fmt.Printf("play <cardId> [pigId] [playerId]\n")
				continue
			}
			req := comms.PlayCardReq{RoomID: roomID, CardID: args[0], PlayerID: playerID}
			if len(args) > 1 {
				req.TargetPigID = args[1]
			}
			if len(args) > 2 {
				req.TargetPlayerID = args[2]
			}
			c.send("playCard", req)
		case "discard":
			if rest == "" {
				fmt.Printf("discard <cardId>\n")
				continue
			}
			c.send("discardCard", comms.DiscardCardReq{RoomID: roomID, CardID: rest, PlayerID: playerID})
		case "end":
			c.send("endTurn", comms.EndTurnReq{RoomID: roomID, PlayerID: playerID})
		case "say":
			if rest == "" {
				continue
			}
			c.send("say", comms.SayReq{RoomID: roomID, Text: rest})
		case "leave":
			c.send("leaveRoom", comms.LeaveRoomReq{RoomID: roomID})
		case "":
			// show the table on an empty line
			printPigs(view)
		default:
			fmt.Printf("unknown\n")
		}
	}
}
