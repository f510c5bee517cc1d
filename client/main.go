package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// send formats and sends an event envelope to the server.
func send(c *websocket.Conn, event string, data interface{}) error {
	env := envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		env.Data = raw
	}
	return c.WriteJSON(&env)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:3001", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV %s: %s", env.Event, string(env.Data))
		}
	}()

	log.Println("Commands: join <room> <name> <userId> | ready | start | say <text> | draw <x> <y> | leave")

	var roomCode string
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "join":
				if len(fields) < 4 {
					log.Println("usage: join <room> <name> <userId>")
					continue
				}
				userID, _ := strconv.ParseInt(fields[3], 10, 64)
				roomCode = strings.ToUpper(fields[1])
				err = send(c, "join_room", map[string]interface{}{
					"room": roomCode, "name": fields[2], "userId": userID,
				})
			case "ready":
				err = send(c, "toggle_ready", map[string]string{"room": roomCode})
			case "start":
				err = send(c, "start_game", map[string]string{"room": roomCode})
			case "say":
				err = send(c, "send_message", map[string]string{
					"room": roomCode, "message": strings.Join(fields[1:], " "),
				})
			case "draw":
				if len(fields) < 3 {
					log.Println("usage: draw <x> <y>")
					continue
				}
				x, _ := strconv.ParseFloat(fields[1], 64)
				y, _ := strconv.ParseFloat(fields[2], 64)
				err = send(c, "begin_path", map[string]interface{}{
					"room": roomCode, "x": x, "y": y, "color": "black", "width": 5,
				})
			case "leave":
				err = send(c, "leave_room", map[string]string{"room": roomCode})
			default:
				log.Println("unknown command:", fields[0])
				continue
			}

			if err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT %s", fields[0])
		}
	}
}
