package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope mirrors the server's wire format.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// send marshals a payload into an envelope and writes it.
func send(c *websocket.Conn, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.WriteJSON(&Envelope{Event: event, Data: data})
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
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
			var env Envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV [%s]: %s", env.Event, string(env.Data))
		}
	}()

	name := "demo"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	log.Println("Joining lobby...")
	if err := send(c, "join-lobby", map[string]string{"playerName": name}); err != nil {
		log.Println("Write error:", err)
		return
	}
	if err := send(c, "quick-join", map[string]string{"playerName": name}); err != nil {
		log.Println("Write error:", err)
		return
	}

	log.Println("Client started. Type rock, paper or scissors and press Enter to play.")

	// Write loop
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
			text = strings.TrimSpace(text)

			switch text {
			case "rock", "paper", "scissors":
				if err := send(c, "make-move", map[string]string{"choice": text}); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Printf("-> SENT: %s", text)
			case "reset":
				if err := send(c, "reset-game", nil); err != nil {
					log.Println("Write error:", err)
					return
				}
			case "leave":
				if err := send(c, "leave-game", nil); err != nil {
					log.Println("Write error:", err)
					return
				}
			}
		}
	}
}
