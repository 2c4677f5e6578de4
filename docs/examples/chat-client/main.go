// Meetloop Chat Client Example
//
// This is a minimal terminal client for the Meetloop realtime relay.
//
// Usage:
//   go run main.go -server ws://localhost:3000/ws -event evt-1 -from alice
//
// Incoming messages are printed to stdout; lines typed on stdin are sent
// to everyone else connected for the same event.

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
)

// ChatMessage mirrors the relay frame format.
type ChatMessage struct {
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	EventID string `json:"eventId"`
	Text    string `json:"text"`
}

func main() {
	server := flag.String("server", "ws://localhost:3000/ws", "relay URL")
	event := flag.String("event", "", "event id to join (empty joins all events)")
	from := flag.String("from", "anonymous", "sender name")
	flag.Parse()

	target, err := url.Parse(*server)
	if err != nil {
		log.Fatalf("invalid server URL: %v", err)
	}
	if *event != "" {
		q := target.Query()
		q.Set("event_id", *event)
		target.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.Dial(target.String(), nil)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close()

	log.Printf("connected to %s", target.String())

	done := make(chan struct{})

	// Print every broadcast we receive
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("connection closed: %v", err)
				return
			}

			var msg ChatMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Printf("unreadable frame: %v", err)
				continue
			}
			fmt.Printf("[%s] %s: %s\n", msg.EventID, msg.From, msg.Text)
		}
	}()

	// Send each stdin line as a chat message
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := scanner.Text()
			if text == "" {
				continue
			}

			msg := ChatMessage{From: *from, EventID: *event, Text: text}
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Printf("encode: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("send: %v", err)
				return
			}
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		log.Println("closing connection")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
