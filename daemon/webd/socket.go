package webd

import (
	"encoding/json"
	"log"
	"log/slog"

	"github.com/olahol/melody"
	"github.com/rotblauer/stopd/cache"
	"github.com/rotblauer/stopd/types/stoppage"
)

type websocketAction string

var websocketActionDetected websocketAction = "detected"

type broadstop struct {
	Action    websocketAction     `json:"action"`
	Stoppages []stoppage.Stoppage `json:"stoppages"`
}

// initMelody sets up the websocket handler.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()

	// Greet new connections with the last run record, if any.
	s.melodyInstance.HandleConnect(func(sess *melody.Session) {
		log.Println("[websocket] connected", sess.Request.RemoteAddr)
		if rec := cache.GetLastRun(s.Config.DataDir); rec != nil {
			b, _ := json.Marshal(rec)
			_ = sess.Write(b)
		}
	})

	// Right now don't care about incoming messages from clients. Log and drop.
	s.melodyInstance.HandleMessage(loggingHandler)

	s.melodyInstance.HandleDisconnect(func(sess *melody.Session) {
		log.Println("[websocket] disconnected", sess.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(sess *melody.Session, e error) {
		log.Println("[websocket] error", e, sess.Request.RemoteAddr)
	})

	// Broadcast every completed detection run to all connected clients.
	detected := make(chan []stoppage.Stoppage)
	sub := s.feedDetected.Subscribe(detected)
	go func() {
		for {
			select {
			case stoppages := <-detected:
				bc := broadstop{
					Action:    websocketActionDetected,
					Stoppages: stoppages,
				}
				b, err := json.Marshal(bc)
				if err != nil {
					slog.Error("Failed to marshal detect event", "error", err)
					continue
				}
				if err := s.melodyInstance.Broadcast(b); err != nil {
					slog.Warn("Failed to broadcast detect event", "error", err)
				}
			case err := <-sub.Err():
				slog.Error("Failed to subscribe to detection feed", "error", err)
				return
			}
		}
	}()
}

// on request
func loggingHandler(sess *melody.Session, msg []byte) {
	log.Println("[websocket] message", string(msg))
}
