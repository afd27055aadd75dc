package socket

import (
	"context"
	"log"

	socketio "github.com/googollee/go-socket.io"

	"reelmate_server/models"
	"reelmate_server/services"
)

// sessionWatch is the per-connection subscription state: one live
// session subscription plus the observer that turns snapshots into
// newMatch events.
type sessionWatch struct {
	sessionID   string
	unsubscribe services.Unsubscribe
	observer    *services.MatchObserver
}

// NewSocketServer initializes the Socket.IO server that pushes session
// snapshots and match events to clients. A client emits
// "join" {sessionId, userId}; after a membership check it receives a
// "session" event with the current state and on every change, plus a
// "newMatch" {movieId} event whenever a match is promoted while it is
// watching. Matches that existed before joining are never announced.
func NewSocketServer(sessionService *services.SessionService) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		sessionID := data["sessionId"]
		userID := data["userId"]
		if sessionID == "" || userID == "" {
			c.Emit("error", "sessionId and userId are required")
			return
		}

		// A re-join replaces any previous watch on this connection.
		stopWatch(c)

		observer := services.NewMatchObserver(func(movieID string) {
			c.Emit("newMatch", map[string]string{"movieId": movieID})
		})

		unsubscribe, err := sessionService.SubscribeSession(context.Background(), sessionID, userID,
			func(session *models.Session) {
				c.Emit("session", session)
				observer.Observe(session)
			},
			func(err error) {
				log.Printf("Session subscription error for %s: %v", sessionID, err)
				c.Emit("error", err.Error())
			},
		)
		if err != nil {
			c.Emit("error", err.Error())
			return
		}

		log.Printf("User %s watching session %s", userID, sessionID)
		c.Join(sessionID)
		c.SetContext(&sessionWatch{sessionID: sessionID, unsubscribe: unsubscribe, observer: observer})
	})

	server.OnEvent("/", "leave", func(c socketio.Conn) {
		stopWatch(c)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		stopWatch(c)
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}

// stopWatch tears down the connection's subscription, if any.
func stopWatch(c socketio.Conn) {
	watch, ok := c.Context().(*sessionWatch)
	if !ok || watch == nil {
		return
	}
	watch.unsubscribe()
	watch.observer.Reset()
	c.Leave(watch.sessionID)
	c.SetContext(nil)
}
