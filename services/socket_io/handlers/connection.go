package handlers

import (
	"Cardex/services/friends"
	"Cardex/services/redis"
	socketio_types "Cardex/services/socket_io/types"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting tears down everything a live connection holds: the
// pub/sub subscription, the session goroutine, the presence key and the
// entry in the connection map. The map entry and presence are only
// cleared while this socket is still the registered one, so the slow
// teardown of a stale connection cannot wipe out a fresh reconnect.
func HandleDisconnecting(username string, client *socket.Socket, sio *socketio_types.SocketServer,
	redisClient *redis.RedisClient, session *friends.Session, unsubscribe func()) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("User disconnecting: %s", username)

		unsubscribe()
		session.Close()

		if current, ok := sio.GetConnection(username); ok && current == client {
			if err := redisClient.ClearPresence(username); err != nil {
				log.Printf("Error clearing presence for %s: %v", username, err)
			}
			sio.RemoveConnection(username)
		}
	}
}
