package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer bundles the socket.io server with the registry of live
// friend-view connections. Each username holds at most one socket: a
// reconnect replaces the previous entry, so a slow disconnect of the
// old socket must not evict the new one (see GetConnection).
type SocketServer struct {
	Sio_server *socket.Server
	// username -> the socket currently serving that user's live view
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

// AddConnection registers the socket serving username, replacing any
// previous one.
func (s *SocketServer) AddConnection(username string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[username] = socket
}

func (s *SocketServer) RemoveConnection(username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, username)
}

// GetConnection returns the socket currently registered for username.
// Disconnect handlers compare it against their own socket before
// removing the entry, otherwise tearing down a stale connection would
// evict a fresh reconnect.
func (s *SocketServer) GetConnection(username string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.UserConnections[username]
	return socket, exists
}
