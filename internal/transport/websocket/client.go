package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

const writeWait = 10 * time.Second

type connection struct {
	conn     *websocket.Conn
	username string
	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

// ConnectionManager keeps one socket per user.
type ConnectionManager struct {
	connections map[int64]*connection
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{connections: make(map[int64]*connection)}
}

// AddConnection registers conn for the user and closes any older socket.
func (cm *ConnectionManager) AddConnection(userID int64, conn *websocket.Conn, username string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if old, exists := cm.connections[userID]; exists {
		old.conn.Close()
	}
	cm.connections[userID] = &connection{conn: conn, username: username}
}

// RemoveConnectionIfMatching drops the user's socket only if it is still
// conn, so a late cleanup cannot close a newer connection.
func (cm *ConnectionManager) RemoveConnectionIfMatching(userID int64, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, exists := cm.connections[userID]; exists && current.conn == conn {
		current.conn.Close()
		delete(cm.connections, userID)
	}
}

func (cm *ConnectionManager) IsConnected(userID int64) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, ok := cm.connections[userID]
	return ok
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// SendMessage writes a JSON frame to the user. Messages to users without a
// socket are dropped.
func (cm *ConnectionManager) SendMessage(userID int64, message domain.ServerMessage) error {
	cm.mu.RLock()
	c, exists := cm.connections[userID]
	cm.mu.RUnlock()
	if !exists {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

// ping sends a keep-alive through the same write lock as SendMessage.
func (cm *ConnectionManager) ping(userID int64, conn *websocket.Conn) error {
	cm.mu.RLock()
	c, exists := cm.connections[userID]
	cm.mu.RUnlock()
	if !exists || c.conn != conn {
		return websocket.ErrCloseSent
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
