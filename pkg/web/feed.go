package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/CentinelaStudios/CentinelaBotGo/internal/security"
	"github.com/CentinelaStudios/CentinelaBotGo/pkg/logger"
)

const feedWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// El middleware de host permitido ya filtra los orígenes
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SecurityFeed broadcasts security incidents to connected websocket clients.
// It implements security.Notifier; a client that cannot keep up is dropped,
// never waited on.
type SecurityFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewSecurityFeed creates an empty feed.
func NewSecurityFeed() *SecurityFeed {
	return &SecurityFeed{clients: make(map[*websocket.Conn]bool)}
}

// Handler upgrades the request and keeps the connection in the broadcast set
// until the peer closes it.
func (f *SecurityFeed) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo abrir el feed de seguridad: %v", err), "WebServer")
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	total := len(f.clients)
	f.mu.Unlock()
	logger.Info(fmt.Sprintf("Cliente conectado al feed de seguridad (%d activos)", total), "WebServer")

	// Drena los mensajes entrantes hasta que el cliente cierra
	go func() {
		defer f.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify implements security.Notifier.
func (f *SecurityFeed) Notify(inc security.Incident) {
	payload, err := json.Marshal(inc)
	if err != nil {
		return
	}

	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.clients))
	for conn := range f.clients {
		conns = append(conns, conn)
	}
	f.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			f.drop(conn)
		}
	}
}

// Close disconnects every client.
func (f *SecurityFeed) Close() {
	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.clients))
	for conn := range f.clients {
		conns = append(conns, conn)
	}
	f.clients = make(map[*websocket.Conn]bool)
	f.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (f *SecurityFeed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	if _, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
	}
	f.mu.Unlock()
	conn.Close()
}
