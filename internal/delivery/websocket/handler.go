package websocket

import (
	"log"
	"net/http"
	"time"

	"upbit-gem-screener/internal/domain"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler pushes the latest screening report to connected clients.
type Handler struct {
	repo         domain.ReportRepository
	pollInterval time.Duration
}

func NewHandler(repo domain.ReportRepository, pollInterval time.Duration) *Handler {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &Handler{repo: repo, pollInterval: pollInterval}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Println("New report subscriber connected")

	// Send the current report immediately, then on each poll tick.
	if err := conn.WriteJSON(h.repo.GetReport()); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(h.repo.GetReport()); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}
