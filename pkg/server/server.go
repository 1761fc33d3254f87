// Package server previews the most recent DSKKAR00/DSKWOR00 conversion
// over REST and WebSocket, for operators to sanity-check a conversion's
// output without a DBF viewer (§4.6 `serve`).
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/dbf"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/watcher"
	"github.com/jalaliamirreza/sso-payroll-dbf/web"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	headerFileName  = "DSKKAR00.DBF"
	workersFileName = "DSKWOR00.DBF"
)

// Server is the preview HTTP/WebSocket server over one output directory.
type Server struct {
	router    *mux.Router
	outputDir string
	watcher   *watcher.FileWatcher

	wsClients   map[*websocket.Conn]*sync.Mutex
	wsClientsMu sync.RWMutex
	upgrader    websocket.Upgrader

	lastHeader    map[string]string
	lastWorkers   []map[string]string
	lastRecordsMu sync.RWMutex
}

// update is the payload pushed to WebSocket clients on every broadcast.
type update struct {
	Type      string              `json:"type"`
	Timestamp string              `json:"timestamp"`
	Header    map[string]string   `json:"header,omitempty"`
	Workers   []map[string]string `json:"workers,omitempty"`
}

// NewServer creates a server previewing the DBF pair in outputDir.
func NewServer(outputDir string) (*Server, error) {
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("output directory not found: %s", outputDir)
	}

	s := &Server{
		router:    mux.NewRouter(),
		outputDir: outputDir,
		wsClients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				log.Printf("⚠️  WebSocket connection from origin: %s (origin check bypassed — configure for production!)", origin)
				return true
			},
		},
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleWelcome).Methods("GET")
	s.router.HandleFunc("/viewer", s.handleViewer).Methods("GET")
	s.router.HandleFunc("/api/header", s.handleGetHeader).Methods("GET")
	s.router.HandleFunc("/api/workers", s.handleGetWorkers).Methods("GET")
	s.router.HandleFunc("/api/info", s.handleGetInfo).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.WelcomeHTML)
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.ViewerHTML)
}

func (s *Server) handleGetHeader(w http.ResponseWriter, r *http.Request) {
	header, _, err := s.loadConversion()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read conversion: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, header)
}

func (s *Server) handleGetWorkers(w http.ResponseWriter, r *http.Request) {
	_, workers, err := s.loadConversion()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read conversion: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, workers)
}

func (s *Server) handleGetInfo(w http.ResponseWriter, r *http.Request) {
	headerPath := filepath.Join(s.outputDir, headerFileName)
	workersPath := filepath.Join(s.outputDir, workersFileName)

	headerInfo, _, err := dbf.ReadFile(headerPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read %s: %v", headerFileName, err), http.StatusInternalServerError)
		return
	}
	workersInfo, _, err := dbf.ReadFile(workersPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read %s: %v", workersFileName, err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"output_dir":   s.outputDir,
		"header_file":  headerFileName,
		"workers_file": workersFileName,
		"num_workers":  workersInfo.NumRecords,
		"num_fields":   len(workersInfo.Fields),
		"header_date":  fmt.Sprintf("%02d-%02d-%02d", headerInfo.Year, headerInfo.Month, headerInfo.Day),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode JSON: %v", err), http.StatusInternalServerError)
	}
}

// loadConversion reads both output files fresh from disk.
func (s *Server) loadConversion() (map[string]string, []map[string]string, error) {
	headerPath := filepath.Join(s.outputDir, headerFileName)
	workersPath := filepath.Join(s.outputDir, workersFileName)

	_, headerRows, err := dbf.ReadFile(headerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", headerFileName, err)
	}
	var header map[string]string
	if len(headerRows) > 0 {
		header = headerRows[0]
	}

	_, workers, err := dbf.ReadFile(workersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", workersFileName, err)
	}

	return header, workers, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("failed to upgrade to WebSocket: %v", err)
		return
	}

	connMu := &sync.Mutex{}
	s.wsClientsMu.Lock()
	s.wsClients[conn] = connMu
	s.wsClientsMu.Unlock()

	log.Printf("🔌 New WebSocket connection (total: %d)", len(s.wsClients))

	s.sendCurrentState(conn, connMu)

	go func() {
		defer func() {
			s.wsClientsMu.Lock()
			delete(s.wsClients, conn)
			s.wsClientsMu.Unlock()
			conn.Close()
			log.Printf("🔌 WebSocket disconnected (remaining: %d)", len(s.wsClients))
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (s *Server) sendCurrentState(conn *websocket.Conn, connMu *sync.Mutex) {
	header, workers, err := s.loadConversion()
	if err != nil {
		log.Printf("failed to read conversion: %v", err)
		return
	}

	msg := update{
		Type:      "initial",
		Timestamp: time.Now().Format(time.RFC3339),
		Header:    header,
		Workers:   workers,
	}

	connMu.Lock()
	err = conn.WriteJSON(msg)
	connMu.Unlock()
	if err != nil {
		log.Printf("failed to send to WebSocket: %v", err)
		return
	}

	s.lastRecordsMu.Lock()
	s.lastHeader = header
	s.lastWorkers = workers
	s.lastRecordsMu.Unlock()
}

// broadcastUpdate re-reads the conversion and pushes it to every
// connected client if anything actually changed.
func (s *Server) broadcastUpdate() {
	header, workers, err := s.loadConversion()
	if err != nil {
		log.Printf("failed to read conversion: %v", err)
		return
	}

	s.lastRecordsMu.Lock()
	changed := !reflect.DeepEqual(header, s.lastHeader) || !reflect.DeepEqual(workers, s.lastWorkers)
	s.lastHeader = header
	s.lastWorkers = workers
	s.lastRecordsMu.Unlock()

	if !changed {
		log.Println("ℹ️  No changes detected")
		return
	}

	s.wsClientsMu.RLock()
	clientCount := len(s.wsClients)
	s.wsClientsMu.RUnlock()
	if clientCount == 0 {
		log.Println("⚠️  No clients connected, skipping broadcast")
		return
	}

	msg := update{
		Type:      "update",
		Timestamp: time.Now().Format(time.RFC3339),
		Header:    header,
		Workers:   workers,
	}
	log.Printf("📡 Broadcasting update to %d client(s)", clientCount)

	s.wsClientsMu.RLock()
	for conn, connMu := range s.wsClients {
		go func(c *websocket.Conn, mu *sync.Mutex) {
			mu.Lock()
			err := c.WriteJSON(msg)
			mu.Unlock()
			if err != nil {
				log.Printf("failed to send to WebSocket: %v", err)
			}
		}(conn, connMu)
	}
	s.wsClientsMu.RUnlock()
}

// StartWatching watches both output files and broadcasts whenever
// either one's content changes.
func (s *Server) StartWatching(debounce time.Duration) error {
	fw, err := watcher.NewFileWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	s.watcher = fw

	onChange := func(path string) {
		log.Printf("🔄 File changed: %s", filepath.Base(path))
		s.broadcastUpdate()
	}

	for _, name := range []string{headerFileName, workersFileName} {
		path := filepath.Join(s.outputDir, name)
		if err := fw.Watch(path, onChange, debounce); err != nil {
			return fmt.Errorf("failed to watch %s: %w", name, err)
		}
	}

	fw.Start()
	log.Printf("👀 Watching output directory: %s", s.outputDir)
	return nil
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Start starts the HTTP server on addr.
func (s *Server) Start(addr string) error {
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📊 Serving output directory: %s", s.outputDir)
	return http.ListenAndServe(addr, s.router)
}
