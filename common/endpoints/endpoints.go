// Package endpoints serves the admin HTTP surface of a running sweep.
package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/hongyusu/random-spanning-tree-approximation/common/stats"
)

func NewTwitterServer(addr string, stats stats.StatsReceiver) *TwitterServer {
	s := &TwitterServer{
		Addr:  addr,
		Stats: stats,
		mux:   http.NewServeMux(),
	}
	s.mux.HandleFunc("/", helpHandler)
	s.mux.HandleFunc("/health", healthHandler)
	s.mux.HandleFunc("/admin/metrics.json", s.statsHandler)
	return s
}

// TwitterServer serves '/health' and '/admin/metrics.json', plus any JSON
// views added with AddJSON.
type TwitterServer struct {
	Addr  string
	Stats stats.StatsReceiver
	mux   *http.ServeMux
	srv   *http.Server
}

// AddJSON serves the result of view, marshaled, at path.
func (s *TwitterServer) AddJSON(path string, view func() interface{}) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(view()); err != nil {
			http.Error(w, err.Error(), 500)
		}
	})
}

func (s *TwitterServer) Handler() http.Handler {
	return s.mux
}

// Listen binds Addr and serves in the background. Errors after a successful
// bind are logged.
func (s *TwitterServer) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return nil, err
	}
	s.srv = &http.Server{Handler: s.mux}
	log.Infof("Serving http & stats on %s", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server on %s stopped: %v", ln.Addr(), err)
		}
	}()
	return ln.Addr(), nil
}

func (s *TwitterServer) Close() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Common paths: '/health', '/admin/metrics.json'", 501)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

func (s *TwitterServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	const contentTypeHdr = "Content-Type"
	const contentTypeVal = "application/json; charset=utf-8"
	w.Header().Set(contentTypeHdr, contentTypeVal)

	pretty := r.URL.Query().Get("pretty") == "true"
	str := s.Stats.Render(pretty)
	if _, err := io.Copy(w, bytes.NewBuffer(str)); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}
