// kbstub is a development stand-in for the document-search service. It keeps
// the same flat append-only conversation log the real backend exposes and
// answers every search with a canned reply, so the console can be exercised
// end to end without API keys or an indexed document base.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sync"
	"time"

	"kb-console/internal/chat"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const systemPrompt = "You are a helpful assistant. You have access to file search tools to find relevant documents."

type store struct {
	mu  sync.Mutex
	log []chat.Message
}

// seed mirrors the real backend: the log always starts with an id-less
// system prompt entry.
func (s *store) seed() {
	s.log = []chat.Message{{Role: chat.RoleSystem, Content: systemPrompt}}
}

func (s *store) snapshot() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Message, len(s.log))
	copy(out, s.log)
	return out
}

func (s *store) appendTurn(chatID, query, reply string) {
	now := time.Now().Format(time.RFC3339)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log,
		chat.Message{ID: chatID, Role: chat.RoleUser, Content: query, Timestamp: now},
		chat.Message{ID: chatID, Role: chat.RoleAssistant, Content: reply, Timestamp: now},
	)
}

func (s *store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed()
}

type searchRequest struct {
	Query  string `json:"query"`
	ChatID string `json:"chat_id"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	reply := flag.String("reply", "Stub result: no document base is attached to this backend.", "canned search reply")
	delay := flag.Duration("delay", 500*time.Millisecond, "artificial search latency")
	flag.Parse()

	st := &store{}
	st.seed()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/chat_completions.json", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, st.snapshot())
	})

	r.Post("/search", func(w http.ResponseWriter, req *http.Request) {
		var sr searchRequest
		if err := json.NewDecoder(req.Body).Decode(&sr); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}
		if sr.Query == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No query provided"})
			return
		}
		if sr.ChatID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No chat_id provided"})
			return
		}

		time.Sleep(*delay)
		st.appendTurn(sr.ChatID, sr.Query, *reply)
		writeJSON(w, http.StatusOK, map[string]string{"result": *reply})
	})

	r.Post("/clear_chat", func(w http.ResponseWriter, req *http.Request) {
		st.clear()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared successfully."})
	})

	log.Printf("kbstub listening on %s", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
