package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
)

// memoryStore is the minimal store-and-forward state of the dev relay:
// registered keys, queued encrypted locations, and pending sharing requests.
type memoryStore struct {
	mu       sync.RWMutex
	keys     map[uint64]string   // identifier -> base64(PEM public key)
	inbox    map[uint64][]string // recipient -> base64 ciphertexts
	requests map[uint64][]uint64 // requested -> requesters
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		keys:     make(map[uint64]string),
		inbox:    make(map[uint64][]string),
		requests: make(map[uint64][]uint64),
	}
}

func main() {
	ms := newMemoryStore()

	http.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Identifier uint64 `json:"identifier"`
			Key        string `json:"key"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		ms.mu.Lock()
		ms.keys[in.Identifier] = in.Key
		ms.mu.Unlock()
		log.Println("registered", in.Identifier)
	})

	http.HandleFunc("/api/getkey", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID uint64 `json:"userid"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		ms.mu.RLock()
		key, ok := ms.keys[in.UserID]
		ms.mu.RUnlock()
		if !ok {
			http.Error(w, "unknown peer", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(key))
	})

	http.HandleFunc("/api/location/publish", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			RecipientUserID   uint64 `json:"recipientUserID"`
			EncryptedLocation string `json:"encryptedLocation"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		ms.mu.Lock()
		ms.inbox[in.RecipientUserID] = append(ms.inbox[in.RecipientUserID], in.EncryptedLocation)
		ms.mu.Unlock()
	})

	http.HandleFunc("/api/location/receive", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID uint64 `json:"userid"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		ms.mu.Lock()
		payloads := ms.inbox[in.UserID]
		delete(ms.inbox, in.UserID)
		ms.mu.Unlock()
		if payloads == nil {
			payloads = []string{}
		}
		_ = json.NewEncoder(w).Encode(payloads)
	})

	http.HandleFunc("/api/request_sharing/send", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Requester uint64 `json:"requester"`
			Requested uint64 `json:"requested"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		ms.mu.Lock()
		if !contains(ms.requests[in.Requested], in.Requester) {
			ms.requests[in.Requested] = append(ms.requests[in.Requested], in.Requester)
		}
		ms.mu.Unlock()
		_ = json.NewEncoder(w).Encode(true)
	})

	http.HandleFunc("/api/request_sharing/retrieve", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Requester uint64 `json:"requester"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		ms.mu.RLock()
		pending := ms.requests[in.Requester]
		ms.mu.RUnlock()
		if pending == nil {
			pending = []uint64{}
		}
		_ = json.NewEncoder(w).Encode(pending)
	})

	http.HandleFunc("/api/problem", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Problem string `json:"problem"`
		}
		if err := decode(w, r, &in); err != nil {
			return
		}
		log.Println("problem report:", in.Problem)
	})

	log.Println("relay listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	return nil
}

func contains(ids []uint64, id uint64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
