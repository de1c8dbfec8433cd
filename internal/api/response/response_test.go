package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Symbol   string  `json:"stock_symbol"`
	Quantity float64 `json:"total_quantity"`
}

func TestRespond(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		Respond(w, req, http.StatusOK, sample{Symbol: "THYAO", Quantity: 50})

		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %s", ct)
		}
		var got map[string]any
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode JSON: %v", err)
		}
		if got["stock_symbol"] != "THYAO" {
			t.Errorf("Expected stock_symbol THYAO, got %v", got["stock_symbol"])
		}
	})

	t.Run("msgpack when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json;q=0.5, application/msgpack")
		w := httptest.NewRecorder()

		Respond(w, req, http.StatusCreated, sample{Symbol: "ASELS", Quantity: 1.5})

		if w.Code != http.StatusCreated {
			t.Errorf("Expected 201, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != ContentTypeMsgpack {
			t.Errorf("Expected %s, got %s", ContentTypeMsgpack, ct)
		}
		var got map[string]any
		if err := msgpack.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("Failed to decode MessagePack: %v", err)
		}
		if got["stock_symbol"] != "ASELS" || got["total_quantity"] != 1.5 {
			t.Errorf("Unexpected MessagePack body: %v", got)
		}
	})

	t.Run("no content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("Accept", ContentTypeMsgpack)
		w := httptest.NewRecorder()

		Respond(w, req, http.StatusNoContent, nil)

		if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
			t.Errorf("Expected empty 204, got %d with %d bytes", w.Code, w.Body.Len())
		}
	})
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusNotFound, "transaction not found", "")

	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}
	if got["error"] != "transaction not found" {
		t.Errorf("Expected error message, got %v", got["error"])
	}
	if _, ok := got["details"]; ok {
		t.Errorf("Expected empty details to be omitted, got %v", got["details"])
	}
}
