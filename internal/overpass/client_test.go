package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/usavibesmap/geoapi/internal/upstream"
)

func TestClient_Query_Success(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotQuery = r.PostFormValue("data")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"elements":[{"type":"node","id":1,"lat":40.72,"lon":-73.99,"tags":{"brand":"Starbucks"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Query(context.Background(), "[out:json];node(1);out;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "[out:json];node(1);out;" {
		t.Errorf("query not posted as data field, got %q", gotQuery)
	}
	if gotUA != "USAVibesMap/1.0 (self-hosted)" {
		t.Errorf("unexpected User-Agent %q", gotUA)
	}
	if len(resp.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(resp.Elements))
	}
	if resp.Elements[0].Tags["brand"] != "Starbucks" {
		t.Errorf("tags not decoded: %v", resp.Elements[0].Tags)
	}
}

func TestClient_Query_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Query(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for 429 upstream response")
	}

	ue, ok := upstream.As(err)
	if !ok {
		t.Fatalf("expected *upstream.Error, got %T", err)
	}
	if ue.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", ue.StatusCode)
	}
	if ue.Service != "overpass" {
		t.Errorf("expected service overpass, got %s", ue.Service)
	}
}

func TestClient_Query_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 30 * time.Millisecond}))
	_, err := client.Query(context.Background(), "q")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	ue, ok := upstream.As(err)
	if !ok {
		t.Fatalf("expected *upstream.Error, got %T", err)
	}
	if !ue.Timeout {
		t.Errorf("expected timeout flag, got %+v", ue)
	}
}

func TestClient_Query_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Query(context.Background(), "q"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClient_Query_ConnectionError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if _, err := client.Query(context.Background(), "q"); err == nil {
		t.Fatal("expected error for unreachable host")
	}
}
