// The pager test registers a mux pattern containing spaces and quotes;
// the Go 1.22+ ServeMux pattern grammar rejects it, so keep the 1.21
// path-only matcher for this test binary.
//go:debug httpmuxgo121=1

package sharepoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hrsuite/bulkupload/internal/domain"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestCreateItem(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ID": 42, "FirstName": "A"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, AuthToken: "token-123"})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	record := domain.Employee{
		FirstName:     "A",
		LastName:      "B",
		SocialProfile: domain.FieldURL{URL: "http://x"},
	}
	created, err := client.CreateItem(context.Background(), "Employee Database", record)
	if err != nil {
		t.Fatalf("create item returned error: %v", err)
	}

	if created.ID != 42 {
		t.Fatalf("expected created ID 42, got %d", created.ID)
	}
	if !strings.Contains(gotPath, "/_api/web/lists/GetByTitle('Employee Database')/items") {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "application/json") {
		t.Fatalf("unexpected content type %q", gotContentType)
	}

	profile, ok := gotBody["SocialProfile"].(map[string]any)
	if !ok || profile["Url"] != "http://x" {
		t.Fatalf("social profile not written as {Url}: %v", gotBody["SocialProfile"])
	}
}

func TestItemsURLEscapesQuotedListName(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://tenant.example/sites/hr"})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	// A quote in the list title must be doubled inside the OData literal or
	// the remote parser cuts the name short.
	got := client.itemsURL("Employee's Database")
	want := "https://tenant.example/sites/hr/_api/web/lists/GetByTitle('Employee''s%20Database')/items"
	if got != want {
		t.Fatalf("itemsURL = %q, want %q", got, want)
	}
}

func TestCreateItemAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	if _, err := client.CreateItem(context.Background(), "Employee Database", domain.Employee{}); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestItemPagerDrainsPages(t *testing.T) {
	var firstQuery string
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/_api/web/lists/GetByTitle('Employee Database')/items", func(w http.ResponseWriter, r *http.Request) {
		firstQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"value": [{"ID": 3, "FirstName": "C"}, {"ID": 2, "FirstName": "B"}],
			"odata.nextLink": "` + server.URL + `/page2"
		}`))
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": [{"ID": 1, "FirstName": "A"}]}`))
	})

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	pager := client.Items("Employee Database", 999)
	var all []Item
	for pager.More() {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			t.Fatalf("next page returned error: %v", err)
		}
		all = append(all, page...)
	}

	if len(all) != 3 {
		t.Fatalf("expected 3 items across pages, got %d", len(all))
	}
	if all[0].ID != 3 || all[2].ID != 1 {
		t.Fatalf("page order broken: %+v", all)
	}
	if !strings.Contains(firstQuery, "top=999") {
		t.Fatalf("expected $top=999 in query, got %q", firstQuery)
	}
	if !strings.Contains(firstQuery, "orderby=ID+desc") && !strings.Contains(firstQuery, "orderby=ID%20desc") {
		t.Fatalf("expected $orderby=ID desc in query, got %q", firstQuery)
	}
}

func TestItemPagerPropagatesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	pager := client.Items("Employee Database", 999)
	if _, err := pager.NextPage(context.Background()); err == nil {
		t.Fatalf("expected error from failing page")
	}
}
