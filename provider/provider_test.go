package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/config"
)

func testClient(url string) *Client {
	return New(config.TranslationConfig{
		APIURL:      url,
		APIKey:      "test-key",
		TimeoutSecs: 2,
		SourceLang:  "es",
	})
}

func TestTranslateParallelLists(t *testing.T) {
	var gotReq translateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		var resp translateResponse
		for _, text := range gotReq.Text {
			resp.Translations = append(resp.Translations, struct {
				Text string `json:"text"`
			}{Text: strings.ToUpper(text)})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Translate(context.Background(), []string{"hola", "adios"}, "es", "en")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"HOLA", "ADIOS"}) {
		t.Fatalf("Translate() = %v", got)
	}
	if gotReq.SourceLang != "ES" || gotReq.TargetLang != "EN" {
		t.Fatalf("language codes not uppercased: %+v", gotReq)
	}
}

func TestTranslateEmptyInputRejected(t *testing.T) {
	c := testClient("http://example.invalid")
	if _, err := c.Translate(context.Background(), nil, "es", "en"); err == nil {
		t.Fatal("expected error for empty text list")
	}
}

func TestTranslateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 456 is the quota-exceeded status the provider uses
		http.Error(w, "quota exceeded", 456)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.Translate(context.Background(), []string{"hola"}, "es", "en"); err == nil {
		t.Fatal("expected error for non-success status")
	}
}

func TestTranslateLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translations":[{"text":"HOLA"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.Translate(context.Background(), []string{"hola", "adios"}, "es", "en"); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestDisabledWithoutCredential(t *testing.T) {
	c := New(config.TranslationConfig{APIURL: "http://example.invalid", TimeoutSecs: 1})
	if !c.Disabled() {
		t.Fatal("client without API key should report disabled")
	}
	if _, err := c.Translate(context.Background(), []string{"hola"}, "es", "en"); err == nil {
		t.Fatal("disabled client must refuse to translate")
	}
}

func TestTranslateTransportError(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	if _, err := c.Translate(context.Background(), []string{"hola"}, "es", "en"); err == nil {
		t.Fatal("expected transport error")
	}
}
