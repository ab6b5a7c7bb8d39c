package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestUploadFlow(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/token":
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh" {
				t.Errorf("unexpected token form %v", r.Form)
			}
			if r.Form.Get("client_id") != "id" || r.Form.Get("client_secret") != "secret" {
				t.Errorf("expected client credentials in form, got %v", r.Form)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"access","token_type":"Bearer","expires_in":3600}`)
		case r.URL.Path == "/upload" && r.Method == http.MethodPost:
			if r.URL.Query().Get("uploadType") != "resumable" {
				t.Errorf("missing resumable upload type")
			}
			if r.Header.Get("Authorization") != "Bearer access" {
				t.Errorf("missing bearer token on session init")
			}
			if r.Header.Get("X-Upload-Content-Length") != "5" {
				t.Errorf("unexpected content length header %q", r.Header.Get("X-Upload-Content-Length"))
			}
			var body map[string]map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode: %v", err)
			}
			if body["snippet"]["title"] != "Demo" || body["status"]["privacyStatus"] != "unlisted" {
				t.Errorf("unexpected metadata %v", body)
			}
			w.Header().Set("Location", server.URL+"/session/1")
		case r.URL.Path == "/session/1" && r.Method == http.MethodPut:
			if r.Header.Get("Authorization") != "Bearer access" {
				t.Errorf("missing bearer token on upload")
			}
			data, _ := io.ReadAll(r.Body)
			if string(data) != "video" {
				t.Errorf("unexpected upload body %q", data)
			}
			_, _ = io.WriteString(w, `{"id":"abc123","status":{"uploadStatus":"uploaded"}}`)
		case r.URL.Path == "/api/playlistItems":
			w.WriteHeader(http.StatusForbidden)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		TokenURL:     server.URL + "/token",
		UploadURL:    server.URL + "/upload",
		APIBaseURL:   server.URL + "/api",
	})
	ctx := context.Background()

	token, err := client.RefreshAccessToken(ctx)
	if err != nil {
		t.Fatalf("RefreshAccessToken returned error: %v", err)
	}
	if token.AccessToken != "access" {
		t.Fatalf("unexpected access token %q", token.AccessToken)
	}
	session, err := client.InitUpload(ctx, token, VideoMetadata{Title: "Demo", Privacy: "unlisted", CategoryID: "28"}, 5, "video/mp4")
	if err != nil {
		t.Fatalf("InitUpload returned error: %v", err)
	}
	video, err := client.UploadBytes(ctx, token, session, strings.NewReader("video"), 5, "video/mp4")
	if err != nil {
		t.Fatalf("UploadBytes returned error: %v", err)
	}
	if video.ID != "abc123" {
		t.Fatalf("unexpected video id %q", video.ID)
	}

	err = client.AddToPlaylist(ctx, token, "PL1", video.ID)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected playlist status error, got %v", err)
	}
}

func TestRefreshAccessTokenFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant"}`)
	}))
	defer server.Close()

	client := NewClient(Config{TokenURL: server.URL, RefreshToken: "revoked"})
	_, err := client.RefreshAccessToken(context.Background())
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) || retrieveErr.Response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected token retrieve error, got %v", err)
	}
}

func TestInitUploadRequiresLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{UploadURL: server.URL})
	if _, err := client.InitUpload(context.Background(), &oauth2.Token{AccessToken: "tok"}, VideoMetadata{}, 1, "video/mp4"); err == nil {
		t.Fatal("expected missing Location error")
	}
}
