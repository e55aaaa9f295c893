package emby

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestParseBaseURL_Normalizes(t *testing.T) {
	u, err := parseBaseURL("emby.local:8096/")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != "emby.local:8096" {
		t.Fatalf("host = %q, want emby.local:8096", u.Host)
	}

	u, err = parseBaseURL("https://example.com/media/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestClient_SendsAuthAndPrefix(t *testing.T) {
	t.Parallel()

	var gotToken, gotAccept, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Emby-Token")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"UserName":"alice","NowPlayingItem":{"Name":"Heat","Type":"Movie"}},{"UserName":"bob"}]`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/", "secret")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	sessions, err := c.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions returned error: %v", err)
	}
	if gotToken != "secret" {
		t.Fatalf("X-Emby-Token = %q, want secret", gotToken)
	}
	if gotAccept != "*/*" {
		t.Fatalf("Accept = %q, want */*", gotAccept)
	}
	if gotPath != "/emby/Sessions" {
		t.Fatalf("path = %q, want /emby/Sessions", gotPath)
	}
	if len(sessions) != 2 || !sessions[0].IsActive() || sessions[1].IsActive() {
		t.Fatalf("sessions = %#v", sessions)
	}
	if c.APIURL() != server.URL {
		t.Fatalf("APIURL = %q, want %q", c.APIURL(), server.URL)
	}
}

func TestClient_KeepsBasePath(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/proxy", "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.SystemInfo(context.Background()); err != nil {
		t.Fatalf("SystemInfo returned error: %v", err)
	}
	if gotPath != "/proxy/emby/System/Info" {
		t.Fatalf("path = %q, want /proxy/emby/System/Info", gotPath)
	}
}

func TestClient_EncodesQueries(t *testing.T) {
	t.Parallel()

	queries := map[string]url.Values{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries[r.URL.Path] = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/emby/Search/Hints":
			_, _ = io.WriteString(w, `{"SearchHints":[{"ItemId":123,"Name":"Heat"},{"ItemId":"abc","Name":"Up"}]}`)
		case "/emby/Users/u1/Items/Latest":
			_, _ = io.WriteString(w, `[{"Name":"Heat","Type":"Movie"}]`)
		case "/emby/Shows/NextUp", "/emby/Shows/Upcoming":
			_, _ = io.WriteString(w, `{"Items":[{"Name":"Pilot"}],"TotalRecordCount":1}`)
		case "/emby/System/ActivityLog/Entries":
			_, _ = io.WriteString(w, `{"Items":[{"Name":"login"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	hints, err := c.SearchHints(ctx, "heat wave", 25)
	if err != nil {
		t.Fatalf("SearchHints returned error: %v", err)
	}
	if len(hints) != 2 || hints[0].ItemID.String() != "123" || hints[1].ItemID.String() != "abc" {
		t.Fatalf("hints = %#v", hints)
	}
	q := queries["/emby/Search/Hints"]
	if q.Get("SearchTerm") != "heat wave" || q.Get("Limit") != "25" {
		t.Fatalf("search query = %v", q)
	}

	if _, err := c.LatestItems(ctx, LatestQuery{UserID: "u1", Limit: 5, IncludeItemTypes: "Movie"}); err != nil {
		t.Fatalf("LatestItems returned error: %v", err)
	}
	q = queries["/emby/Users/u1/Items/Latest"]
	if q.Get("Limit") != "5" || q.Get("Fields") != "DateCreated,Overview" || q.Get("GroupItems") != "true" || q.Get("IncludeItemTypes") != "Movie" {
		t.Fatalf("latest query = %v", q)
	}

	items, err := c.NextUp(ctx, "u1", 20)
	if err != nil {
		t.Fatalf("NextUp returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("NextUp items = %d, want 1", len(items))
	}
	q = queries["/emby/Shows/NextUp"]
	if q.Get("UserId") != "u1" || q.Get("Limit") != "20" || q.Get("Fields") != "Overview" {
		t.Fatalf("next up query = %v", q)
	}

	if _, err := c.Upcoming(ctx, "u1", 7); err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if queries["/emby/Shows/Upcoming"].Get("Limit") != "7" {
		t.Fatalf("upcoming query = %v", queries["/emby/Shows/Upcoming"])
	}

	entries, err := c.ActivityLog(ctx, 10)
	if err != nil {
		t.Fatalf("ActivityLog returned error: %v", err)
	}
	if len(entries) != 1 || queries["/emby/System/ActivityLog/Entries"].Get("Limit") != "10" {
		t.Fatalf("activity = %#v, query = %v", entries, queries["/emby/System/ActivityLog/Entries"])
	}
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	t.Parallel()

	var gotMethod, gotContentType string
	var gotBody RefreshOptions
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		if r.URL.Path != "/emby/Items/lib-1/Refresh" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	opts := RefreshOptions{Recursive: true, MetadataRefreshMode: "Default", ImageRefreshMode: "Default", ReplaceAllImages: true}
	if err := c.RefreshItem(context.Background(), "lib-1", opts); err != nil {
		t.Fatalf("RefreshItem returned error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q, want POST", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody != opts {
		t.Fatalf("body = %#v, want %#v", gotBody, opts)
	}
}

func TestClient_ErrorsOnStatusAndDecode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/emby/Sessions":
			_, _ = io.WriteString(w, "{not json")
		default:
			http.Error(w, "Access token is invalid", http.StatusUnauthorized)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "bad")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	if _, err := c.Sessions(ctx); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("expected decode error, got %v", err)
	}
	_, err = c.Users(ctx)
	if err == nil {
		t.Fatalf("expected status error")
	}
	if !strings.Contains(err.Error(), "returned status 401") || !strings.Contains(err.Error(), "Access token is invalid") {
		t.Fatalf("status error = %v", err)
	}
	if err := c.Restart(ctx); err == nil {
		t.Fatalf("expected restart error")
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.Sessions(context.Background()); err == nil {
		t.Fatalf("expected error from nil client")
	}
	if err := c.RunTask(context.Background(), "x"); err == nil {
		t.Fatalf("expected error from nil client")
	}
}

func TestFindUserID(t *testing.T) {
	str := func(s string) *string { return &s }
	yes, no := true, false
	users := []User{
		{Name: str("guest"), ID: str("u-guest"), Policy: &UserPolicy{IsAdministrator: &no}},
		{Name: str("Alice"), ID: str("u-alice"), Policy: &UserPolicy{IsAdministrator: &yes}},
		{Name: str("bob"), ID: str("u-bob")},
	}

	id, err := FindUserID(users, "alice")
	if err != nil || id != "u-alice" {
		t.Fatalf("FindUserID(alice) = %q, %v", id, err)
	}
	id, err = FindUserID(users, "")
	if err != nil || id != "u-alice" {
		t.Fatalf("FindUserID(admin) = %q, %v", id, err)
	}

	_, err = FindUserID(users, "carol")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err.Error() != "User 'carol' not found" {
		t.Fatalf("error text = %q", err.Error())
	}

	_, err = FindUserID(users[:1], "")
	if !errors.Is(err, ErrNoAdmin) {
		t.Fatalf("expected ErrNoAdmin, got %v", err)
	}
}

func TestDisplayNames(t *testing.T) {
	str := func(s string) *string { return &s }
	one, two := 1, 2

	ep := BaseItem{Name: str("Test Name"), Type: str("Episode"), SeriesName: str("Friends"), ParentIndexNumber: &one, IndexNumber: &two}
	if got := ep.DisplayName(); got != "Friends - S01E02 - Test Name" {
		t.Fatalf("episode DisplayName = %q", got)
	}
	hint := SearchHint{Name: str("Test Name"), Type: str("Audio"), AlbumArtist: str("Queen")}
	if got := hint.DisplayName(); got != "Queen - Test Name" {
		t.Fatalf("audio DisplayName = %q", got)
	}
	bare := SearchHint{Name: str("Loose"), Type: str("Episode")}
	if got := bare.DisplayName(); got != " - S00E00 - Loose" {
		t.Fatalf("bare episode DisplayName = %q", got)
	}
}
