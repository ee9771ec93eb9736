package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/varzeshfeed/varzeshbot/internal/text"
)

func rssDocument(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test</title>` + strings.Join(entries, "") + `</channel></rss>`
}

func rssEntry(title, link, description, pubDate string) string {
	var sb strings.Builder
	sb.WriteString("<item>")
	if title != "" {
		sb.WriteString("<title>" + title + "</title>")
	}
	if link != "" {
		sb.WriteString("<link>" + link + "</link>")
	}
	if description != "" {
		sb.WriteString("<description>" + description + "</description>")
	}
	if pubDate != "" {
		sb.WriteString("<pubDate>" + pubDate + "</pubDate>")
	}
	sb.WriteString("</item>")
	return sb.String()
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOneParsesAndNormalizesEntries(t *testing.T) {
	srv := serveFeed(t, rssDocument(
		rssEntry("&lt;b&gt;استقلال  برد&lt;/b&gt;", "https://example.com/1", "گزارش  بازي", "Mon, 02 Jan 2006 15:04:05 +0000"),
		rssEntry("خبر دوم", "https://example.com/2", "", ""),
	))

	f := NewFetcher(2 * time.Second)
	items := f.FetchOne(context.Background(), Source{Name: "varzesh3", URL: srv.URL})

	require.Len(t, items, 2)

	first := items[0]
	require.Equal(t, "استقلال برد", first.Title)
	require.Equal(t, "گزارش بازی", first.Description) // arabic yeh normalized
	require.Equal(t, "https://example.com/1", first.Link)
	require.Equal(t, "2 ژانویه 2006 - 15:04", first.Published)
	require.False(t, first.PublishedAt.IsZero())
	require.Equal(t, "varzesh3", first.Source)

	second := items[1]
	require.Equal(t, text.UnknownDate, second.Published)
	require.True(t, second.PublishedAt.IsZero())
}

func TestFetchOneHTTPErrorReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(2 * time.Second)
	items := f.FetchOne(context.Background(), Source{Name: "broken", URL: srv.URL})
	require.Empty(t, items)
}

func TestFetchOneTimeoutReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(50 * time.Millisecond)
	items := f.FetchOne(context.Background(), Source{Name: "slow", URL: srv.URL})
	require.Empty(t, items)
}

func TestFetchOneUnparseableBodyReturnsEmpty(t *testing.T) {
	srv := serveFeed(t, "this is not a feed at all")

	f := NewFetcher(2 * time.Second)
	items := f.FetchOne(context.Background(), Source{Name: "garbage", URL: srv.URL})
	require.Empty(t, items)
}

func TestFetchOneSkipsEntriesWithoutLink(t *testing.T) {
	srv := serveFeed(t, rssDocument(
		rssEntry("خبر", "", "بدون لینک", ""),
		rssEntry("خبر معتبر", "https://example.com/ok", "", ""),
	))

	f := NewFetcher(2 * time.Second)
	items := f.FetchOne(context.Background(), Source{Name: "src", URL: srv.URL})

	require.Len(t, items, 1)
	require.Equal(t, "https://example.com/ok", items[0].Link)
}

func TestFetchOneUntitledEntryGetsSentinel(t *testing.T) {
	srv := serveFeed(t, rssDocument(
		rssEntry("", "https://example.com/untitled", "توضیح", ""),
	))

	f := NewFetcher(2 * time.Second)
	items := f.FetchOne(context.Background(), Source{Name: "src", URL: srv.URL})

	require.Len(t, items, 1)
	require.Equal(t, UntitledEntry, items[0].Title)
}

func TestFetchOneCapsEntriesPerSource(t *testing.T) {
	var entries []string
	for i := 0; i < 15; i++ {
		entries = append(entries, rssEntry(
			fmt.Sprintf("خبر %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			"", ""))
	}
	srv := serveFeed(t, rssDocument(entries...))

	f := NewFetcher(2 * time.Second)
	items := f.FetchOne(context.Background(), Source{Name: "busy", URL: srv.URL})
	require.Len(t, items, maxEntriesPerSource)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/feeds.yaml"
	yaml := "feeds:\n  - name: varzesh3\n    url: https://www.varzesh3.com/rss/all\n  - name: tarafdari\n    url: https://www.tarafdari.com/rss/all\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	require.Equal(t, "varzesh3", sources[0].Name)
	require.Equal(t, "https://www.tarafdari.com/rss/all", sources[1].URL)
}

func TestLoadSourcesRejectsIncompleteEntries(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/feeds.yaml"
	require.NoError(t, os.WriteFile(path, []byte("feeds:\n  - name: nourl\n"), 0o644))

	_, err := LoadSources(path)
	require.Error(t, err)
}
