package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// NowPlayingLookup extracts track details from a station's web page for
// stations whose stream carries no usable in-band metadata. The registry
// supplies the page URL and the CSS selectors for each field.
type NowPlayingLookup struct {
	url    string
	css    CSSSelectors
	client *http.Client
}

func NewNowPlayingLookup(pageURL string, css CSSSelectors) *NowPlayingLookup {
	return &NowPlayingLookup{
		url:    pageURL,
		css:    css,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch loads the station page and pulls out title/artist/album.
// Missing selectors leave the corresponding field empty.
func (l *NowPlayingLookup) Fetch(ctx context.Context) (TrackInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("building now-playing request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("fetching %s: %w", l.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TrackInfo{}, fmt.Errorf("now-playing page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("parsing now-playing page: %w", err)
	}

	return TrackInfo{
		Title:  l.selectText(doc, l.css.Title),
		Artist: l.selectText(doc, l.css.Artist),
		Album:  l.selectText(doc, l.css.Album),
	}, nil
}

func (l *NowPlayingLookup) selectText(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	text := strings.TrimSpace(doc.Find(selector).First().Text())
	if l.css.Remove != "" {
		text = strings.TrimSpace(strings.ReplaceAll(text, l.css.Remove, ""))
	}
	return text
}
