// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/launchwindow/server/internal/config"
)

// Video is one candidate video returned by the search provider, normalized
// from the provider's nested snippet shape.
type Video struct {
	ID             string
	Title          string
	Description    string
	ChannelID      string
	ChannelTitle   string
	Thumbnail      string
	ScheduledStart time.Time
}

// VideoSearchAPI is the read-only interface to the video search provider.
type VideoSearchAPI interface {
	// SearchUpcoming searches one channel for upcoming scheduled videos
	// matching the query.
	SearchUpcoming(ctx context.Context, channelID, query string) ([]Video, error)
}

// VideoClient talks to the video platform's search API. The provider is
// quota-limited; the matcher's per-invocation call budget and the keyed rate
// limiter exist to respect that, so this client does no retrying of its own.
type VideoClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	client     *http.Client
}

// NewVideoClient creates a video search client from configuration.
func NewVideoClient(cfg config.VideoConfig) *VideoClient {
	return &VideoClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// searchResponse is the provider's wire shape for a search result page.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
		Thumbnails   struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// SearchUpcoming issues one search call restricted to upcoming scheduled
// videos on the given channel.
func (c *VideoClient) SearchUpcoming(ctx context.Context, channelID, query string) ([]Video, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("type", "video")
	params.Set("eventType", "upcoming")
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("q", query)

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "video search", StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	videos := make([]Video, 0, len(page.Items))
	for _, item := range page.Items {
		if item.ID.VideoID == "" {
			continue
		}
		video := Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			Thumbnail:    item.Snippet.Thumbnails.High.URL,
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.ScheduledStart = ts
		}
		videos = append(videos, video)
	}
	return videos, nil
}
