package lavalink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// LoadType classifies the result of a track load request
type LoadType string

// Load types returned by the v4 loadtracks endpoint
const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// PlaylistInfo describes a loaded playlist
type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// LoadResult is the decoded response of a loadtracks request. Which fields
// are populated depends on Type: Tracks holds a single entry for a track
// load, all playlist entries for a playlist load and the candidates for a
// search load. ErrorMessage is set only for error results.
type LoadResult struct {
	Type         LoadType
	Tracks       []*Track
	PlaylistInfo *PlaylistInfo
	ErrorMessage string
}

// loadResponse mirrors the raw wire shape; data changes per loadType
type loadResponse struct {
	LoadType LoadType        `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

type playlistData struct {
	Info   PlaylistInfo `json:"info"`
	Tracks []*Track     `json:"tracks"`
}

type exceptionData struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

// LoadTracks resolves an identifier against the first available node.
// The identifier is passed through as-is: callers decide whether to use a
// direct URL or a search prefix such as "ytsearch:".
func (c *Client) LoadTracks(identifier string) (*LoadResult, error) {
	node := c.availableNode()
	if node == nil {
		return nil, fmt.Errorf("no hay nodos de Lavalink disponibles")
	}

	path := "/v4/loadtracks?identifier=" + url.QueryEscape(identifier)

	var raw loadResponse
	if err := node.rest(http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return decodeLoadResult(raw)
}

// decodeLoadResult interprets the per-loadType data payload
func decodeLoadResult(raw loadResponse) (*LoadResult, error) {
	result := &LoadResult{Type: raw.LoadType}

	switch raw.LoadType {
	case LoadTypeTrack:
		var track Track
		if err := json.Unmarshal(raw.Data, &track); err != nil {
			return nil, fmt.Errorf("decoding track result: %w", err)
		}
		result.Tracks = []*Track{&track}
	case LoadTypePlaylist:
		var pl playlistData
		if err := json.Unmarshal(raw.Data, &pl); err != nil {
			return nil, fmt.Errorf("decoding playlist result: %w", err)
		}
		result.Tracks = pl.Tracks
		info := pl.Info
		result.PlaylistInfo = &info
	case LoadTypeSearch:
		var tracks []*Track
		if err := json.Unmarshal(raw.Data, &tracks); err != nil {
			return nil, fmt.Errorf("decoding search result: %w", err)
		}
		result.Tracks = tracks
	case LoadTypeError:
		var exc exceptionData
		if err := json.Unmarshal(raw.Data, &exc); err == nil && exc.Message != "" {
			result.ErrorMessage = exc.Message
		} else {
			result.ErrorMessage = "error desconocido"
		}
	case LoadTypeEmpty:
		// No matches; Tracks stays empty.
	default:
		return nil, fmt.Errorf("loadType desconocido: %s", raw.LoadType)
	}

	return result, nil
}
