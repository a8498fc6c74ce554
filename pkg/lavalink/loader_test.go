package lavalink

import (
	"encoding/json"
	"testing"
)

func TestDecodeLoadResultTrack(t *testing.T) {
	raw := loadResponse{
		LoadType: LoadTypeTrack,
		Data:     json.RawMessage(`{"encoded":"abc","info":{"title":"Cancion","author":"Artista","length":180000,"uri":"https://example.com/t"}}`),
	}

	result, err := decodeLoadResult(raw)
	if err != nil {
		t.Fatalf("decodeLoadResult error: %v", err)
	}

	if result.Type != LoadTypeTrack {
		t.Errorf("Type = %v, want %v", result.Type, LoadTypeTrack)
	}
	if len(result.Tracks) != 1 {
		t.Fatalf("Tracks length = %v, want 1", len(result.Tracks))
	}
	if result.Tracks[0].Info.Title != "Cancion" {
		t.Errorf("Title = %v, want Cancion", result.Tracks[0].Info.Title)
	}
}

func TestDecodeLoadResultPlaylist(t *testing.T) {
	raw := loadResponse{
		LoadType: LoadTypePlaylist,
		Data:     json.RawMessage(`{"info":{"name":"Mi Lista","selectedTrack":-1},"tracks":[{"encoded":"a"},{"encoded":"b"}]}`),
	}

	result, err := decodeLoadResult(raw)
	if err != nil {
		t.Fatalf("decodeLoadResult error: %v", err)
	}

	if result.PlaylistInfo == nil || result.PlaylistInfo.Name != "Mi Lista" {
		t.Fatalf("PlaylistInfo = %+v, want name Mi Lista", result.PlaylistInfo)
	}
	if len(result.Tracks) != 2 {
		t.Errorf("Tracks length = %v, want 2", len(result.Tracks))
	}
}

func TestDecodeLoadResultSearch(t *testing.T) {
	raw := loadResponse{
		LoadType: LoadTypeSearch,
		Data:     json.RawMessage(`[{"encoded":"a"},{"encoded":"b"},{"encoded":"c"}]`),
	}

	result, err := decodeLoadResult(raw)
	if err != nil {
		t.Fatalf("decodeLoadResult error: %v", err)
	}

	if len(result.Tracks) != 3 {
		t.Errorf("Tracks length = %v, want 3", len(result.Tracks))
	}
}

func TestDecodeLoadResultEmpty(t *testing.T) {
	raw := loadResponse{
		LoadType: LoadTypeEmpty,
		Data:     json.RawMessage(`{}`),
	}

	result, err := decodeLoadResult(raw)
	if err != nil {
		t.Fatalf("decodeLoadResult error: %v", err)
	}

	if len(result.Tracks) != 0 {
		t.Errorf("Tracks length = %v, want 0", len(result.Tracks))
	}
}

func TestDecodeLoadResultError(t *testing.T) {
	raw := loadResponse{
		LoadType: LoadTypeError,
		Data:     json.RawMessage(`{"message":"Video no disponible","severity":"common"}`),
	}

	result, err := decodeLoadResult(raw)
	if err != nil {
		t.Fatalf("decodeLoadResult error: %v", err)
	}

	if result.ErrorMessage != "Video no disponible" {
		t.Errorf("ErrorMessage = %v, want Video no disponible", result.ErrorMessage)
	}
}

func TestEndReasonMayStartNext(t *testing.T) {
	cases := []struct {
		reason string
		want   bool
	}{
		{"finished", true},
		{"loadFailed", true},
		{"stopped", false},
		{"replaced", false},
		{"cleanup", false},
	}

	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			if got := endReasonMayStartNext(tc.reason); got != tc.want {
				t.Errorf("endReasonMayStartNext(%q) = %v, want %v", tc.reason, got, tc.want)
			}
		})
	}
}
