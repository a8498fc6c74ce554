package lavalink

import (
	"fmt"
	"net/http"
	"sync"
)

// Link is a handle to the Lavalink player of a single guild. All playback
// control goes through the v4 session player REST endpoints.
type Link struct {
	guildID string
	client  *Client

	mu   sync.Mutex
	node *Node
}

var (
	linksMu sync.Mutex
	links   = make(map[string]*Link)
)

// Link returns the player handle for a guild, creating it on first use
func (c *Client) Link(guildID string) *Link {
	linksMu.Lock()
	defer linksMu.Unlock()

	if link, ok := links[guildID]; ok {
		return link
	}
	link := &Link{
		guildID: guildID,
		client:  c,
	}
	links[guildID] = link
	return link
}

// resolveNode pins the link to a connected node
func (l *Link) resolveNode() (*Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.node != nil {
		l.node.mu.RLock()
		ok := l.node.connected && l.node.sessionID != ""
		l.node.mu.RUnlock()
		if ok {
			return l.node, nil
		}
		l.node = nil
	}

	node := l.client.availableNode()
	if node == nil {
		return nil, fmt.Errorf("no hay nodos de Lavalink disponibles")
	}
	l.node = node
	return node, nil
}

func (l *Link) playerPath(node *Node) string {
	return fmt.Sprintf("/v4/sessions/%s/players/%s?noReplace=false", node.currentSession(), l.guildID)
}

// Play starts playing the given track, replacing whatever is current
func (l *Link) Play(track *Track) error {
	node, err := l.resolveNode()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"track": map[string]interface{}{
			"encoded": track.Encoded,
		},
	}
	return node.rest(http.MethodPatch, l.playerPath(node), body, nil)
}

// SetPaused pauses or resumes playback
func (l *Link) SetPaused(paused bool) error {
	node, err := l.resolveNode()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"paused": paused,
	}
	return node.rest(http.MethodPatch, l.playerPath(node), body, nil)
}

// Stop stops the current track without destroying the player
func (l *Link) Stop() error {
	node, err := l.resolveNode()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"track": map[string]interface{}{
			"encoded": nil,
		},
	}
	return node.rest(http.MethodPatch, l.playerPath(node), body, nil)
}

// SetVolume sets the player volume (0-1000)
func (l *Link) SetVolume(volume int) error {
	if volume < 0 {
		volume = 0
	}
	if volume > 1000 {
		volume = 1000
	}

	node, err := l.resolveNode()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"volume": volume,
	}
	return node.rest(http.MethodPatch, l.playerPath(node), body, nil)
}

// Destroy removes the guild player from the node and drops the link
func (l *Link) Destroy() error {
	linksMu.Lock()
	delete(links, l.guildID)
	linksMu.Unlock()

	node, err := l.resolveNode()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v4/sessions/%s/players/%s", node.currentSession(), l.guildID)
	return node.rest(http.MethodDelete, path, nil, nil)
}
