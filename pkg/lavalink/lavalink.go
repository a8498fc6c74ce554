// Package lavalink provides a Lavalink v4 client for music playback.
// It manages node websocket connections, track loading over REST and
// per-guild player links, and notifies registered listeners of track
// lifecycle events so playback scheduling can live outside this package.
package lavalink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/NovaStudios/NovaBotGo/pkg/logger"
	"github.com/NovaStudios/NovaBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
)

// NodeConfig holds configuration for a Lavalink node
type NodeConfig struct {
	Name     string
	Host     string
	Port     int
	Password string
	Secure   bool
}

// TrackInfo contains information about a track
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
}

// Track represents a playable track
type Track struct {
	Encoded string    `json:"encoded"`
	Info    TrackInfo `json:"info"`
}

// TrackEventListener receives track lifecycle events from Lavalink nodes.
// Listeners are invoked from the node read loop and must not block.
type TrackEventListener interface {
	OnTrackStart(guildID string, track *Track)
	OnTrackEnd(guildID string, reason string, mayStartNext bool)
	OnTrackException(guildID string, message string)
	OnTrackStuck(guildID string, thresholdMs int64)
}

// Client manages connections to Lavalink nodes
type Client struct {
	session    *discordgo.Session
	nodes      []*Node
	listeners  []TrackEventListener
	mqttClient *mqtt.MqttCommunicator
	httpClient *http.Client

	mu          sync.RWMutex
	voiceStates map[string]*pendingVoice
}

// pendingVoice accumulates the Discord voice handshake for a guild.
// Lavalink needs sessionId, token and endpoint before it can connect.
type pendingVoice struct {
	SessionID string
	Token     string
	Endpoint  string
}

// Node represents a Lavalink node connection
type Node struct {
	config       NodeConfig
	conn         *websocket.Conn
	client       *Client
	sessionID    string
	connected    bool
	reconnecting bool
	mu           sync.RWMutex
}

var (
	lavalinkClient *Client
	once           sync.Once
)

// Init initializes the global Lavalink client
func Init(session *discordgo.Session, nodeConfigs []NodeConfig) *Client {
	once.Do(func() {
		lavalinkClient = NewClient(session, nodeConfigs)
	})
	return lavalinkClient
}

// Get returns the global Lavalink client
func Get() *Client {
	return lavalinkClient
}

// NewClient creates a new Lavalink client
func NewClient(session *discordgo.Session, nodeConfigs []NodeConfig) *Client {
	logger.Debug("Initializing Lavalink Client", "Lavalink")

	client := &Client{
		session:     session,
		nodes:       make([]*Node, 0),
		mqttClient:  mqtt.Get(),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		voiceStates: make(map[string]*pendingVoice),
	}

	for _, config := range nodeConfigs {
		node := &Node{
			config: config,
			client: client,
		}
		client.nodes = append(client.nodes, node)
	}

	// Forward the Discord voice handshake to the node
	session.AddHandler(client.voiceStateUpdate)
	session.AddHandler(client.voiceServerUpdate)

	return client
}

// AddListener registers a track event listener
func (c *Client) AddListener(l TrackEventListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Connect connects to all Lavalink nodes
func (c *Client) Connect() error {
	for _, node := range c.nodes {
		go node.connect()
	}
	return nil
}

// availableNode returns the first connected node, or nil
func (c *Client) availableNode() *Node {
	for _, node := range c.nodes {
		node.mu.RLock()
		ok := node.connected && node.sessionID != ""
		node.mu.RUnlock()
		if ok {
			return node
		}
	}
	return nil
}

// connect establishes connection to a Lavalink node
func (n *Node) connect() {
	n.mu.Lock()
	if n.connected || n.reconnecting {
		n.mu.Unlock()
		return
	}
	n.reconnecting = true
	n.mu.Unlock()

	scheme := "ws"
	if n.config.Secure {
		scheme = "wss"
	}

	url := fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, n.config.Host, n.config.Port)

	headers := http.Header{}
	headers.Set("Authorization", n.config.Password)
	headers.Set("User-Id", n.client.session.State.User.ID)
	headers.Set("Client-Name", "NovaBot-Go/1.0")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(url, headers)
	if err != nil {
		logger.Error(fmt.Sprintf("Error al conectar con Lavalink %s: %v", n.config.Name, err), "Lavalink")
		n.mu.Lock()
		n.reconnecting = false
		n.mu.Unlock()

		// Retry connection
		go func() {
			time.Sleep(5 * time.Second)
			n.connect()
		}()
		return
	}

	n.mu.Lock()
	n.conn = conn
	n.connected = true
	n.reconnecting = false
	n.mu.Unlock()

	logger.Success(fmt.Sprintf("Conectado con Lavalink server: %s", n.config.Name), "Lavalink")

	go n.readMessages()
}

// readMessages reads messages from the Lavalink websocket
func (n *Node) readMessages() {
	for {
		_, message, err := n.conn.ReadMessage()
		if err != nil {
			logger.Warn(fmt.Sprintf("Error leyendo mensaje de Lavalink: %v", err), "Lavalink")
			n.handleDisconnect()
			return
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(message, &payload); err != nil {
			continue
		}

		n.handleMessage(payload)
	}
}

// handleMessage processes incoming Lavalink messages
func (n *Node) handleMessage(payload map[string]interface{}) {
	op, ok := payload["op"].(string)
	if !ok {
		return
	}

	switch op {
	case "ready":
		sessionID, _ := payload["sessionId"].(string)
		n.mu.Lock()
		n.sessionID = sessionID
		n.mu.Unlock()
		logger.Info("Lavalink ready, session: "+sessionID, "Lavalink")
	case "playerUpdate":
		// Position is tracked server-side; nothing keeps it here.
	case "event":
		n.handleEvent(payload)
	case "stats":
		// Node statistics, ignored.
	}
}

// handleEvent decodes a Lavalink track event and notifies listeners
func (n *Node) handleEvent(payload map[string]interface{}) {
	eventType, ok := payload["type"].(string)
	if !ok {
		return
	}

	guildID, _ := payload["guildId"].(string)

	switch eventType {
	case "TrackStartEvent":
		track := decodeEventTrack(payload)
		n.client.dispatchTrackStart(guildID, track)
	case "TrackEndEvent":
		reason, _ := payload["reason"].(string)
		n.client.dispatchTrackEnd(guildID, reason, endReasonMayStartNext(reason))
	case "TrackExceptionEvent":
		message := "unknown"
		if exc, ok := payload["exception"].(map[string]interface{}); ok {
			if m, ok := exc["message"].(string); ok && m != "" {
				message = m
			}
		}
		logger.Error(fmt.Sprintf("Track exception en guild %s: %s", guildID, message), "Lavalink")
		n.client.dispatchTrackException(guildID, message)
	case "TrackStuckEvent":
		threshold, _ := payload["thresholdMs"].(float64)
		logger.Warn(fmt.Sprintf("Track atascado en guild %s (%dms)", guildID, int64(threshold)), "Lavalink")
		n.client.dispatchTrackStuck(guildID, int64(threshold))
	case "WebSocketClosedEvent":
		logger.Warn(fmt.Sprintf("WebSocket de voz cerrado para guild %s", guildID), "Lavalink")
	}
}

// endReasonMayStartNext reports whether the scheduler may advance after an
// end event. Replaced and stopped ends were caused by an explicit player
// operation and must not trigger a second advance.
func endReasonMayStartNext(reason string) bool {
	return reason == "finished" || reason == "loadFailed"
}

// decodeEventTrack extracts the track object carried by a track event
func decodeEventTrack(payload map[string]interface{}) *Track {
	raw, ok := payload["track"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var track Track
	if err := json.Unmarshal(data, &track); err != nil {
		return nil
	}
	return &track
}

func (c *Client) dispatchTrackStart(guildID string, track *Track) {
	c.publishMusicEvent(guildID, "playing", track)
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, l := range listeners {
		go l.OnTrackStart(guildID, track)
	}
}

func (c *Client) dispatchTrackEnd(guildID, reason string, mayStartNext bool) {
	c.publishMusicEvent(guildID, "stopped", nil)
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, l := range listeners {
		go l.OnTrackEnd(guildID, reason, mayStartNext)
	}
}

func (c *Client) dispatchTrackException(guildID, message string) {
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, l := range listeners {
		go l.OnTrackException(guildID, message)
	}
}

func (c *Client) dispatchTrackStuck(guildID string, thresholdMs int64) {
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, l := range listeners {
		go l.OnTrackStuck(guildID, thresholdMs)
	}
}

// handleDisconnect handles node disconnection
func (n *Node) handleDisconnect() {
	n.mu.Lock()
	n.connected = false
	n.sessionID = ""
	if n.conn != nil {
		n.conn.Close()
	}
	n.mu.Unlock()

	logger.Warn(fmt.Sprintf("Desconectado de Lavalink: %s. Reintentando...", n.config.Name), "Lavalink")

	time.Sleep(5 * time.Second)
	go n.connect()
}

// rest performs a REST call against the node and decodes the response into out
func (n *Node) rest(method, path string, body interface{}, out interface{}) error {
	scheme := "http"
	if n.config.Secure {
		scheme = "https"
	}

	url := fmt.Sprintf("%s://%s:%d%s", scheme, n.config.Host, n.config.Port, path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", n.config.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("lavalink: %s %s -> %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// JoinVoice connects the bot to a voice channel via the Discord gateway.
// The resulting voice state and server updates are forwarded to Lavalink.
func (c *Client) JoinVoice(guildID, channelID string) error {
	return c.session.ChannelVoiceJoinManual(guildID, channelID, false, true)
}

// LeaveVoice disconnects the bot from voice in the given guild
func (c *Client) LeaveVoice(guildID string) error {
	return c.session.ChannelVoiceJoinManual(guildID, "", false, true)
}

// voiceStateUpdate captures the bot's voice session id for the guild
func (c *Client) voiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID != s.State.User.ID {
		return
	}

	c.mu.Lock()
	pv, ok := c.voiceStates[v.GuildID]
	if !ok {
		pv = &pendingVoice{}
		c.voiceStates[v.GuildID] = pv
	}
	pv.SessionID = v.SessionID
	if v.ChannelID == "" {
		delete(c.voiceStates, v.GuildID)
	}
	c.mu.Unlock()
}

// voiceServerUpdate completes the handshake and pushes it to the player
func (c *Client) voiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	c.mu.Lock()
	pv, ok := c.voiceStates[v.GuildID]
	if !ok {
		pv = &pendingVoice{}
		c.voiceStates[v.GuildID] = pv
	}
	pv.Token = v.Token
	pv.Endpoint = v.Endpoint
	ready := pv.SessionID != "" && pv.Token != "" && pv.Endpoint != ""
	voice := *pv
	c.mu.Unlock()

	if !ready {
		return
	}

	node := c.availableNode()
	if node == nil {
		logger.Warn("Sin nodos de Lavalink disponibles para el handshake de voz", "Lavalink")
		return
	}

	update := map[string]interface{}{
		"voice": map[string]string{
			"token":     voice.Token,
			"endpoint":  voice.Endpoint,
			"sessionId": voice.SessionID,
		},
	}

	path := fmt.Sprintf("/v4/sessions/%s/players/%s?noReplace=false", node.currentSession(), v.GuildID)
	if err := node.rest(http.MethodPatch, path, update, nil); err != nil {
		logger.Error(fmt.Sprintf("Error enviando handshake de voz a Lavalink: %v", err), "Lavalink")
	}
}

func (n *Node) currentSession() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sessionID
}

// publishMusicEvent publishes a music event via MQTT
func (c *Client) publishMusicEvent(guildID, event string, track *Track) {
	if c.mqttClient == nil {
		return
	}

	state := map[string]interface{}{
		"guildId":   guildID,
		"event":     event,
		"timestamp": time.Now().UnixMilli(),
	}

	if track != nil {
		state["track"] = map[string]interface{}{
			"title":     track.Info.Title,
			"artist":    track.Info.Author,
			"duration":  float64(track.Info.Length) / 1000,
			"thumbnail": track.Info.ArtworkURL,
			"url":       track.Info.URI,
		}
	}

	topic := fmt.Sprintf("nova/music/%s/%s", guildID, event)
	c.mqttClient.Publish(topic, state)
}

// Disconnect disconnects from all nodes
func (c *Client) Disconnect() {
	for _, node := range c.nodes {
		node.mu.Lock()
		if node.conn != nil {
			node.conn.Close()
		}
		node.connected = false
		node.sessionID = ""
		node.mu.Unlock()
	}

	logger.System("Lavalink client desconectado", "Lavalink")
}
