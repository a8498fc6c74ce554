// Package models contains the MongoDB document models used by the bot.
package models

import "time"

// TriggerConfig is the configuration of an auto-voice trigger channel.
// One document per (guild, trigger channel) pair.
type TriggerConfig struct {
	GuildID          string    `bson:"guildId" json:"guildId"`
	TriggerChannelID string    `bson:"triggerChannelId" json:"triggerChannelId"`
	CategoryID       string    `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	MaxUserLimit     int       `bson:"maxUserLimit" json:"maxUserLimit"`
	Enabled          bool      `bson:"enabled" json:"enabled"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// TempChannel is a temporary voice channel created by the auto-voice system.
// Keyed by ChannelID (unique); looked up by (guild, owner) for existence checks.
type TempChannel struct {
	GuildID          string    `bson:"guildId" json:"guildId"`
	ChannelID        string    `bson:"channelId" json:"channelId"`
	OwnerID          string    `bson:"ownerId" json:"ownerId"`
	TriggerChannelID string    `bson:"triggerChannelId" json:"triggerChannelId"`
	ChannelName      string    `bson:"channelName" json:"channelName"`
	UserLimit        int       `bson:"userLimit" json:"userLimit"`
	IsLocked         bool      `bson:"isLocked" json:"isLocked"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}
