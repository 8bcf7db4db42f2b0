package domain

import "fmt"

// MessageTier classifies narrative log lines for client styling.
type MessageTier string

const (
	TierWelcome MessageTier = "welcome"
	TierInfo    MessageTier = "info"
	TierCombat  MessageTier = "combat"
	TierDeath   MessageTier = "death"
	TierWarning MessageTier = "warning"
	TierLevel   MessageTier = "level"
)

// Message is one narrative log line shown to the player.
type Message struct {
	Text string      `json:"text"`
	Tier MessageTier `json:"tier"`
	Tick int64       `json:"tick"`
}

// MessageLog is the bounded narrative sink written by the resolver,
// combat, AI and consumables. Call order is display order; the log
// keeps only the most recent Limit entries.
type MessageLog struct {
	Entries []Message `json:"entries"`
	Limit   int       `json:"limit"`
}

// NewMessageLog returns a log bounded to limit entries.
func NewMessageLog(limit int) *MessageLog {
	return &MessageLog{Limit: limit}
}

// Add appends a formatted line, evicting the oldest beyond Limit.
func (l *MessageLog) Add(tick int64, tier MessageTier, format string, args ...any) {
	l.Entries = append(l.Entries, Message{
		Text: fmt.Sprintf(format, args...),
		Tier: tier,
		Tick: tick,
	})
	if l.Limit > 0 && len(l.Entries) > l.Limit {
		l.Entries = l.Entries[len(l.Entries)-l.Limit:]
	}
}

// Recent returns up to n of the newest entries, oldest first.
func (l *MessageLog) Recent(n int) []Message {
	if n <= 0 || n >= len(l.Entries) {
		return l.Entries
	}
	return l.Entries[len(l.Entries)-n:]
}
