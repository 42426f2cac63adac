package announce

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const maxDiscordMessageLen = 2000

// DiscordSink posts events to a channel.
type DiscordSink struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordSink uses the REST API only; no gateway connection is opened.
func NewDiscordSink(token, channelID string) (*DiscordSink, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordSink{session: s, channelID: channelID}, nil
}

func (s *DiscordSink) Send(ctx context.Context, e Event) error {
	_, err := s.session.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
		Content: FormatMessage(e),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}, discordgo.WithContext(ctx))
	return err
}

// FormatMessage renders an event as a Discord message.
func FormatMessage(e Event) string {
	var b strings.Builder
	name := e.Name
	if name == "" {
		name = e.DRepID
	}
	fmt.Fprintf(&b, "**New DRep registration: %s**\n", name)
	fmt.Fprintf(&b, "DRep ID: `%s`\n", e.DRepID)
	fmt.Fprintf(&b, "Transaction: `%s`\n", e.TxHash)
	if e.MetadataURL != "" {
		fmt.Fprintf(&b, "Metadata: <%s>\n", e.MetadataURL)
	}
	msg := b.String()
	if len(msg) > maxDiscordMessageLen {
		msg = msg[:maxDiscordMessageLen-3] + "..."
	}
	return msg
}
