package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cast"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/providers"
	"github.com/itkutus/potbot/internal/services"
	"github.com/itkutus/potbot/internal/structures"
	"github.com/itkutus/potbot/internal/weather"
)

const embedColor = 0x5865F2

// Bot is the Discord transport adapter. It maps platform events onto
// the engine's inputs and implements services.Notifier for the outbound
// direction. The engine itself never sees a discordgo type.
type Bot struct {
	conf       *structures.Config
	logger     providers.Logger
	session    *discordgo.Session
	store      *models.Store
	engagement services.EngagementServiceInterface
	board      services.LeaderboardServiceInterface
	daily      services.DailyStatsServiceInterface
	leveling   services.LevelingServiceInterface
	weather    *weather.Client
	metrics    providers.MetricsProviderInterface

	mu             sync.Mutex
	lockedChannels map[string]struct{}
}

func New(conf *structures.Config, logger providers.Logger, store *models.Store, engagement services.EngagementServiceInterface, board services.LeaderboardServiceInterface, daily services.DailyStatsServiceInterface, leveling services.LevelingServiceInterface, weatherClient *weather.Client, metrics providers.MetricsProviderInterface) (*Bot, error) {
	session, err := discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	b := &Bot{
		conf:           conf,
		logger:         logger,
		session:        session,
		store:          store,
		engagement:     engagement,
		board:          board,
		daily:          daily,
		leveling:       leveling,
		weather:        weatherClient,
		metrics:        metrics,
		lockedChannels: make(map[string]struct{}),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onVoiceStateUpdate)
	session.AddHandler(b.onGuildMemberAdd)

	return b, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (b *Bot) Stop() error {
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Infof(providers.TypeBot, "Connected to Discord as %s (%d guilds)", r.User.Username, len(r.Guilds))
	_ = s.UpdateWatchStatus(0, "the server")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	if b.isLocked(m.ChannelID) && !b.hasPermission(s, m.GuildID, m.ChannelID, m.Author.ID, discordgo.PermissionManageMessages) {
		_ = s.ChannelMessageDelete(m.ChannelID, m.ID)
		return
	}

	userID := cast.ToInt64(m.Author.ID)
	if userID != 0 {
		b.engagement.OnMessage(userID, time.Now())
	}

	if strings.HasPrefix(m.Content, b.conf.Discord.Prefix) {
		b.handleCommand(s, m)
	}
}

func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	userID := cast.ToInt64(v.UserID)
	if userID == 0 {
		return
	}

	wasInChannel := v.BeforeUpdate != nil && v.BeforeUpdate.ChannelID != ""
	inChannel := v.ChannelID != ""

	switch {
	case !wasInChannel && inChannel:
		b.engagement.OnVoiceJoin(userID, time.Now())
	case wasInChannel && !inChannel:
		b.engagement.OnVoiceLeave(userID, time.Now())
	}
}

func (b *Bot) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	b.engagement.OnMemberJoin(time.Now())

	channel := b.channelByName(m.GuildID, b.conf.Discord.GreetingChannel)
	if channel == "" {
		return
	}
	guildName := m.GuildID
	if guild, err := s.State.Guild(m.GuildID); err == nil {
		guildName = guild.Name
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Welcome to %s! 👋", guildName),
		Description: fmt.Sprintf("Hello <@%s>! Welcome to our server.\n\n"+
			"📝 Make sure to read the rules\n"+
			"💬 Introduce yourself in the chat\n"+
			"🎉 Have fun and enjoy your stay!\n\n"+
			"Type `%shelp` to see available commands.\n"+
			"🎮 Start earning XP by chatting and joining voice channels!",
			m.User.ID, b.conf.Discord.Prefix),
		Color: embedColor,
	}
	if _, err := s.ChannelMessageSendEmbed(channel, embed); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to send greeting: %s", err)
	}
}

// channelByName resolves a text channel id by name from the state
// cache, searching every guild the bot is in.
func (b *Bot) channelByName(guildID, name string) string {
	if name == "" {
		return ""
	}
	guilds := b.session.State.Guilds
	if guildID != "" {
		if guild, err := b.session.State.Guild(guildID); err == nil {
			guilds = []*discordgo.Guild{guild}
		}
	}
	for _, guild := range guilds {
		for _, ch := range guild.Channels {
			if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
				return ch.ID
			}
		}
	}
	return ""
}

func (b *Bot) hasPermission(s *discordgo.Session, guildID, channelID, userID string, permission int64) bool {
	perms, err := s.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		perms, err = s.UserChannelPermissions(userID, channelID)
		if err != nil {
			return false
		}
	}
	return perms&permission != 0 || perms&discordgo.PermissionAdministrator != 0
}

func (b *Bot) isAdmin(userID string) bool {
	return b.conf.Discord.AdminUserID != 0 && cast.ToInt64(userID) == b.conf.Discord.AdminUserID
}

func (b *Bot) isLocked(channelID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.lockedChannels[channelID]
	return ok
}

func (b *Bot) sendEmbed(s *discordgo.Session, channelID, title, description string) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       embedColor,
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Errorf(providers.TypeBot, "Failed to send embed %q: %s", title, err)
	}
}
