// Package discord connects the engine to Discord through a gateway session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chanlock"
	"github.com/KirkDiggler/ticketsnipe/internal/services/engine"
	"github.com/bwmarrin/discordgo"
	"github.com/decred/slog"
)

// maxHistory is Discord's page size for channel history
const maxHistory = 100

// Engine is what the bot delivers messages and operator commands to
type Engine interface {
	Reserve(channelID, authorID string) *chanlock.Slot
	HandleReserved(ctx context.Context, slot *chanlock.Slot, msg *models.Message) error
	Status(ctx context.Context) *engine.StatusOutput
	Release(ctx context.Context, channelID string) error
	SimulatePayout(ctx context.Context, channelID string) (*models.Transaction, error)
}

// Bot represents the Discord bot instance. It is also the engine's
// chat.Messenger.
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config
	log        slog.Logger

	mu     sync.RWMutex
	selfID string
	engine Engine

	// ctx scopes handler work to the bot's lifetime
	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// HandlerTimeout bounds the work done for one message
	HandlerTimeout time.Duration

	Logger slog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent
	// handlers run on the gateway goroutine in delivery order; each one
	// only reserves its place and hands the work off
	session.SyncEvents = true

	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	ctx, cancel := context.WithCancel(context.Background())

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}

	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleMessageCreate)
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the gateway connection and registers the operator command.
// Messages are forwarded to eng, which drops them until it has started.
func (b *Bot) Start(eng Engine) error {
	if eng == nil {
		return errors.New("engine cannot be nil")
	}
	b.mu.Lock()
	b.engine = eng
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if b.SelfID() == "" {
		me, err := b.session.User("@me")
		if err != nil {
			return fmt.Errorf("failed to look up bot user: %w", err)
		}
		b.setSelf(me.ID)
	}

	if err := b.RegisterCommand(NewSnipeCommand(eng)); err != nil {
		return fmt.Errorf("failed to register snipe command: %w", err)
	}

	b.log.Infof("Connected to Discord as %s", b.SelfID())
	return nil
}

// Stop removes registered commands and closes the connection
func (b *Bot) Stop() error {
	b.cancel()

	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.log.Warnf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.appID()
	if b.config.GuildID != "" {
		b.log.Debugf("Registering command %s for guild %s", cmd.GetName(), b.config.GuildID)
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.log.Infof("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)
	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to our own user id if application ID is not provided
	return b.SelfID()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		b.setSelf(r.User.ID)
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || m.GuildID == "" {
		return
	}
	b.mu.RLock()
	eng := b.engine
	b.mu.RUnlock()
	if eng == nil {
		return
	}

	slot := eng.Reserve(m.ChannelID, m.Author.ID)
	go b.deliver(eng, slot, m.Message)
}

// deliver resolves the channel and hands a reserved message to the engine
func (b *Bot) deliver(eng Engine, slot *chanlock.Slot, m *discordgo.Message) {
	ctx := b.ctx
	if b.config.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.HandlerTimeout)
		defer cancel()
	}

	msg := toMessage(m, b.channelName(m.ChannelID))
	if err := eng.HandleReserved(ctx, slot, msg); err != nil {
		if errors.Is(err, engine.ErrNotStarted) {
			b.log.Debugf("Dropped message %s before the engine started", m.ID)
			return
		}
		b.log.Warnf("Message %s in %s dropped: %v", m.ID, m.ChannelID, err)
	}
}

// handleInteraction dispatches slash commands off the gateway goroutine
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	h, ok := b.commands[name]
	if !ok {
		return
	}
	go func() {
		if err := h.Handle(b.ctx, s, i); err != nil {
			b.log.Errorf("Error handling command %s: %v", name, err)
		}
	}()
}

// channelName resolves a channel's name from the state cache, falling back
// to the REST API
func (b *Bot) channelName(channelID string) string {
	if ch, err := b.session.State.Channel(channelID); err == nil && ch != nil {
		return ch.Name
	}
	ch, err := b.session.Channel(channelID)
	if err != nil {
		b.log.Debugf("Resolving channel %s: %v", channelID, err)
		return ""
	}
	return ch.Name
}

func (b *Bot) setSelf(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selfID = id
}

// SelfID is the bot's own user id
func (b *Bot) SelfID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selfID
}

// Send posts content to a channel and returns the new message id
func (b *Bot) Send(ctx context.Context, channelID, content string) (string, error) {
	m, err := b.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("sending to %s: %w", channelID, err)
	}
	return m.ID, nil
}

// Reply posts content as a reply to msg
func (b *Bot) Reply(ctx context.Context, msg *models.Message, content string) (string, error) {
	ref := &discordgo.MessageReference{MessageID: msg.ID, ChannelID: msg.ChannelID}
	m, err := b.session.ChannelMessageSendReply(msg.ChannelID, content, ref, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("replying in %s: %w", msg.ChannelID, err)
	}
	return m.ID, nil
}

// Typing shows the typing indicator in a channel
func (b *Bot) Typing(ctx context.Context, channelID string) error {
	return b.session.ChannelTyping(channelID, discordgo.WithContext(ctx))
}

// RecentMessages returns up to limit messages, newest first
func (b *Bot) RecentMessages(ctx context.Context, channelID string, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}
	page, err := b.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("reading history of %s: %w", channelID, err)
	}
	name := b.channelName(channelID)
	out := make([]*models.Message, 0, len(page))
	for _, m := range page {
		out = append(out, toMessage(m, name))
	}
	return out, nil
}
