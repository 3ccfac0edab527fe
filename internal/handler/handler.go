package handler

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/service"
	"github.com/zsoro2/word-app/internal/store"
)

// Handler manages all bot interactions. Each chat gets its own backend
// connection and its own session manager + library, torn down together with
// the identity behind them.
type Handler struct {
	bot      *tele.Bot
	backends store.Factory
	logger   *zap.Logger

	mu    sync.RWMutex
	chats map[int64]*chatSession
}

// chatSession is the per-chat state: the session-scoped services plus the
// in-memory interaction state machine.
type chatSession struct {
	sessions *service.SessionManager
	library  *service.LibraryService
	state    *domain.StateData
	folderID string // active folder filter, empty means all words
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, backends store.Factory, logger *zap.Logger) *Handler {
	return &Handler{
		bot:      bot,
		backends: backends,
		logger:   logger,
		chats:    make(map[int64]*chatSession),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/login", h.handleLogin)
	h.bot.Handle("/signup", h.handleSignup)
	h.bot.Handle("/logout", h.handleLogout)
	h.bot.Handle("/name", h.handleRename)
	h.bot.Handle("/newfolder", h.handleNewFolder)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnAddWord, h.handleAddWordButton)
	h.bot.Handle(&btnPractice, h.handlePractice)
	h.bot.Handle(&btnMore, h.handlePractice)
	h.bot.Handle(&btnShuffle, h.handleShuffle)
	h.bot.Handle(&btnFolders, h.handleFolders)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// chat returns the chat's session, constructing the session-scoped services
// on first contact.
func (h *Handler) chat(chatID int64) *chatSession {
	h.mu.RLock()
	cs, ok := h.chats[chatID]
	h.mu.RUnlock()
	if ok {
		return cs
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if cs, ok = h.chats[chatID]; ok {
		return cs
	}

	backend := h.backends()
	sessions := service.NewSessionManager(backend.Accounts, h.logger)
	library := service.NewLibraryService(backend.Words, backend.Folders, h.logger)
	library.BindTo(sessions)

	cs = &chatSession{
		sessions: sessions,
		library:  library,
		state:    &domain.StateData{State: domain.StateIdle},
	}
	h.chats[chatID] = cs

	h.logger.Info("chat session created", zap.Int64("chat_id", chatID))
	return cs
}

// Sessions exposes the chat's session manager, for the auth middleware.
func (h *Handler) Sessions(chatID int64) *service.SessionManager {
	return h.chat(chatID).sessions
}

// Permit implements middleware.SessionGate: authenticated chats pass, and
// unauthenticated ones may still run the commands and states of the auth flow.
func (h *Handler) Permit(chatID int64, text string) bool {
	cs := h.chat(chatID)
	if cs.sessions.IsAuthenticated() {
		return true
	}

	switch strings.SplitN(text, " ", 2)[0] {
	case "/start", "/login", "/signup":
		return true
	}

	switch h.GetState(chatID).State {
	case domain.StateWaitingEmail, domain.StateWaitingPassword, domain.StateWaitingName:
		return true
	}
	return false
}

// GetState returns the chat's current state
func (h *Handler) GetState(chatID int64) *domain.StateData {
	cs := h.chat(chatID)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cs.state
}

// SetState sets the chat's state
func (h *Handler) SetState(chatID int64, state *domain.StateData) {
	cs := h.chat(chatID)
	h.mu.Lock()
	defer h.mu.Unlock()
	cs.state = state
}

// ResetState resets the chat to idle state
func (h *Handler) ResetState(chatID int64) {
	h.SetState(chatID, &domain.StateData{State: domain.StateIdle})
}

func (h *Handler) activeFolder(chatID int64) string {
	cs := h.chat(chatID)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cs.folderID
}

func (h *Handler) setActiveFolder(chatID int64, folderID string) {
	cs := h.chat(chatID)
	h.mu.Lock()
	defer h.mu.Unlock()
	cs.folderID = folderID
}

// Inline keyboard buttons
var (
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Add word",
	}
	btnPractice = tele.Btn{
		Unique: "practice",
		Text:   "🎴 Practice",
	}
	btnMore = tele.Btn{
		Unique: "more",
		Text:   "🔄 Next card",
	}
	btnShuffle = tele.Btn{
		Unique: "shuffle",
		Text:   "🔀 Shuffle",
	}
	btnFolders = tele.Btn{
		Unique: "folders",
		Text:   "📁 Folders",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnAddWord, btnPractice),
		menu.Row(btnFolders, btnShuffle),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
