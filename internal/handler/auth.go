package handler

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/zsoro2/word-app/internal/domain"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	chatID := c.Sender().ID

	h.logger.Info("chat started",
		zap.Int64("chat_id", chatID),
		zap.String("username", c.Sender().Username),
	)

	cs := h.chat(chatID)
	h.ResetState(chatID)

	if !cs.sessions.IsAuthenticated() {
		// A session may still be alive on the backend from a previous run.
		cs.sessions.Restore(context.Background())
	}

	if !cs.sessions.IsAuthenticated() {
		return c.Send("👋 Welcome! Use /login to sign in, or /signup to create an account.")
	}

	user := cs.sessions.CurrentUser()
	return c.Send(
		fmt.Sprintf("🏠 Hi %s! What would you like to do?", user.Name),
		mainMenuMarkup(),
	)
}

// handleLogin starts the email+password login flow
func (h *Handler) handleLogin(c tele.Context) error {
	chatID := c.Sender().ID

	if h.chat(chatID).sessions.IsAuthenticated() {
		return c.Send("You're already logged in. /logout first to switch accounts.")
	}

	h.SetState(chatID, &domain.StateData{State: domain.StateWaitingEmail})
	return c.Send("📧 Email address:", cancelMarkup())
}

// handleSignup starts the account creation flow
func (h *Handler) handleSignup(c tele.Context) error {
	chatID := c.Sender().ID

	if h.chat(chatID).sessions.IsAuthenticated() {
		return c.Send("You're already logged in. /logout first to create another account.")
	}

	h.SetState(chatID, &domain.StateData{State: domain.StateWaitingName, Signup: true})
	return c.Send("🙋 What name should we show on your profile?", cancelMarkup())
}

// handleLogout destroys the session. Local state is gone either way; a
// remote failure only changes the goodbye message.
func (h *Handler) handleLogout(c tele.Context) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)
	h.ResetState(chatID)

	if err := cs.sessions.Logout(context.Background()); err != nil {
		h.logger.Warn("logout failed remotely", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send("You're logged out here, but the server couldn't be reached to close the session.")
	}
	return c.Send("👋 Logged out. See you!")
}

// handleRename handles /name <new display name>
func (h *Handler) handleRename(c tele.Context) error {
	chatID := c.Sender().ID
	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return c.Send("Usage: /name <new display name>")
	}

	cs := h.chat(chatID)
	if err := cs.sessions.UpdateName(context.Background(), name); err != nil {
		h.logger.Error("rename failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send("Couldn't update your name. Please try again.")
	}
	return c.Send(fmt.Sprintf("✅ You're now %s.", name))
}

// finishAuth completes the login/signup flow once the password arrives.
func (h *Handler) finishAuth(c tele.Context, state *domain.StateData, password string) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)
	ctx := context.Background()

	var err error
	if state.Signup {
		err = cs.sessions.Signup(ctx, state.Name, state.Email, password)
	} else {
		err = cs.sessions.Login(ctx, state.Email, password)
	}

	if err != nil {
		h.logger.Warn("auth failed",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Bool("signup", state.Signup),
		)
		h.ResetState(chatID)
		if state.Signup {
			return c.Send("Couldn't create the account. The email may already be registered — try /login or /signup again.")
		}
		return c.Send("Invalid email or password. Try /login again.")
	}

	h.ResetState(chatID)
	user := cs.sessions.CurrentUser()
	return c.Send(
		fmt.Sprintf("✅ Welcome, %s!\n\nYour words are loading — pick an action:", user.Name),
		mainMenuMarkup(),
	)
}
