package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// SessionGate decides whether a chat may run a given update. The handler
// implements it: authenticated chats always pass, unauthenticated ones only
// for the auth-flow commands and states.
type SessionGate interface {
	Permit(chatID int64, text string) bool
}

// Auth creates authentication middleware
func Auth(gate SessionGate, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chatID := c.Sender().ID

			if !gate.Permit(chatID, c.Text()) {
				logger.Debug("update blocked for unauthenticated chat",
					zap.Int64("chat_id", chatID),
				)
				return c.Send("You're not logged in. Use /login or /signup first.")
			}

			return next(c)
		}
	}
}
