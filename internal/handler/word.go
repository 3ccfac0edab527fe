package handler

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/zsoro2/word-app/internal/domain"
)

// splitTermExample parses "term | example sentence" input. The example part
// is optional.
func splitTermExample(text string) (term, example string) {
	parts := strings.SplitN(text, "|", 2)
	term = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		example = strings.TrimSpace(parts[1])
	}
	return term, example
}

// handleAddWordButton starts the two-step word input flow
func (h *Handler) handleAddWordButton(c tele.Context) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	if len(cs.library.Folders()) == 0 {
		c.Respond()
		return c.Send("You need a folder first. Create one with /newfolder <name>.")
	}

	h.SetState(chatID, &domain.StateData{State: domain.StateWaitingLeft})
	c.Respond()
	return c.Send("✍️ Send the term (optionally with an example: term | example sentence)", cancelMarkup())
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	chatID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(chatID)

	switch state.State {
	case domain.StateWaitingName:
		if text == "" {
			return c.Send("The name can't be empty. Try again:", cancelMarkup())
		}
		h.SetState(chatID, &domain.StateData{State: domain.StateWaitingEmail, Signup: true, Name: text})
		return c.Send("📧 Email address:", cancelMarkup())

	case domain.StateWaitingEmail:
		if !strings.Contains(text, "@") {
			return c.Send("That doesn't look like an email. Try again:", cancelMarkup())
		}
		h.SetState(chatID, &domain.StateData{
			State:  domain.StateWaitingPassword,
			Signup: state.Signup,
			Name:   state.Name,
			Email:  text,
		})
		return c.Send("🔑 Password:", cancelMarkup())

	case domain.StateWaitingPassword:
		return h.finishAuth(c, state, text)

	case domain.StateWaitingLeft:
		term, example := splitTermExample(text)
		if term == "" {
			return c.Send("The term can't be empty. Try again:", cancelMarkup())
		}
		h.SetState(chatID, &domain.StateData{
			State:       domain.StateWaitingRight,
			LeftWord:    term,
			LeftExample: example,
		})
		return c.Send("🌐 Now the translation (again: term | example is fine)", cancelMarkup())

	case domain.StateWaitingRight:
		return h.saveWord(c, state, text)

	default:
		// Stray text from an authenticated chat starts the word flow, the
		// first message being the left-hand term.
		if !h.chat(chatID).sessions.IsAuthenticated() {
			return c.Send("Use /login or /signup first.")
		}
		if len(h.chat(chatID).library.Folders()) == 0 {
			return c.Send("You need a folder first. Create one with /newfolder <name>.")
		}
		term, example := splitTermExample(text)
		if term == "" {
			return nil
		}
		h.SetState(chatID, &domain.StateData{
			State:       domain.StateWaitingRight,
			LeftWord:    term,
			LeftExample: example,
		})
		return c.Send("🌐 Now the translation (term | example is fine)", cancelMarkup())
	}
}

// saveWord completes the add-word flow. Both terms are validated here, at the
// surface; the library itself trusts its input.
func (h *Handler) saveWord(c tele.Context, state *domain.StateData, text string) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	right, rightExample := splitTermExample(text)
	if right == "" {
		return c.Send("The translation can't be empty. Try again:", cancelMarkup())
	}

	folderID := h.activeFolder(chatID)
	if folderID == "" {
		folders := cs.library.Folders()
		if len(folders) == 0 {
			h.ResetState(chatID)
			return c.Send("You need a folder first. Create one with /newfolder <name>.")
		}
		folderID = folders[0].ID
	}

	word, err := cs.library.AddWord(context.Background(), domain.NewWord{
		FolderID:     folderID,
		LeftWord:     state.LeftWord,
		LeftExample:  state.LeftExample,
		RightWord:    right,
		RightExample: rightExample,
	})
	if err != nil {
		h.logger.Error("failed to save word",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		h.ResetState(chatID)
		return c.Send("Couldn't save the word. Please try again.")
	}

	h.logger.Info("word saved",
		zap.Int64("chat_id", chatID),
		zap.String("word_id", word.ID),
	)

	// Stay in the flow so the next message starts another pair.
	h.SetState(chatID, &domain.StateData{State: domain.StateWaitingLeft})
	return c.Send(fmt.Sprintf("✅ Saved %s → %s.\n\nSend the next term, or go /start.", word.LeftWord, word.RightWord))
}

// handleNewFolder handles /newfolder <name> [#color]
func (h *Handler) handleNewFolder(c tele.Context) error {
	chatID := c.Sender().ID
	payload := strings.TrimSpace(c.Message().Payload)
	if payload == "" {
		return c.Send("Usage: /newfolder <name> [#hexcolor]")
	}

	name := payload
	color := ""
	if i := strings.LastIndex(payload, "#"); i > 0 {
		name = strings.TrimSpace(payload[:i])
		color = payload[i:]
	}

	cs := h.chat(chatID)
	folder, err := cs.library.AddFolder(context.Background(), domain.NewFolder{Name: name, Color: color})
	if err != nil {
		h.logger.Error("failed to create folder", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send("Couldn't create the folder. Please try again.")
	}

	return c.Send(fmt.Sprintf("📁 Folder %q created.", folder.Name))
}
