package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/zsoro2/word-app/internal/domain"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleCallback handles dynamic callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := cleanCallbackData(callback.Data)

	switch {
	case strings.HasPrefix(data, "folder_"):
		return h.handleFolderSelect(c, strings.TrimPrefix(data, "folder_"))
	case strings.HasPrefix(data, "delfolder_"):
		return h.handleFolderDelete(c, strings.TrimPrefix(data, "delfolder_"))
	case strings.HasPrefix(data, "forget_"):
		return h.handleForgetWord(c, strings.TrimPrefix(data, "forget_"))
	}

	h.logger.Warn("unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleCancel aborts whatever flow the chat is in
func (h *Handler) handleCancel(c tele.Context) error {
	chatID := c.Sender().ID
	h.ResetState(chatID)
	c.Respond()

	if !h.chat(chatID).sessions.IsAuthenticated() {
		return c.Send("Cancelled. Use /login or /signup when you're ready.")
	}
	return c.Send("Cancelled.", mainMenuMarkup())
}

// handleFolders shows the folder list with word counts
func (h *Handler) handleFolders(c tele.Context) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	if cs.library.IsLoading() {
		c.Respond()
		return c.Send("⏳ Still loading your library, one moment...")
	}

	folders := cs.library.Folders()
	if len(folders) == 0 {
		c.Respond()
		return c.Send("No folders yet. Create one with /newfolder <name>.")
	}

	counts := cs.library.FolderCounts()
	active := h.activeFolder(chatID)

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{
		markup.Row(markup.Data("📚 All words", "folder_all")),
	}
	for _, f := range folders {
		label := fmt.Sprintf("%s (%d)", f.Name, counts[f.ID])
		if f.ID == active {
			label = "▶ " + label
		}
		rows = append(rows, markup.Row(
			markup.Data(label, "folder_"+f.ID),
			markup.Data("🗑", "delfolder_"+f.ID),
		))
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	c.Respond()
	return c.Send("📁 Your folders — tap to filter, 🗑 to delete:", markup)
}

// handleFolderSelect sets the active folder filter
func (h *Handler) handleFolderSelect(c tele.Context, folderID string) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	if folderID == "all" {
		folderID = ""
	}
	h.setActiveFolder(chatID, folderID)

	words := cs.library.WordsInFolder(folderID)
	c.Respond()
	return c.Send(
		fmt.Sprintf("✅ Filter set. %d word(s) in view.", len(words)),
		mainMenuMarkup(),
	)
}

// handleFolderDelete runs the reassignment workflow. The last folder is
// blocked here first; the library refuses it as well.
func (h *Handler) handleFolderDelete(c tele.Context, folderID string) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	if len(cs.library.Folders()) <= 1 {
		c.Respond()
		return c.Send("That's your last folder — it can't be deleted.")
	}

	if err := cs.library.DeleteFolder(context.Background(), folderID); err != nil {
		h.logger.Error("folder delete failed",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("folder_id", folderID),
		)
		c.Respond()
		if errors.Is(err, domain.ErrLastFolder) {
			return c.Send("That's your last folder — it can't be deleted.")
		}
		// Reassignments may have partially landed; a reload resolves it.
		return c.Send("Couldn't delete the folder. Your library may be out of date — use /start to reload.")
	}

	if h.activeFolder(chatID) == folderID {
		h.setActiveFolder(chatID, "")
	}

	c.Respond()
	return c.Send("🗑 Folder deleted; its words moved to your first folder.", mainMenuMarkup())
}

// handleShuffle randomizes the practice order
func (h *Handler) handleShuffle(c tele.Context) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	cs.library.Shuffle()
	c.Respond()
	return c.Send("🔀 Shuffled!", mainMenuMarkup())
}

// handlePractice shows a card from the active filter with the translation
// hidden behind a spoiler.
func (h *Handler) handlePractice(c tele.Context) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	if cs.library.IsLoading() {
		c.Respond()
		return c.Send("⏳ Still loading your library, one moment...")
	}

	words := cs.library.WordsInFolder(h.activeFolder(chatID))
	if len(words) == 0 {
		c.Respond()
		return c.Send("No words in view. Add some first!", mainMenuMarkup())
	}

	word := words[rand.Intn(len(words))]

	text := fmt.Sprintf("🎴 <b>%s</b>", html.EscapeString(word.LeftWord))
	if word.LeftExample != "" {
		text += fmt.Sprintf("\n<i>%s</i>", html.EscapeString(word.LeftExample))
	}
	text += fmt.Sprintf("\n\n<tg-spoiler>%s", html.EscapeString(word.RightWord))
	if word.RightExample != "" {
		text += fmt.Sprintf("\n%s", html.EscapeString(word.RightExample))
	}
	text += "</tg-spoiler>"

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnMore, markup.Data("🗑 Forget", "forget_"+word.ID)),
		markup.Row(btnMainMenu),
	)

	c.Respond()
	return c.Send(text, markup, tele.ModeHTML)
}

// handleForgetWord deletes the word shown on a practice card
func (h *Handler) handleForgetWord(c tele.Context, wordID string) error {
	chatID := c.Sender().ID
	cs := h.chat(chatID)

	if err := cs.library.DeleteWord(context.Background(), wordID); err != nil {
		h.logger.Error("word delete failed",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("word_id", wordID),
		)
		c.Respond()
		return c.Send("Couldn't delete the word. Please try again.")
	}

	c.Respond()
	return c.Send("🗑 Forgotten.", mainMenuMarkup())
}
