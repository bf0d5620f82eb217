package handlers

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-plan-bot/internal/currency"
	"telegram-plan-bot/internal/models"
	"telegram-plan-bot/internal/session"
	"telegram-plan-bot/internal/storage"
)

type Handler struct {
	Bot      *tgbotapi.BotAPI
	DB       *storage.DB
	Rates    *currency.Converter
	Sessions *session.Manager
}

func NewHandler(bot *tgbotapi.BotAPI, db *storage.DB, rates *currency.Converter, sessions *session.Manager) *Handler {
	return &Handler{Bot: bot, DB: db, Rates: rates, Sessions: sessions}
}

// HandleUpdate is the single entry point for inbound events. A panic in a
// handler is contained here so one bad update cannot take the process down.
func (h *Handler) HandleUpdate(upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Паніка при обробці оновлення: %v", r)
		}
	}()

	switch {
	case upd.Message != nil:
		h.handleMessage(upd.Message)
	case upd.CallbackQuery != nil:
		h.handleCallbackQuery(upd.CallbackQuery)
	}
}

func (h *Handler) handleMessage(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	isNew := !h.Sessions.Exists(userID)
	st := h.Sessions.Obtain(userID)
	st.Lock()
	defer st.Unlock()
	st.Touch()

	if err := h.DB.SaveUser(userFrom(msg.From)); err != nil {
		log.Println("❌ Помилка збереження користувача:", err)
	}

	if msg.IsCommand() {
		h.handleCommand(st, chatID, msg.Command())
		return
	}

	// Any message from a user without a session means "the conversation
	// was reopened": wipe stale bot messages and reissue the menu.
	if isNew {
		h.startNewSession(st, chatID)
		return
	}

	h.handleText(st, chatID, msg.Text)
}

func (h *Handler) handleCallbackQuery(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	st := h.Sessions.Obtain(userID)
	st.Lock()
	defer st.Unlock()
	st.Touch()

	_ = h.DB.UpdateUserActivity(userID)

	// always answer to remove the button spinner
	_, _ = h.Bot.Request(tgbotapi.NewCallback(cq.ID, ""))

	h.handleCallback(st, chatID, cq.Message.MessageID, cq.Data)
}

func (h *Handler) startNewSession(st *session.State, chatID int64) {
	h.clearChat(st, chatID, 0)
	st.Session.Reset()
	h.showMainMenu(st, chatID)
}

// ---------- transport helpers -----------------------------------------------

// send delivers plain text and tracks the message id for later cleanup.
func (h *Handler) send(st *session.State, chatID int64, text string) {
	m, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		log.Println("❌ Помилка відправки:", err)
		return
	}
	st.TrackMessage(m.MessageID)
}

func (h *Handler) sendWithMarkup(st *session.State, chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	m, err := h.Bot.Send(msg)
	if err != nil {
		log.Println("❌ Помилка відправки:", err)
		return
	}
	st.TrackMessage(m.MessageID)
}

// edit rewrites an existing bot message in place. "message is not
// modified" is an expected answer, not a failure.
func (h *Handler) edit(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	cfg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	if _, err := h.Bot.Request(cfg); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		log.Println("❌ Помилка редагування:", err)
	}
}

// deleteMessage tolerates already-deleted messages.
func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.Bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		if strings.Contains(err.Error(), "message to delete not found") {
			return
		}
		log.Println("❌ Помилка видалення повідомлення:", err)
	}
}

// clearChat deletes the tracked bot messages except keepID.
func (h *Handler) clearChat(st *session.State, chatID int64, keepID int) {
	for _, id := range st.DrainMessages(keepID) {
		h.deleteMessage(chatID, id)
	}
}

func (h *Handler) showMainMenu(st *session.State, chatID int64) {
	h.sendWithMarkup(st, chatID, textWelcome, mainMenuKeyboard())
}

func userFrom(u *tgbotapi.User) *models.User {
	return &models.User{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
