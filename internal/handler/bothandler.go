package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/zeromicro/go-zero/core/limit"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/qx/budget_robot/internal/logic"
	"github.com/qx/budget_robot/internal/svc"
)

const (
	throttlePrefix = "budget:throttle:"
	throttledText  = "Too many requests, please slow down a little."
	failureText    = "Something went wrong, please try again later."
)

// Commands are registered with Telegram at startup.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Open the budget web app"},
	{Command: "balance", Description: "Current balance"},
	{Command: "expenses", Description: "Latest expenses"},
	{Command: "daily", Description: "Daily allowance"},
	{Command: "help", Description: "List commands"},
}

// The bot library predates web app buttons; reply_markup is marshalled as
// JSON, so these mirror Telegram's InlineKeyboardMarkup with a web_app field.
type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

func newWebAppKeyboard(text, url string) webAppKeyboard {
	return webAppKeyboard{InlineKeyboard: [][]webAppButton{
		{{Text: text, WebApp: webAppInfo{URL: url}}},
	}}
}

// Sender is the part of the bot client the handler talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type BotHandler struct {
	svcCtx   *svc.ServiceContext
	sender   Sender
	limiter  *limit.PeriodLimit // nil without Redis
	deadline time.Duration
}

func NewBotHandler(svcCtx *svc.ServiceContext, sender Sender) *BotHandler {
	h := &BotHandler{
		svcCtx:   svcCtx,
		sender:   sender,
		deadline: time.Duration(svcCtx.Config.Bot.HandlerTimeout) * time.Millisecond,
	}
	if svcCtx.Redis != nil && svcCtx.Config.Throttle.Quota > 0 {
		h.limiter = limit.NewPeriodLimit(svcCtx.Config.Throttle.Period, svcCtx.Config.Throttle.Quota,
			svcCtx.Redis, throttlePrefix)
	}
	return h
}

func (h *BotHandler) HandleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil || !update.Message.IsCommand() {
		return
	}

	ctx := context.Background()
	if h.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.deadline)
		defer cancel()
	}
	h.handleCommand(ctx, update.Message)
}

func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID, userID := message.Chat.ID, message.From.ID
	logx.WithContext(ctx).Infof("bot command /%s from user %d", message.Command(), userID)

	if !h.allow(ctx, userID) {
		h.reply(ctx, tgbotapi.NewMessage(chatID, throttledText))
		return
	}

	chat := logic.NewChatLogic(ctx, h.svcCtx)
	var (
		text string
		err  error
	)

	switch message.Command() {
	case "start":
		msg := tgbotapi.NewMessage(chatID, chat.StartText())
		if url := h.svcCtx.Config.Bot.WebAppURL; url != "" {
			msg.ReplyMarkup = newWebAppKeyboard("Open budget", url)
		}
		h.reply(ctx, msg)
		return
	case "help":
		text = logic.HelpText
	case "balance":
		text, err = chat.BalanceText(userID)
	case "expenses":
		text, err = chat.ExpensesText(userID)
	case "daily":
		text, err = chat.DailyText(userID)
	default:
		text = "Unknown command.\n\n" + logic.HelpText
	}

	if err != nil {
		logx.WithContext(ctx).Errorf("bot command /%s for user %d: %v", message.Command(), userID, err)
		text = failureText
	}
	h.reply(ctx, tgbotapi.NewMessage(chatID, text))
}

// allow applies the per-user command quota. Limiter errors let the command through.
func (h *BotHandler) allow(ctx context.Context, userID int64) bool {
	if h.limiter == nil {
		return true
	}

	code, err := h.limiter.TakeCtx(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		logx.WithContext(ctx).Errorf("bot throttle for user %d: %v", userID, err)
		return true
	}
	return code != limit.OverQuota
}

func (h *BotHandler) reply(ctx context.Context, msg tgbotapi.MessageConfig) {
	if _, err := h.sender.Send(msg); err != nil {
		logx.WithContext(ctx).Errorf("send to chat %d: %v", msg.ChatID, err)
	}
}

// RegisterCommands publishes the command list shown in Telegram clients.
func (h *BotHandler) RegisterCommands() error {
	if _, err := h.sender.Request(tgbotapi.NewSetMyCommands(Commands...)); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}
