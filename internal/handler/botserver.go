package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/qx/budget_robot/internal/svc"
)

// BotServer long-polls Telegram and feeds updates to a BotHandler one at a
// time. It implements service.Service so it runs next to the HTTP server.
type BotServer struct {
	bot     *tgbotapi.BotAPI
	handler *BotHandler
	timeout int
}

func NewBotServer(svcCtx *svc.ServiceContext) *BotServer {
	return &BotServer{
		bot:     svcCtx.Bot,
		handler: NewBotHandler(svcCtx, svcCtx.Bot),
		timeout: svcCtx.Config.Bot.PollTimeout,
	}
}

func (s *BotServer) Start() {
	if err := s.handler.RegisterCommands(); err != nil {
		logx.Errorf("bot: %v", err)
	}
	logx.Infof("bot started: @%s", s.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = s.timeout
	for update := range s.bot.GetUpdatesChan(u) {
		s.handler.HandleUpdate(update)
	}
}

func (s *BotServer) Stop() {
	s.bot.StopReceivingUpdates()
	logx.Info("bot stopped")
}
