package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"coffer_scanner/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs ...int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs...))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnTop, th.CommandEqual("top"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnRefresh, th.CommandEqual("refresh"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminIDs...))

	cbGroup.HandleCallbackQuery(h.OnTopCallback, th.CallbackDataPrefix(topPagePrefix))
}
