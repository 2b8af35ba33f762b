package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/samber/lo"
)

// AdminOnly пропускает дальше только апдейты от перечисленных пользователей.
func AdminOnly(adminIDs ...int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var from *telego.User

		switch {
		case update.Message != nil:
			from = update.Message.From
		case update.CallbackQuery != nil:
			from = &update.CallbackQuery.From
		}

		if from == nil || !lo.Contains(adminIDs, from.ID) {
			return nil
		}

		return ctx.Next(update)
	}
}
