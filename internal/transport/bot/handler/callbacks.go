package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"coffer_scanner/internal/transport/bot/view"
	"coffer_scanner/pkg/logx"
)

const topPagePrefix = "top_page:"

// ParsePage разбирает callback вида "top_page:<n>"; мусор даёт первую страницу.
func ParsePage(data string) int {
	var page int

	if _, err := fmt.Sscanf(data, topPagePrefix+"%d", &page); err != nil || page < 1 {
		return 1
	}

	return page
}

func (h *Handler) OnTopCallback(ctx *th.Context, query telego.CallbackQuery) error {
	page := ParsePage(query.Data)

	items, err := h.reader.Items(ctx)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(itemsErrorText(ctx, err)).WithShowAlert())
		return nil
	}

	// Между нажатиями страниц могло прийти меньше строк: TopPage сам
	// прижмёт номер страницы к допустимому диапазону.
	text, totalPages := view.TopPage(items, page)
	page = min(page, totalPages)

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: createPaginationKeyboard(page, totalPages),
	})
	// Telegram отвечает ошибкой, если текст не изменился.
	if err != nil {
		logger(ctx).Debug("bot.EditMessageText", logx.Error(err))
	}

	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return nil
}
