package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"coffer_scanner/internal/domain"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/transport/bot/view"
	"coffer_scanner/pkg/contextx"
	"coffer_scanner/pkg/errcodes"
	"coffer_scanner/pkg/logx"
)

const defaultRefreshReason = "telegram"

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnTop(ctx *th.Context, msg telego.Message) error {
	items, err := h.reader.Items(ctx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, itemsErrorText(ctx, err))
	}

	text, totalPages := view.TopPage(items, 1)

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      tu.ID(msg.Chat.ID),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: createPaginationKeyboard(1, totalPages),
	})

	return err
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	last, ok := h.refresher.LastReport()

	return h.sendHTML(ctx, msg.Chat.ID, view.Status(h.refresher.IsRunning(), last, ok, time.Now()))
}

// OnRefresh ставит внеочередной запуск.
// Использование: /refresh [причина]
func (h *Handler) OnRefresh(ctx *th.Context, msg telego.Message) error {
	reason := defaultRefreshReason

	if parts := strings.SplitN(msg.Text, " ", 2); len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		reason = strings.TrimSpace(parts[1])
	}

	enqueueCtx := context.Context(ctx)
	if msg.From != nil {
		enqueueCtx = contextx.WithUserID(ctx, contextx.UserID(msg.From.ID))
	}

	ticket, err := h.enqueuer.EnqueueRefresh(enqueueCtx, reason)
	if err != nil {
		if domain.HasCode(err, errcodes.RefreshAlreadyQueued) {
			return h.sendHTML(ctx, msg.Chat.ID, view.RefreshBusy)
		}

		logger(ctx).Error("enqueuer.EnqueueRefresh", logx.Error(err))

		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RefreshErrorFormat, html.EscapeString(err.Error())))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RefreshQueued, ticket.TaskID, ticket.Queue))
}

func itemsErrorText(ctx *th.Context, err error) string {
	if errors.Is(err, coffer.ErrNoData) {
		return view.NoDataMessage
	}

	logger(ctx).Error("reader.Items", logx.Error(err))

	return view.ItemsErrorMessage
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s%d", topPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s%d", topPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}
