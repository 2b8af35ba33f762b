package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"coffer_scanner/internal/domain/service/coffer"
)

// TelegramBot отправляет сводку по запуску пайплайна в один чат.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyRun реализует coffer.Notifier.
func (b *TelegramBot) NotifyRun(ctx context.Context, report coffer.RunReport) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		RenderRunReport(report),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("notifier.NotifyRun: %w", err)
	}

	logger(ctx).Debug("run summary sent")

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("notifier.SendText: %w", err)
	}

	return nil
}

func RenderRunReport(report coffer.RunReport) string {
	var sb strings.Builder

	if report.Success() {
		sb.WriteString("✅ <b>Coffer refresh finished</b>\n")
	} else {
		sb.WriteString("❌ <b>Coffer refresh failed</b>\n")
	}

	fmt.Fprintf(&sb, "🆔 <code>%s</code> ⏱ %s\n", report.RunID, report.Duration().Round(time.Second))
	fmt.Fprintf(&sb, "📦 candidates: %d, enriched: %d, failed: %d, unprofitable: %d\n",
		report.Stats.Candidates,
		report.Stats.SuccessCount,
		report.Stats.FailCount,
		report.Stats.Unprofitable,
	)
	fmt.Fprintf(&sb, "📤 published: %d, swept: %d\n", report.Stats.Published, report.Stats.DeletedObjects)

	if report.Err != nil {
		fmt.Fprintf(&sb, "\n<pre>%s</pre>\n", html.EscapeString(report.Err.Error()))
		return sb.String()
	}

	if len(report.Top) == 0 {
		sb.WriteString("\nNo profitable items this run.\n")
		return sb.String()
	}

	sb.WriteString("\n<b>Top ROI</b>\n")

	for i, row := range report.Top {
		fmt.Fprintf(&sb, "%d. %s: buy %s, coffer %s, ROI %.2f%%\n",
			i+1,
			html.EscapeString(row.Name),
			FormatGP(row.BuyPrice),
			FormatGP(row.CofferValue),
			row.ROI*100,
		)
	}

	return sb.String()
}

// FormatGP печатает сумму в виде 1.2m / 350k / 999.
func FormatGP(v int64) string {
	switch {
	case v >= 1_000_000_000 || v <= -1_000_000_000:
		return trimZeros(fmt.Sprintf("%.2f", float64(v)/1e9)) + "b"
	case v >= 1_000_000 || v <= -1_000_000:
		return trimZeros(fmt.Sprintf("%.2f", float64(v)/1e6)) + "m"
	case v >= 10_000 || v <= -10_000:
		return trimZeros(fmt.Sprintf("%.1f", float64(v)/1e3)) + "k"
	default:
		return fmt.Sprintf("%d", v)
	}
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}

	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
