package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/infrastructure/notifier"
)

const (
	StartMessage = `🪙 <b>Death's Coffer ROI</b>

/top — лучшие предметы по ROI
/status — состояние обновления
/refresh <i>причина</i> — внеочередной запуск`

	NoDataMessage      = "📭 Данных пока нет: ни один запуск не завершился."
	ItemsErrorMessage  = "❌ Не удалось прочитать снапшоты"
	RefreshQueued      = "⏳ Обновление поставлено в очередь\n🆔 <code>%s</code> (%s)"
	RefreshBusy        = "⚠️ Обновление уже ждёт в очереди"
	RefreshErrorFormat = "❌ Не удалось поставить обновление: %s"

	TopPageSize = 10
)

// TopPage рендерит страницу таблицы ROI. page считается с 1.
func TopPage(items coffer.ItemsView, page int) (string, int) {
	total := len(items.Items)
	totalPages := max((total+TopPageSize-1)/TopPageSize, 1)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * TopPageSize
	end := min(start+TopPageSize, total)

	var sb strings.Builder

	fmt.Fprintf(&sb, "📈 <b>ROI за %s</b> (стр. %d/%d)\n", items.Date, page, totalPages)
	if items.IsFallback {
		sb.WriteString("<i>за сегодня данных нет, показан последний день</i>\n")
	}
	sb.WriteString("\n")

	for i, row := range items.Items[start:end] {
		sb.WriteString(topRow(start+i+1, row))
	}

	if total == 0 {
		sb.WriteString("Нет выгодных предметов.\n")
	}

	return sb.String(), totalPages
}

func topRow(n int, row entity.ResultRow) string {
	volume := fmt.Sprintf("%d", row.Volume)
	if row.VolumeEstimated {
		volume = "~" + volume
	}

	return fmt.Sprintf("%d. <b>%s</b>\n    buy %s → coffer %s, ROI <b>%.2f%%</b>, vol %s\n",
		n,
		html.EscapeString(row.Name),
		notifier.FormatGP(row.BuyPrice),
		notifier.FormatGP(row.CofferValue),
		row.ROI*100,
		volume,
	)
}

// Status рендерит состояние цикла обновления и итог последнего запуска.
func Status(running bool, last coffer.RunReport, hasLast bool, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Статус</b>\n\n")

	if running {
		sb.WriteString("🔁 <b>Цикл обновления:</b> 🟢 работает\n")
	} else {
		sb.WriteString("🔁 <b>Цикл обновления:</b> 🔴 остановлен\n")
	}

	if !hasLast {
		sb.WriteString("🕓 Запусков ещё не было\n")
		return sb.String()
	}

	result := "✅ успешно"
	if !last.Success() {
		result = "❌ с ошибкой"
	}

	fmt.Fprintf(&sb, "🕓 <b>Последний запуск:</b> %s назад, %s\n",
		now.Sub(last.FinishedAt).Round(time.Minute), result)
	fmt.Fprintf(&sb, "📦 кандидатов %d, обогащено %d, пропущено %d, опубликовано %d\n",
		last.Stats.Candidates,
		last.Stats.SuccessCount,
		last.Stats.FailCount,
		last.Stats.Published,
	)

	if last.Err != nil {
		fmt.Fprintf(&sb, "<pre>%s</pre>\n", html.EscapeString(last.Err.Error()))
	}

	return sb.String()
}
