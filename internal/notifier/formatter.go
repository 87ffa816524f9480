package notifier

import (
	"fmt"
	"strings"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatPrice renders a whole-dollar price with thousands separators.
func FormatPrice(p int64) string {
	return "$" + humanize.Comma(p)
}

func formatBase(p float64) string {
	return "$" + humanize.Commaf(p)
}

func arrow(direction string) string {
	if direction == model.DirectionDown {
		return "▼"
	}
	return "▲"
}

func title(v model.Vehicle) string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// FormatQuote formats a vehicle's current price.
func FormatQuote(v model.Vehicle, q model.Quote) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚗 <b>%s</b> | %s\n\n", title(v), v.Category))
	b.WriteString(fmt.Sprintf("Price: <b>%s</b> (%s)\n", FormatPrice(q.Price), q.Strategy))
	b.WriteString(fmt.Sprintf("Base: %s | %s %.2f%%\n", formatBase(v.BasePrice), arrow(q.Change.Direction), q.Change.Percent))
	b.WriteString(fmt.Sprintf("Demand: %d | Inventory: %d\n", v.Demand, v.Inventory))
	return b.String()
}

// FormatFactors formats the market factor set.
func FormatFactors(f model.MarketFactors) string {
	var b strings.Builder
	b.WriteString("📈 <b>Market factors</b>\n\n")
	b.WriteString(fmt.Sprintf("Demand: ×%.3f\n", f.DemandMultiplier))
	b.WriteString(fmt.Sprintf("Seasonal: ×%.3f\n", f.SeasonalAdjustment))
	b.WriteString(fmt.Sprintf("Competitor: ×%.3f\n", f.CompetitorPricing))
	b.WriteString(fmt.Sprintf("Inventory: ×%.3f\n", f.InventoryLevel))
	return b.String()
}

// FormatHistory lists the recent prices of a vehicle, oldest first.
func FormatHistory(v model.Vehicle, h []model.PriceHistoryEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕑 <b>%s</b> price history\n\n", title(v)))
	if len(h) == 0 {
		b.WriteString("no prices yet\n")
		return b.String()
	}
	for _, e := range h {
		b.WriteString(fmt.Sprintf("%s  %s\n", e.ObservedAt.Format("15:04:05"), FormatPrice(e.Price)))
	}
	return b.String()
}

// FormatAlert announces a price move across the history window.
func FormatAlert(v model.Vehicle, from, to int64, movePct float64) string {
	dir := model.DirectionUp
	if movePct < 0 {
		dir = model.DirectionDown
	}
	return fmt.Sprintf("⚠️ <b>Price alert</b> | %s\n\n%s → %s (%s %.2f%%)\n",
		title(v), FormatPrice(from), FormatPrice(to), arrow(dir), abs(movePct))
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "Commands:\n" +
		"• /price &lt;id&gt;\n" +
		"• /select &lt;id&gt;\n" +
		"• /stop\n" +
		"• /strategy dynamic|competitive|fixed\n" +
		"• /factors\n" +
		"• /history"
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
