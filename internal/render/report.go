package render

import (
	"fmt"
	"strings"

	"github.com/showtell/quizgen/internal/llm"
	"github.com/showtell/quizgen/internal/store"
)

const ruleWidth = 78

func rule() string { return strings.Repeat("─", ruleWidth) + "\n" }

func heading(title string) string {
	return headerStyle.Render(title) + "\n" + rule()
}

// Events lists backend request events, newest first.
func Events(events []store.LLMRequestEvent) string {
	if len(events) == 0 {
		return "No backend events found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-5s  %-19s  %-15s  %-10s  %-20s  %5s  %5s  %6s  %s\n",
		"ID", "Timestamp", "Purpose", "Provider", "Model", "In", "Out", "Ms", "OK")
	b.WriteString(rule())
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = failStyle.Render("✗")
		}
		fmt.Fprintf(&b, "%-5d  %-19s  %-15s  %-10s  %-20s  %5d  %5d  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			clip(e.Purpose, 15),
			clip(e.Provider, 10),
			clip(e.Model, 20),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
	return b.String()
}

// Event renders a single backend event with its captured bodies.
func Event(e *store.LLMRequestEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:         %d\n", e.ID)
	fmt.Fprintf(&b, "Request:    %s\n", e.RequestID)
	fmt.Fprintf(&b, "Time:       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Provider:   %s\n", e.Provider)
	fmt.Fprintf(&b, "Model:      %s\n", e.Model)
	fmt.Fprintf(&b, "Purpose:    %s\n", e.Purpose)
	fmt.Fprintf(&b, "Tokens:     %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(&b, "Latency:    %dms\n", e.LatencyMs)
	fmt.Fprintf(&b, "Success:    %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(&b, "Error:      %s\n", failStyle.Render(e.ErrorMessage))
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		b.WriteString("\n" + heading(part.title))
		if part.body == "" {
			b.WriteString("(not captured)\n")
			continue
		}
		b.WriteString(part.body + "\n")
	}
	return b.String()
}

// PurposeUsage renders token usage grouped by purpose.
func PurposeUsage(stats []store.LLMUsage) string {
	var b strings.Builder
	b.WriteString(heading("Usage by Purpose"))
	fmt.Fprintf(&b, "%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
	b.WriteString(rule())

	var calls, failed, in, out int
	for _, st := range stats {
		fmt.Fprintf(&b, "%-16s  %6d  %6d  %10d  %10d  %10d  %8d\n",
			clip(st.Purpose, 16), st.Calls, st.Failures, st.InputTokens, st.OutputTokens,
			st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		failed += st.Failures
		in += st.InputTokens
		out += st.OutputTokens
	}
	b.WriteString(rule())
	fmt.Fprintf(&b, "%-16s  %6d  %6d  %10d  %10d  %10d\n", "TOTAL", calls, failed, in, out, in+out)
	return b.String()
}

// ModelCosts renders estimated cost per provider and model. Models without
// a known price are listed separately and excluded from the total.
func ModelCosts(usage []store.LLMUsage) string {
	var b strings.Builder
	b.WriteString(heading("Estimated Cost (USD)"))
	fmt.Fprintf(&b, "%-34s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	b.WriteString(rule())

	var total float64
	var unknown []string
	for _, mu := range usage {
		name := clip(mu.Provider+"/"+mu.Model, 34)
		cost := llm.LookupCost(mu.Provider, mu.Model)
		if cost == nil {
			unknown = append(unknown, mu.Model)
			fmt.Fprintf(&b, "%-34s  %6d  %10d  %10d  %10s\n", name, mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		total += c
		fmt.Fprintf(&b, "%-34s  %6d  %10d  %10d  %10s\n", name, mu.Calls, mu.InputTokens, mu.OutputTokens, FormatCost(c))
	}

	b.WriteString(rule())
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(&b, "%-34s  %6s  %10s  %10s  %10s\n", label, "", "", "", FormatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(&b, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
	return b.String()
}

// Tiers renders which cascade tier served generate calls.
func Tiers(usage []store.TierUsage) string {
	if len(usage) == 0 {
		return "No quizzes generated yet.\n"
	}

	var b strings.Builder
	b.WriteString(heading("Quizzes by Tier"))
	fmt.Fprintf(&b, "%-24s  %8s  %10s  %8s  %8s\n", "Tier", "Calls", "Backfilled", "Dropped", "Avg Ms")
	b.WriteString(rule())

	var calls, backfilled, dropped int
	for _, u := range usage {
		fmt.Fprintf(&b, "%-24s  %8d  %10d  %8d  %8d\n", clip(u.Tier, 24), u.Calls, u.Backfilled, u.Dropped, u.AvgLatencyMs)
		calls += u.Calls
		backfilled += u.Backfilled
		dropped += u.Dropped
	}
	b.WriteString(rule())
	fmt.Fprintf(&b, "%-24s  %8d  %10d  %8d\n", "TOTAL", calls, backfilled, dropped)
	return b.String()
}

// Generations lists recent generate calls, newest first.
func Generations(events []store.GenerationEvent) string {
	if len(events) == 0 {
		return "No quizzes generated yet.\n"
	}

	var b strings.Builder
	b.WriteString(heading("Recent Quizzes"))
	fmt.Fprintf(&b, "%-19s  %-8s  %-24s  %5s  %5s  %6s\n", "Timestamp", "Request", "Tier", "Asked", "Got", "Ms")
	b.WriteString(rule())
	for _, e := range events {
		fmt.Fprintf(&b, "%-19s  %-8s  %-24s  %5d  %5d  %6d\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			clip(e.RequestID, 8),
			clip(e.Tier, 24),
			e.Requested,
			e.Returned,
			e.LatencyMs,
		)
	}
	return b.String()
}

// FormatCost prints sub-cent amounts with four decimals.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
