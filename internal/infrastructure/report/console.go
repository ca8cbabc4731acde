package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/tastelens/backend/internal/domain"
)

// ConsoleReporter prints recommendations and imputation summaries as styled text
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer

	title   lipgloss.Style
	label   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
}

// NewConsoleReporter creates a reporter writing to w. Colors are dropped when
// w is not a terminal.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	r := lipgloss.NewRenderer(w)
	return &ConsoleReporter{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#6EC4F4")),
		info:    r.NewStyle().Foreground(lipgloss.Color("#6EC4F4")),
		success: r.NewStyle().Foreground(lipgloss.Color("#6EF4A1")),
		muted:   r.NewStyle().Faint(true),
	}
}

// ReportRecommendation prints the user profile followed by the recommended restaurants
func (c *ConsoleReporter) ReportRecommendation(rec *domain.Recommendation) {
	if rec == nil {
		return
	}
	var b strings.Builder

	b.WriteString(c.title.Render("User profile"))
	b.WriteByte('\n')
	c.field(&b, "Name", orNA(rec.Profile.Name))
	c.field(&b, "Preference", orNA(rec.Profile.Preference))
	c.field(&b, "Stratum", orNA(rec.Profile.Stratum))
	spend := "N/A"
	if rec.Profile.AverageSpend != nil {
		spend = fmt.Sprintf("%.2f", *rec.Profile.AverageSpend)
	}
	c.field(&b, "Average spend", spend)
	b.WriteByte('\n')

	header := "Recommended restaurants"
	if rec.Bucket != "" {
		header += " (" + rec.Bucket + ")"
	}
	b.WriteString(c.title.Render(header))
	b.WriteByte('\n')
	if len(rec.Items) == 0 {
		b.WriteString(c.muted.Render("  no restaurants"))
		b.WriteByte('\n')
	}
	for i, item := range rec.Items {
		fmt.Fprintf(&b, "  %d. %s  %s\n",
			i+1,
			c.success.Render(item.Name),
			c.muted.Render(fmt.Sprintf("%s  score %.3f", orNA(item.Address), item.Score.Total)))
	}

	c.write(b.String())
}

// ReportImputation prints the value frequencies of the target column before and after imputing
func (c *ConsoleReporter) ReportImputation(result *domain.ImputationResult) {
	if result == nil {
		return
	}
	var b strings.Builder

	b.WriteString(c.title.Render(fmt.Sprintf("Imputation of %s (%s, %s)",
		result.Request.Target, result.Request.Condition, result.Request.Statistic)))
	b.WriteByte('\n')
	c.frequencies(&b, "Before", result.Before)
	c.frequencies(&b, "After", result.After)
	b.WriteString(c.info.Render(fmt.Sprintf("replaced %d cells, %d left empty", result.Replaced, result.Unfilled)))
	b.WriteByte('\n')

	c.write(b.String())
}

func (c *ConsoleReporter) frequencies(b *strings.Builder, name string, ft domain.FrequencyTable) {
	b.WriteString(c.label.Render(name))
	b.WriteByte('\n')
	for _, e := range ft.Entries {
		fmt.Fprintf(b, "  %-12s %d\n", e.Value.String(), e.Count)
	}
	if ft.Missing > 0 {
		fmt.Fprintf(b, "  %-12s %d\n", "NaN", ft.Missing)
	}
	fmt.Fprintf(b, "  %s\n", c.muted.Render(fmt.Sprintf("total %d", ft.Total())))
}

func (c *ConsoleReporter) field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "  %s %s\n", c.label.Render(name+":"), value)
}

func (c *ConsoleReporter) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, s)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
