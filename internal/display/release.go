package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/localcc/autoupdater/internal/update"
)

// TimestampFormat is the standard date format for release output.
const TimestampFormat = "2006-01-02"

// KeyValue formats a key-value pair with consistent 10-char alignment.
func KeyValue(key, value string) string {
	return fmt.Sprintf("  %-10s%s\n", key+":", value)
}

// FormatRelease describes a single release. current, when non-empty, is shown
// alongside the release tag.
func FormatRelease(header string, r update.Release, current string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s\n", header, Bold(r.Tag))
	if r.Name != "" && r.Name != r.Tag {
		sb.WriteString(KeyValue("Name", r.Name))
	}
	if current != "" {
		sb.WriteString(KeyValue("Current", current))
	}
	if r.Branch != "" {
		sb.WriteString(KeyValue("Branch", r.Branch))
	}
	if !r.PublishedAt.IsZero() {
		sb.WriteString(KeyValue("Published", r.PublishedAt.Format(TimestampFormat)))
	}
	if r.Prerelease {
		sb.WriteString(KeyValue("Channel", Warning("prerelease")))
	}
	if r.HTMLURL != "" {
		sb.WriteString(KeyValue("URL", r.HTMLURL))
	}

	return sb.String()
}

// ReleaseTable lists releases, marking the one matching current.
func ReleaseTable(releases []update.Release, current string) string {
	rows := make([][]string, 0, len(releases))
	for _, r := range releases {
		marker := " "
		if current != "" && r.Tag == current {
			marker = "*"
		}
		published := ""
		if !r.PublishedAt.IsZero() {
			published = r.PublishedAt.Format(TimestampFormat)
		}
		flags := ""
		if r.Prerelease {
			flags = "pre"
		}
		rows = append(rows, []string{marker, r.Tag, published, flags, fmt.Sprint(len(r.Assets))})
	}

	return Table([]string{" ", "TAG", "PUBLISHED", "FLAGS", "ASSETS"}, rows)
}

// Table formats a simple table with headers. Cells are padded before coloring
// so alignment survives ANSI codes.
func Table(headers []string, rows [][]string) string {
	var sb strings.Builder

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	sb.WriteString(Bold(strings.TrimRight(joinPadded(headers, colWidths), " ")))
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(strings.TrimRight(joinPadded(row, colWidths), " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

func joinPadded(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(widths) {
			padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
		} else {
			padded[i] = cell
		}
	}

	return strings.Join(padded, "  ")
}

// RelativeTime formats t relative to now, e.g. "3 hr ago".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hr ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d day ago", int(d.Hours()/24))
	default:
		return t.Format(TimestampFormat)
	}
}

// FormatConfirmation formats a confirmation prompt.
// summary: main action (e.g. "Update v1.0.0 → v1.1.0"), details: extra lines,
// warning: optional highlighted line.
func FormatConfirmation(summary string, details []string, warning string) string {
	var sb strings.Builder

	sb.WriteString(Bold(summary))
	sb.WriteString("\n")

	for _, d := range details {
		fmt.Fprintf(&sb, "  %s\n", d)
	}

	if warning != "" {
		sb.WriteString("\n")
		sb.WriteString(WarningMsg("%s", warning))
		sb.WriteString("\n")
	}

	return sb.String()
}
