package display

import (
	"errors"
	"fmt"
	"os"
	"strings"

	providererrors "github.com/localcc/autoupdater/internal/provider/errors"
	"github.com/localcc/autoupdater/internal/update"
)

// Suggestion represents a suggested action for error recovery.
type Suggestion struct {
	Command     string
	Description string
}

// ErrorWithSuggestions formats an error message with actionable suggestions.
func ErrorWithSuggestions(message string, suggestions []Suggestion) string {
	var sb strings.Builder

	sb.WriteString(ErrorMsg("%s", message))
	sb.WriteString("\n")

	if len(suggestions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(Muted("Suggested actions:"))
		sb.WriteString("\n")
		for _, s := range suggestions {
			if s.Command == "" {
				fmt.Fprintf(&sb, "  %s %s\n", Muted("•"), s.Description)

				continue
			}
			fmt.Fprintf(&sb, "  %s %s - %s\n", Muted("•"), Cyan(s.Command), s.Description)
		}
	}

	return sb.String()
}

// SuggestionsFor returns recovery hints for errors the updater commonly hits.
func SuggestionsFor(err error) []Suggestion {
	switch {
	case err == nil:
		return nil
	case providererrors.IsRateLimited(err):
		return []Suggestion{
			{Command: "export GITHUB_TOKEN=<token>", Description: "Authenticated requests get a higher rate limit"},
			{Description: "Wait a few minutes and try again"},
		}
	case providererrors.IsUnauthorized(err), errors.Is(err, providererrors.ErrForbidden):
		return []Suggestion{
			{Description: "Check that the token in GITHUB_TOKEN / GITLAB_TOKEN is valid and has read access"},
			{Command: "gh auth status", Description: "Inspect the GitHub CLI login"},
		}
	case providererrors.IsNotFound(err):
		return []Suggestion{
			{Description: "Check owner/repo or project in .autoupdater/config.yaml"},
			{Description: "Private repositories need a token"},
		}
	case providererrors.IsNetworkError(err):
		return []Suggestion{
			{Description: "Check your network connection and proxy settings"},
			{Command: "--ca-file <bundle.pem>", Description: "Trust a corporate TLS proxy"},
		}
	case errors.Is(err, update.ErrNoMatchingRelease):
		return []Suggestion{
			{Command: "autoupdater list", Description: "See which releases are available"},
			{Command: "--prerelease", Description: "Include prereleases"},
		}
	case errors.Is(err, update.ErrAssetNotFound):
		return []Suggestion{
			{Command: "--asset <name>", Description: "Pick the asset by exact name"},
		}
	case errors.Is(err, update.ErrChecksumFailed):
		return []Suggestion{
			{Description: "The download may be corrupt; run the update again"},
		}
	case errors.Is(err, update.ErrReplaceIncomplete):
		return []Suggestion{
			{Description: "Restore the previous binary by renaming the .exe.old file next to the executable"},
		}
	case errors.Is(err, update.ErrInstallFailed) && errors.Is(err, os.ErrPermission):
		return []Suggestion{
			{Description: "Re-run with permission to write the executable's directory"},
		}
	}

	return nil
}

// FormatError renders err with any known recovery hints.
func FormatError(err error) string {
	return ErrorWithSuggestions(err.Error(), SuggestionsFor(err))
}
