package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/format"
)

// fetchPrompt resolves a named prompt for a job. Some prompts are
// stored with a literal %20 in their name, so the encoded spelling is
// tried first and the plain one on not-found. An unobtainable prompt
// fails the job; the returned message becomes the job's error text.
func (p *Processor) fetchPrompt(ctx context.Context, emailAddress, promptName string) (string, string) {
	encoded := strings.ReplaceAll(promptName, " ", "%20")
	text, err := p.client.Prompt(ctx, emailAddress, encoded)
	if errors.Is(err, backend.ErrNotFound) {
		text, err = p.client.Prompt(ctx, emailAddress, promptName)
	}
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return "", fmt.Sprintf("Prompt '%s' not found for %s", promptName, emailAddress)
		}
		return "", fmt.Sprintf("Failed to fetch prompt '%s' for %s: %v", promptName, emailAddress, err)
	}
	return format.WrapPrompt(text), ""
}
