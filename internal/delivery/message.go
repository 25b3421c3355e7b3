package delivery

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultMessageTemplate is rendered with a messageData value.
const DefaultMessageTemplate = `Voice note received. Process it and save the outcome to the knowledge base.

**Transcript:**
> {{.Transcript}}

**Metadata:**
- Audio file: {{.SourceFile}}
- Recorded: {{.RecordedAt}}
- Duration: {{.Duration}}
- Size: {{.FileSize}}

**Instructions:**
1. Classify the intent (new-knowledge, update-existing, action-item, person-context, question, random-thought, decision)
2. Search for related existing notes
3. Create or update notes, and extract tasks into the task list
4. Save the raw transcript with frontmatter (type, status, intent, topics, actions_taken)
5. If it is a question, answer it and save the answer alongside the related notes
6. Send a brief summary confirming what was saved`

type messageData struct {
	Transcript    string
	SourceFile    string
	RecordedAt    string
	Duration      string
	FileSize      string
	FileSizeBytes int64
}

func (d *implDeliverer) renderMessage(transcript string, meta Metadata) (string, error) {
	data := messageData{
		Transcript:    transcript,
		SourceFile:    meta.SourceFile,
		RecordedAt:    meta.RecordedAt.Format(time.RFC3339),
		Duration:      meta.Duration,
		FileSize:      humanize.Bytes(uint64(max(meta.FileSizeBytes, 0))),
		FileSizeBytes: meta.FileSizeBytes,
	}
	if data.Duration == "" {
		data.Duration = "unknown"
	}

	var buf bytes.Buffer
	if err := d.message.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render message: %w", err)
	}
	return buf.String(), nil
}

// SessionKey is the idempotency key sent with every delivery of a file, so
// the receiver can recognise repeats for the same recording.
func SessionKey(sourceFile string) string {
	return "hook:voice:" + sourceFile
}
