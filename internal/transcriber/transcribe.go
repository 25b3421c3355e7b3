package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
)

const maxResponseBytes = 4 << 20

// response is the schema accepted from the STT endpoint. Text is required,
// duration is optional.
type response struct {
	Text     *string  `json:"text"`
	Duration *float64 `json:"duration"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Transcribe uploads the file as multipart form data and decodes the reply.
func (t *implTranscriber) Transcribe(ctx context.Context, path string) (Result, error) {
	filename := filepath.Base(path)

	body, contentType, err := t.buildForm(path)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.URL, body)
	if err != nil {
		body.Close()
		return Result{}, fmt.Errorf("build stt request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	t.logger.Debug(ctx, "Uploading %s to %s (model %s)", filename, t.cfg.URL, t.cfg.Model)

	resp, err := t.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrNetwork, filename, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response for %s: %w", ErrNetwork, filename, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("%w: %s: status %d: %s", ErrBadResponse, filename, resp.StatusCode, truncate(string(raw), 200))
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrParse, filename, err)
	}
	if decoded.Text == nil {
		return Result{}, fmt.Errorf("%w: %s: response has no text field", ErrParse, filename)
	}

	text := strings.TrimSpace(*decoded.Text)
	if text == "" {
		return Result{}, fmt.Errorf("%w: %s", ErrEmptyTranscript, filename)
	}

	return Result{Text: text, Duration: decoded.Duration}, nil
}

// buildForm opens the audio file and streams the multipart body through a
// pipe: the audio under "file" plus the model name and, when configured, the
// language hint. Open and sniff errors are returned directly; write errors
// surface on the request body. The file is closed once the body is written
// or the reader side is closed by the HTTP client.
func (t *implTranscriber) buildForm(path string) (io.ReadCloser, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open audio file: %w", err)
	}

	partType := "application/octet-stream"
	if mt, err := mimetype.DetectReader(file); err == nil {
		partType = mt.String()
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, "", fmt.Errorf("rewind audio file: %w", err)
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer file.Close()
		pw.CloseWithError(t.writeForm(writer, file, filepath.Base(path), partType))
	}()

	return pr, writer.FormDataContentType(), nil
}

func (t *implTranscriber) writeForm(writer *multipart.Writer, file io.Reader, filename, partType string) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", partType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file to form: %w", err)
	}

	if err := writer.WriteField("model", t.cfg.Model); err != nil {
		return fmt.Errorf("write model field: %w", err)
	}
	if t.cfg.Language != "" {
		if err := writer.WriteField("language", t.cfg.Language); err != nil {
			return fmt.Errorf("write language field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
