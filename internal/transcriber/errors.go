package transcriber

import "errors"

// Failure kinds. The processor treats all of them the same way: the attempt
// is abandoned and the file is retried on the next sweep.
var (
	ErrNetwork         = errors.New("stt network error")
	ErrBadResponse     = errors.New("stt bad response")
	ErrEmptyTranscript = errors.New("stt empty transcript")
	ErrParse           = errors.New("stt parse error")
)
