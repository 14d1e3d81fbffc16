package transports

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

const LogFileName = "find-my-rep-test-mails.log"

// LogFileTransport appends letters to a log file instead of sending them.
// Meant for development and tests.
type LogFileTransport struct {
	Dir string
	Now func() time.Time
}

func NewLogFileTransport(dir string) *LogFileTransport {
	return &LogFileTransport{Dir: dir, Now: time.Now}
}

func (t *LogFileTransport) Name() string {
	return config.TransportTest
}

// Path returns the log file location.
func (t *LogFileTransport) Path() string {
	return filepath.Join(t.Dir, LogFileName)
}

func (t *LogFileTransport) Send(ctx context.Context, from, to, subject, body string) types.SendResult {
	info, err := os.Stat(t.Dir)
	if err != nil || !info.IsDir() {
		return types.Failed("Uploads directory does not exist.")
	}

	if err := unix.Access(t.Dir, unix.W_OK); err != nil {
		return types.Failed("Uploads directory is not writable.")
	}

	entry := FormatLogEntry(t.Now(), from, to, subject, body)

	if err := appendLocked(t.Path(), []byte(entry)); err != nil {
		slog.WarnContext(ctx, "failed to write test mail log", "error", err, "path", t.Path())
		return types.Failed("Failed to write to test log file.")
	}

	return types.Sent(fmt.Sprintf("Email logged to test file: %s", t.Path()))
}

// FormatLogEntry renders one logged letter followed by a separator line.
func FormatLogEntry(ts time.Time, from, to, subject, body string) string {
	return fmt.Sprintf("[%s]\nFrom: %s\nTo: %s\nSubject: %s\n\n%s\n\n%s\n\n",
		ts.Format(time.DateTime),
		from,
		to,
		subject,
		body,
		strings.Repeat("-", 80),
	)
}

// appendLocked writes b to the end of path while holding an exclusive lock
// on the file for the duration of the write.
func appendLocked(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to lock log file: %w", err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	if _, err := f.Write(b); err != nil {
		return err
	}

	return nil
}
