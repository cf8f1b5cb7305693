// Package logs builds the interpreter's structured logger.
package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options configures New.
type Options struct {
	Level slog.Leveler
	// Writer receives text records. Defaults to stderr.
	Writer io.Writer
	// Journal forces the systemd journal handler on or off. When nil it
	// is enabled only when running inside a systemd service.
	Journal *bool
}

// New returns a logger fanning records out to a text handler and, under
// systemd, to the journal.
func New(opts Options) *slog.Logger {
	if opts.Level == nil {
		opts.Level = slog.LevelWarn
	}
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	useJournal := isSystemdService()
	if opts.Journal != nil {
		useJournal = *opts.Journal
	}

	terminalHandler := slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{
		Level: opts.Level,
	})
	handlers := []slog.Handler{terminalHandler}

	if useJournal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: opts.Level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// toJournalKey upper-cases key and replaces anything outside [A-Z0-9]
// with an underscore, as journald field names require.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}

func isSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
