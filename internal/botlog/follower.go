// Package botlog follows the bot's own log file and groups its lines into
// entries. The bot writes "YYYY-MM-DD HH:mm:ss | LEVEL | message" lines and
// rotates the file daily; tracebacks continue on the following lines.
package botlog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hpcloud/tail"
	"go.uber.org/zap"

	"github.com/xkilldash9x/botctl/internal/config"
)

// Levels are the bot's log levels from least to most severe.
var Levels = []string{"TRACE", "DEBUG", "INFO", "SUCCESS", "WARNING", "ERROR", "CRITICAL"}

const timeLayout = "2006-01-02 15:04:05"

// flushDelay is how long a pending entry waits for continuation lines before it
// is delivered.
const flushDelay = 200 * time.Millisecond

var entryRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) \| ([A-Z]+)\s*\| ?(.*)$`)

// ErrNoLogPath is returned when bot_log.path is not configured.
var ErrNoLogPath = errors.New("bot_log.path must be configured to follow the bot log")

// Entry is one log record, including any continuation lines.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s | %s | %s", e.Time.Format(timeLayout), e.Level, e.Message)
}

// LevelIndex returns the severity rank of level, or -1 if it is not a bot level.
func LevelIndex(level string) int {
	level = strings.ToUpper(strings.TrimSpace(level))
	for i, l := range Levels {
		if l == level {
			return i
		}
	}
	return -1
}

// ParseLine parses the first line of an entry. It reports false for
// continuation lines.
func ParseLine(line string) (Entry, bool) {
	m := entryRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return Entry{}, false
	}
	ts, err := time.ParseInLocation(timeLayout, m[1], time.Local)
	if err != nil {
		return Entry{}, false
	}
	return Entry{Time: ts, Level: m[2], Message: m[3]}, true
}

// Follower tails the bot log.
type Follower struct {
	logger *zap.Logger
	cfg    config.BotLogConfig
}

func NewFollower(cfg config.BotLogConfig, logger *zap.Logger) (*Follower, error) {
	if cfg.Path == "" {
		return nil, ErrNoLogPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Follower{logger: logger.Named("botlog"), cfg: cfg}, nil
}

// Follow delivers entries at or above minLevel to handle until ctx is done. An
// empty minLevel delivers everything. Lines before the first recognizable entry
// are delivered as entries without a level.
func (f *Follower) Follow(ctx context.Context, minLevel string, handle func(Entry)) error {
	threshold := 0
	if minLevel != "" {
		threshold = LevelIndex(minLevel)
		if threshold < 0 {
			return fmt.Errorf("unknown log level %q, expected one of %s", minLevel, strings.Join(Levels, ", "))
		}
	}

	whence := 2
	if f.cfg.FromStart {
		whence = 0
	}
	t, err := tail.TailFile(f.cfg.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      f.cfg.Poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail bot log: %w", err)
	}
	defer func() {
		_ = t.Stop()
		t.Cleanup()
	}()

	f.logger.Debug("Following bot log.", zap.String("path", f.cfg.Path), zap.Bool("from_start", f.cfg.FromStart))

	var pending *Entry
	flush := func() {
		if pending == nil {
			return
		}
		if pending.Level == "" || LevelIndex(pending.Level) < 0 || LevelIndex(pending.Level) >= threshold {
			handle(*pending)
		}
		pending = nil
	}

	timer := time.NewTimer(flushDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			flush()
			return nil

		case line, ok := <-t.Lines:
			if !ok {
				flush()
				return t.Err()
			}
			if line.Err != nil {
				f.logger.Warn("Error reading bot log.", zap.Error(line.Err))
				continue
			}

			if entry, ok := ParseLine(line.Text); ok {
				flush()
				pending = &entry
			} else if pending != nil {
				pending.Message += "\n" + strings.TrimRight(line.Text, "\r")
			} else {
				pending = &Entry{Message: strings.TrimRight(line.Text, "\r")}
			}
			timer.Reset(flushDelay)

		case <-timer.C:
			flush()
		}
	}
}
