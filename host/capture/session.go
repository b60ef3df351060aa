package capture

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Capture is everything collected from one session.
type Capture struct {
	Registers []Register
	Runs      [][]Sample
	Text      []string
}

// Answers supplies replies to prompts. Scripted replies are used first, in
// order; after that init and start prompts get "y" and the channel prompt
// gets Channel.
type Answers struct {
	Script  []string
	Channel string
}

func (a *Answers) next(k Kind) string {
	if len(a.Script) > 0 {
		s := a.Script[0]
		a.Script = a.Script[1:]
		return s
	}
	if k == KindPromptChannel {
		if a.Channel == "" {
			return "L"
		}
		return a.Channel
	}
	return "y"
}

// Session talks to one board over rw.
type Session struct {
	rw      io.ReadWriter
	answers Answers
	logger  *slog.Logger

	// Persistent treats io.EOF as a read timeout rather than the end of
	// the stream, as a serial port opened with a read timeout reports.
	Persistent bool

	buf  [256]byte
	line []byte
}

// NewSession returns a session on rw. A nil logger discards output.
func NewSession(rw io.ReadWriter, answers Answers, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{rw: rw, answers: answers, logger: logger}
}

var errEndOfStream = errors.New("capture: end of stream")

// Run answers prompts and collects lines until runs sample dumps have
// ended, the stream ends or ctx is done. The capture so far is returned in
// every case.
func (s *Session) Run(ctx context.Context, runs int) (*Capture, error) {
	c := &Capture{}
	var cur []Sample
	inRun := false

	for runs <= 0 || len(c.Runs) < runs {
		raw, err := s.readLine(ctx)
		if err != nil {
			if errors.Is(err, errEndOfStream) {
				return c, nil
			}
			return c, err
		}
		l := ParseLine(raw)

		switch l.Kind {
		case KindPromptInit, KindPromptStart, KindPromptChannel:
			// A bare "\n" ends the line on both boards and leaves nothing
			// unread behind it.
			ans := s.answers.next(l.Kind)
			s.logger.Debug("prompt", slog.String("kind", l.Kind.String()), slog.String("answer", ans))
			if _, err := io.WriteString(s.rw, ans+"\n"); err != nil {
				return c, err
			}
		case KindRegister:
			c.Registers = append(c.Registers, l.Register)
			s.logger.Debug("register", slog.Int("address", int(l.Register.Address)), slog.Int("value", int(l.Register.Value)))
		case KindSample:
			if !inRun {
				inRun = true
				cur = nil
			}
			cur = append(cur, l.Sample)
		case KindEnd:
			c.Runs = append(c.Runs, cur)
			s.logger.Info("run captured", slog.Int("run", len(c.Runs)), slog.Int("samples", len(cur)))
			inRun = false
			cur = nil
		default:
			if l.Text != "" {
				c.Text = append(c.Text, l.Text)
				s.logger.Info("console", slog.String("text", l.Text))
			}
		}
	}
	return c, nil
}

// readLine returns the next "\n"-terminated line. Prompts end in "> "
// without a newline; the partial line is held until the next read, where
// ParseLine strips the marker.
func (s *Session) readLine(ctx context.Context) (string, error) {
	for {
		if i := strings.IndexByte(string(s.line), '\n'); i >= 0 {
			out := string(s.line[:i])
			s.line = s.line[i+1:]
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := s.rw.Read(s.buf[:])
		s.line = append(s.line, s.buf[:n]...)
		if err == io.EOF {
			if s.Persistent {
				continue
			}
			if len(s.line) > 0 {
				out := string(s.line)
				s.line = s.line[:0]
				return out, nil
			}
			return "", errEndOfStream
		}
		if err != nil {
			return "", err
		}
	}
}
