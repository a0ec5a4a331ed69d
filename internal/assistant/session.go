package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// Styles decorates the prompt and failure replies on a terminal.
type Styles struct {
	Prompt lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles returns the terminal styles of the interactive session.
func DefaultStyles() *Styles {
	return &Styles{
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Session runs the read-execute-print loop over an Assistant.
type Session struct {
	Assistant *Assistant
	Prompt    bool    // print the prompt before reading each line
	Styles    *Styles // nil prints plain text
}

// Run prints the welcome line and handles input lines until close/exit, end of
// input or ctx cancellation. Each of those saves the book before returning.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	tr := s.Assistant.Translator()
	_, _ = fmt.Fprintln(out, tr.Msg(config.TKeyWelcome))

	slog.Info(config.MsgSessionStart,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCount, s.Assistant.Book().Len(),
		config.LogKeyLang, tr.Language())

	lines := make(chan string)
	readErr := make(chan error, config.ChannelBufferSize)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		s.prompt(out)

		select {
		case <-ctx.Done():
			slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompAssistant)
			_, _ = fmt.Fprintln(out)
			s.finish(out)
			return nil

		case line, ok := <-lines:
			if !ok {
				if s.Prompt {
					_, _ = fmt.Fprintln(out)
				}
				s.finish(out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			reply := s.Assistant.Handle(ctx, line)
			if reply.Quit {
				s.finish(out)
				return nil
			}
			s.print(out, reply)
		}
	}
}

// finish saves the book and says good bye.
func (s *Session) finish(out io.Writer) {
	if err := s.Assistant.Save(out); err != nil {
		slog.Error(config.MsgBookSaveFail,
			config.LogKeyComponent, config.CompAssistant,
			config.LogKeyError, err)
	}
	_, _ = fmt.Fprintln(out, s.Assistant.Translator().Msg(config.TKeyGoodbye))
}

func (s *Session) prompt(out io.Writer) {
	if !s.Prompt {
		return
	}
	text := s.Assistant.Translator().Msg(config.TKeyPrompt)
	if s.Styles != nil {
		text = s.Styles.Prompt.Render(text)
	}
	_, _ = fmt.Fprint(out, text)
}

func (s *Session) print(out io.Writer, r Reply) {
	text := r.Text
	if r.Err && s.Styles != nil {
		text = s.Styles.Error.Render(text)
	}
	_, _ = fmt.Fprintln(out, text)
}
