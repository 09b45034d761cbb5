package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"git.home.luguber.info/inful/folio/internal/chat"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// ChatCmd implements the 'chat' command, a line-based client for the chat
// endpoint.
type ChatCmd struct {
	Endpoint string `help:"Chat endpoint (overrides chat.endpoint)"`
}

func (c *ChatCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	endpoint := cfg.Chat.Endpoint
	if c.Endpoint != "" {
		endpoint = c.Endpoint
	}
	if endpoint == "" {
		return ferrors.ConfigError("chat.endpoint is not configured").Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client := chat.NewClient(endpoint, cfg.Chat.Token, cfg.Chat.Timeout)
	return converse(ctx, os.Stdin, os.Stdout, chat.NewConversation(), client)
}

// converse reads one question per line until EOF or "exit".
func converse(ctx context.Context, in io.Reader, out io.Writer, conv *chat.Conversation, client chat.Completer) error {
	scanner := bufio.NewScanner(in)
	_, _ = fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "exit", "quit":
			return nil
		default:
			answer, err := conv.Ask(ctx, client, line)
			switch {
			case ctx.Err() != nil:
				return nil
			case err != nil:
				_, _ = fmt.Fprintln(out, ferrors.NewCLIErrorAdapter(false, nil).FormatError(err))
			default:
				_, _ = fmt.Fprintln(out, answer.Text)
			}
		}
		_, _ = fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
