package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chatrelay/internal/client"
	"chatrelay/internal/model"
)

var chatOpts struct {
	url        string
	system     string
	model      string
	apiKey     string
	maxTokens  int
	continuous bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a running relay from the terminal",
	Long: `Read a system prompt, then send each line typed at the "user>" prompt to the
relay and print the reply. Type "exit" or "quit" to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	flags := chatCmd.Flags()
	flags.StringVar(&chatOpts.url, "url", "http://localhost:8080/", "relay endpoint")
	flags.StringVar(&chatOpts.system, "system", "", "system prompt (asked interactively when empty)")
	flags.StringVar(&chatOpts.model, "model", "", "model name (relay default when empty)")
	flags.StringVar(&chatOpts.apiKey, "api-key", "", "upstream API key, sent as a bearer token")
	flags.IntVar(&chatOpts.maxTokens, "max-tokens", 100, "max tokens per reply")
	flags.BoolVar(&chatOpts.continuous, "continuous", false, "carry the conversation forward between turns")
}

func runChat(cmd *cobra.Command, args []string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	system := chatOpts.system
	if system == "" {
		fmt.Fprint(out, "sys> ")
		if in.Scan() {
			system = strings.TrimSpace(in.Text())
		}
	}

	var opts []client.Option
	if chatOpts.apiKey == "" {
		chatOpts.apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if chatOpts.apiKey != "" {
		opts = append(opts, client.WithBearer(chatOpts.apiKey))
	}
	c := client.New(chatOpts.url, opts...)

	var history []model.Turn
	for {
		fmt.Fprint(out, "user> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			break
		}

		req := &model.RelayRequest{
			SystemContent:      system,
			UserContent:        &line,
			Model:              chatOpts.model,
			ContinuousDialogue: history,
		}
		if chatOpts.maxTokens > 0 {
			req.MaxTokens = &chatOpts.maxTokens
		}

		resp, err := c.Send(cmd.Context(), req)
		if err != nil {
			var relayErr *client.Error
			if errors.As(err, &relayErr) {
				fmt.Fprintf(out, "请求失败，状态码：%d\n%s\n", relayErr.StatusCode, relayErr.Msg)
				continue
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		fmt.Fprintf(out, "assistant> %s\n", resp.CurrentResponse)
		if chatOpts.continuous {
			history = resp.Result
		}
	}

	if err := in.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
