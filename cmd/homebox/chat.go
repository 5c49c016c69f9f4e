package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/ai/intent"
)

// maxChatHistory bounds the turns replayed to the reply model.
const maxChatHistory = 20

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.store.Close()

		in := bufio.NewReader(os.Stdin)
		out := cmd.OutOrStdout()
		var history []llm.Message

		fmt.Fprintln(out, "HomeBox 已就绪，输入 exit 退出。")
		for {
			line, ok := prompt(in, out, "> ")
			if !ok {
				return nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "exit" || text == "quit" {
				return nil
			}

			parsed, err := a.assistant.Parse(ctx, text)
			if err != nil {
				return err
			}

			var confirmed intent.Actions
			if len(parsed.Actions) > 0 {
				fmt.Fprintln(out, "将执行：")
				for _, label := range parsed.Actions.Labels() {
					fmt.Fprintln(out, "  -", label)
				}
				answer, ok := prompt(in, out, "确认执行? [y/N] ")
				if !ok {
					return nil
				}
				if strings.EqualFold(strings.TrimSpace(answer), "y") {
					confirmed = parsed.Actions
				}
			}

			printed := 0
			outcome, err := a.assistant.Submit(ctx, text, confirmed, history, func(accumulated string) {
				if len(accumulated) > printed {
					fmt.Fprint(out, accumulated[printed:])
					printed = len(accumulated)
				}
			})
			if err != nil {
				return err
			}
			if printed == 0 {
				fmt.Fprint(out, outcome.Reply)
			}
			fmt.Fprintln(out)
			for i, failed := range outcome.Failed {
				fmt.Fprintf(out, "  ✗ %s: %s\n", failed.Label(), outcome.Reasons[i])
			}

			history = append(history, llm.UserMessage(text), llm.AssistantMessage(outcome.Reply))
			if len(history) > maxChatHistory {
				history = history[len(history)-maxChatHistory:]
			}
		}
	},
}

// prompt prints p and reads one line. ok is false at end of input.
func prompt(in *bufio.Reader, out io.Writer, p string) (string, bool) {
	fmt.Fprint(out, p)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}
	return line, true
}
