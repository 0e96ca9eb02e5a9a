package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	yak "github.com/iwtcode/yakAdapter"
	"github.com/iwtcode/yakAdapter/commands"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Интерактивный режим: ACTION COMMAND/TYPE [ARGS...] на строку",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.open()
			if err != nil {
				return err
			}
			defer client.Close()
			return runShell(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runShell читает строки до EOF или quit. Ошибка строки печатается и не прерывает сеанс.
func runShell(ctx context.Context, client *yak.Client, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "connected to %s\n", client.Model())

	for {
		fmt.Fprint(out, "yak> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		words, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch strings.ToLower(words[0]) {
		case "quit", "exit":
			return nil
		case "snapshot":
			snapshot, err := client.GetSnapshot(ctx)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printJSON(out, snapshot)
			continue
		}

		if len(words) < 2 {
			fmt.Fprintln(out, "usage: ACTION COMMAND/TYPE [ARGS...]")
			continue
		}
		action, err := commands.ParseActionType(words[0])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		res, err := client.Execute(ctx, action, words[1], words[2:]...)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		switch {
		case len(res.Fields) > 0:
			fmt.Fprintln(out, strings.Join(res.Fields, "\t"))
		case res.Raw != "":
			fmt.Fprintln(out, res.Raw)
		default:
			fmt.Fprintf(out, "ok: %s\n", res.Command)
		}
	}
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		values = append(values, v)
	}
	return values, nil
}
