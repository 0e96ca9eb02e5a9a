package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/iwtcode/yakAdapter/commands"

	"github.com/spf13/cobra"
)

func (c *cli) tableCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "table [COMMAND/TYPE ACTION]",
		Short: "Показать записи таблицы или разрешить одну команду",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			entries, err := commands.LoadFile(cfg.CommandsFile)
			if err != nil {
				return err
			}
			table := commands.NewTable(entries)
			if model == "" {
				model = cfg.Model
			}

			out := cmd.OutOrStdout()
			switch len(args) {
			case 0:
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "MODEL\tTYPE\tACTION\tTEMPLATE\tFIELDS")
				for _, e := range table.Entries() {
					if model != "" && e.Model != model && !e.IsWildcard() {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						e.Model, e.CommandType, e.Action, e.Template, strings.Join(e.ResponseFields, ","))
				}
				return w.Flush()
			case 2:
				action, err := commands.ParseActionType(args[1])
				if err != nil {
					return err
				}
				e, ok := table.Resolve(args[0], action, model)
				if !ok {
					return fmt.Errorf("no command defined for %s (%s) on model %s", args[0], action, model)
				}
				return printJSON(out, map[string]interface{}{
					"model":           e.Model,
					"command_type":    e.CommandType,
					"action":          e.Action.String(),
					"template":        e.Template,
					"variable":        e.Variable,
					"response_fields": e.ResponseFields,
					"line":            e.Line,
				})
			default:
				return fmt.Errorf("expected COMMAND/TYPE and ACTION")
			}
		},
	}

	cmd.Flags().StringVar(&model, "for", "", "модель для фильтра и разрешения")
	return cmd
}
