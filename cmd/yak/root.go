package main

import (
	"encoding/json"
	"io"

	yak "github.com/iwtcode/yakAdapter"

	"github.com/spf13/cobra"
)

type connectFunc func(cfg *yak.Config) (*yak.Client, error)

type cli struct {
	configPath   string
	endpoint     string
	commandsFile string
	model        string
	logLevel     string
	timeoutMs    int

	connect connectFunc
}

// newRootCmd собирает дерево команд. connect подменяется в тестах.
func newRootCmd(connect connectFunc) *cobra.Command {
	if connect == nil {
		connect = yak.New
	}
	c := &cli{connect: connect}

	root := &cobra.Command{
		Use:           "yak",
		Short:         "Управление анализатором спектра по таблице SCPI-команд",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML файл конфигурации")
	flags.StringVarP(&c.endpoint, "endpoint", "e", "", "адрес прибора (tcp://, serial://, ws://)")
	flags.StringVarP(&c.commandsFile, "commands", "f", "", "CSV таблица команд")
	flags.StringVarP(&c.model, "model", "m", "", "модель прибора вместо *IDN?")
	flags.StringVar(&c.logLevel, "log-level", "", "уровень логирования")
	flags.IntVar(&c.timeoutMs, "timeout", 0, "таймаут ответа в миллисекундах")

	root.AddCommand(
		c.tableCmd(),
		c.execCmd(),
		c.refreshCmd(),
		c.markersCmd(),
		c.shellCmd(),
	)
	return root
}

// config собирает конфигурацию: файл или окружение, затем флаги.
func (c *cli) config() (*yak.Config, error) {
	var cfg *yak.Config
	if c.configPath != "" {
		loaded, err := yak.LoadFile(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = yak.Load()
	}

	if c.endpoint != "" {
		cfg.Endpoint = c.endpoint
	}
	if c.commandsFile != "" {
		cfg.CommandsFile = c.commandsFile
	}
	if c.model != "" {
		cfg.Model = c.model
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.timeoutMs > 0 {
		cfg.TimeoutMs = c.timeoutMs
	}
	return cfg, cfg.Validate()
}

func (c *cli) open() (*yak.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return c.connect(cfg)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
