package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"nitro/content-render/internal"
)

type config struct {
	Whitelist []string `mapstructure:"whitelist"`
	Sanitize  struct {
		Iframe bool `mapstructure:"iframe"`
	} `mapstructure:"sanitize"`
	Ignore struct {
		File []string `mapstructure:"file"`
	} `mapstructure:"ignore"`
	Output string `mapstructure:"output"`
	Log    struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Strict bool `mapstructure:"strict"`
}

func main() {
	var params struct {
		Path    string `help:"Path to be processed" required:"true" arg:"true" type:"string"`
		Config  string `help:"Path to the configuration file." short:"c" type:"string"`
		Output  string `help:"Directory where the pages are written." short:"o" type:"string"`
		Strict  bool   `help:"Exit with an error when any document has findings."`
		Verbose bool   `help:"Enable the debug logs."`
	}
	kong.Parse(&params, kong.Name("content-render"))

	client, err := configClient(params.Config)
	if err != nil {
		handleError("fail to configure the client: %s", err.Error())
	}
	client.Path = params.Path
	if params.Output != "" {
		client.Output = params.Output
	}
	if params.Strict {
		client.Strict = true
	}
	if params.Verbose {
		logger := client.Logger.Level(zerolog.DebugLevel)
		client.Logger = &logger
	}

	failed, err := client.Run(executionContext())
	if err != nil {
		handleError("fail at client execution: %s", err.Error())
	}
	if failed {
		os.Exit(1)
	}
}

func configClient(path string) (internal.Client, error) {
	var viper = viper.New()
	viper.SetConfigType("yaml")
	viper.SetDefault("sanitize.iframe", true)
	viper.SetDefault("log.level", zerolog.LevelInfoValue)

	payload := []byte{}
	if path != "" {
		var err error
		if payload, err = os.ReadFile(path); err != nil {
			return internal.Client{}, fmt.Errorf("fail to open the config file: %w", err)
		}
	}
	if err := viper.ReadConfig(bytes.NewReader(payload)); err != nil {
		return internal.Client{}, fmt.Errorf("fail to read the configuration file: %w", err)
	}

	var cfg config
	if err := viper.Unmarshal(&cfg); err != nil {
		return internal.Client{}, fmt.Errorf("fail to unmarshal the configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return internal.Client{}, err
	}

	return internal.Client{
		Output:      cfg.Output,
		Whitelist:   cfg.Whitelist,
		AllowIframe: cfg.Sanitize.Iframe,
		Strict:      cfg.Strict,
		Ignore: internal.ClientIgnore{
			File: cfg.Ignore.File,
		},
		Logger: logger,
	}, nil
}

func newLogger(level string) (*zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("fail to parse the log level '%s': %w", level, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(lvl)
	return &logger, nil
}

func handleError(mask string, params ...interface{}) {
	fmt.Printf(mask+"\n", params...)
	os.Exit(1)
}

func executionContext() context.Context {
	ctx, ctxCancel := context.WithCancel(context.Background())
	go func() {
		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt)
		<-chSignal
		ctxCancel()
	}()
	return ctx
}
