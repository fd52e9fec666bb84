package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cadportal/internal/uploadclient"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func errorText(msg string) string { return red("error: " + msg) }

// settings are resolved from flags, CADUP_* variables and the config file,
// in that order of precedence.
type settings struct {
	Server  string
	Token   string
	UserID  string
	Tier    string
	Timeout time.Duration
}

func loadSettings() (settings, error) {
	s := settings{
		Server:  strings.TrimRight(viper.GetString("server"), "/"),
		Token:   viper.GetString("token"),
		UserID:  viper.GetString("user"),
		Tier:    viper.GetString("tier"),
		Timeout: viper.GetDuration("timeout"),
	}
	if s.Server == "" {
		return s, errors.New("server URL is not set (--server or CADUP_SERVER)")
	}
	if s.Token == "" {
		return s, errors.New("session token is not set (--token or CADUP_TOKEN)")
	}
	return s, nil
}

func (s settings) httpClient() *http.Client {
	return &http.Client{Timeout: s.Timeout}
}

func (s settings) client() *uploadclient.Client {
	return uploadclient.NewClient(s.Server, s.Token, s.httpClient())
}

func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "cadup",
		Short: "Upload and fetch CAD files from the portal",
		Long: fmt.Sprintf(`%s

Uploads go straight to storage: cadup asks the portal for a signed URL and
PUTs the file there, checking size and type limits locally first.

%s
  cadup account
  cadup projects list
  cadup projects create "Gearbox housing"
  cadup upload --project <id> part.sldprt drawing.pdf
  cadup download <file-id> -o ./out`,
			bold("cadup: CAD portal client"),
			bold("EXAMPLES:")),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(configFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.cadup.yaml)")
	flags.String("server", "http://localhost:8080", "portal base URL")
	flags.String("token", "", "session token")
	flags.String("user", "", "your user id")
	flags.String("tier", "", "subscription tier (free, part-time, full-time, team)")
	flags.Duration("timeout", 30*time.Minute, "HTTP timeout per request")
	for _, name := range []string{"server", "token", "user", "tier", "timeout"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newAccountCommand(),
		newProjectsCommand(),
		newUploadCommand(),
		newDownloadCommand(),
	)
	return root
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix("cadup")
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".cadup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && configFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// describeError turns API failures into the message the portal sent.
func describeError(err error) error {
	if apiErr, ok := uploadclient.AsAPIError(err); ok {
		return fmt.Errorf("%s (HTTP %d)", apiErr.Message, apiErr.StatusCode)
	}
	return err
}
