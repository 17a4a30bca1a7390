package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/config"
	"github.com/tanq16/ruantools/internal/output"
	"github.com/tanq16/ruantools/internal/utils"
)

var (
	connections   int
	workers       int
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	historyPath   string
	awsProfile    string
	iterations    int
	debug         bool

	globalHTTPConfig utils.HTTPClientConfig
)

var RuanToolsVersion = "dev"

func newRootCmd(cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ruantools",
		Short:   "AES codec and multi-connection downloader",
		Version: RuanToolsVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			utils.InitLogger(debug)
			if connections < 1 || connections > 64 {
				return fmt.Errorf("--connections must be between 1 and 64, got %d", connections)
			}
			if workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", workers)
			}
			globalHTTPConfig = buildHTTPConfig()
			return nil
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&connections, "connections", "c", cfg.Threads, "Number of connections per download (1, 2, 4, 8, 16 typical; above 5 enables high-thread-mode)")
	flags.IntVarP(&workers, "workers", "w", cfg.Workers, "Number of links to download in parallel")
	flags.DurationVarP(&timeout, "timeout", "t", cfg.Timeout, "Connection timeout (eg. 5s, 10m)")
	flags.DurationVarP(&kaTimeout, "keep-alive-timeout", "k", cfg.KeepAliveTimeout, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	flags.StringVarP(&userAgent, "user-agent", "a", cfg.UserAgent, "User agent (\"randomize\" picks a browser agent)")
	flags.StringVarP(&proxyURL, "proxy", "p", cfg.Proxy, "HTTP/HTTPS proxy URL (e.g., http://proxy.example.com:8080)")
	flags.StringVar(&proxyUsername, "proxy-username", cfg.ProxyUsername, "Proxy username (if not provided in proxy URL)")
	flags.StringVar(&proxyPassword, "proxy-password", cfg.ProxyPassword, "Proxy password (if not provided in proxy URL)")
	flags.StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	flags.StringVar(&historyPath, "history-path", cfg.HistoryPath, "Directory of the download history database")
	flags.StringVar(&awsProfile, "aws-profile", cfg.AWSProfile, "AWS profile used for s3:// outputs")
	flags.IntVar(&iterations, "iterations", cfg.Iterations, "Default PBKDF2 iterations for the openssl commands")
	flags.BoolVar(&debug, "debug", cfg.Debug, "Enable debug logging")

	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newAESCmd())
	rootCmd.AddCommand(newOpenSSLCmd())
	rootCmd.AddCommand(newZeroPadCmd())
	rootCmd.AddCommand(newKeygenCmd())
	return rootCmd
}

func buildHTTPConfig() utils.HTTPClientConfig {
	ua := userAgent
	if ua == "randomize" {
		ua = utils.GetRandomUserAgent()
	}
	proxy, user, pass := proxyURL, proxyUsername, proxyPassword
	// Credentials embedded in the proxy URL are moved to the dedicated fields.
	if parsedProxy, err := u.Parse(proxy); err == nil && parsedProxy.User != nil && user == "" {
		user = parsedProxy.User.Username()
		if password, set := parsedProxy.User.Password(); set {
			pass = password
		}
		parsedProxy.User = nil
		proxy = parsedProxy.String()
	}
	return utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxy,
		ProxyUsername: user,
		ProxyPassword: pass,
		UserAgent:     ua,
		Headers:       utils.ParseHeaderArgs(headers),
	}
}

// signalContext is cancelled on the first interrupt so in-flight range
// requests abort and part files get cleaned up.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func Execute() {
	cfg, err := config.Load("")
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}
