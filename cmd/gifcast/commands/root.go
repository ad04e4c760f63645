package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "gifcast",
		Short: "gifcast - record live frame streams into paced animated GIFs",
		Long: `gifcast re-times an irregular stream of live frames into a steady
animated GIF without ever blocking the producer.

Sources:
  • X11 screen region capture
  • MJPEG HTTP streams
  • WebSocket JPEG frame streams

Pacing:
  • Fixed rate: frames arriving too fast are dropped, gaps are covered
    by repeating the last frame
  • Variable rate: every frame is kept with its measured display time`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}
