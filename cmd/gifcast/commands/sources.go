package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gifcast/gifcast/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available frame source kinds",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available frame sources:")
		for _, kind := range source.Kinds() {
			switch kind {
			case "x11":
				fmt.Printf("  %-10s capture a screen region from the X server\n", kind)
			case "mjpeg":
				fmt.Printf("  %-10s consume a multipart MJPEG stream over HTTP\n", kind)
			case "websocket":
				fmt.Printf("  %-10s receive binary JPEG frames over a WebSocket\n", kind)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
