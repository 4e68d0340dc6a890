package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "akcion",
	Short: "Akcion - 저유동성 종목 투자 판정 엔진",
	Long: `Akcion Unified CLI

규칙 기반 투자 판정 시스템.
논지(thesis) 추적, 지식 머지, 게이트키퍼 판정, 드리프트 감시.

Usage:
  go run ./cmd/akcion [command]

Examples:
  go run ./cmd/akcion api
  go run ./cmd/akcion evaluate OTCX --price 9.5
  go run ./cmd/akcion regime set ORANGE --note "fed meeting week"
  go run ./cmd/akcion alerts list`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
