package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// linesCmd represents the lines command
var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "가격 라인 조회/설정",
	Long: `애널리스트 가격 라인(그린/레드/그레이)을 조회하거나 설정합니다.

그린 < 레드 기하가 맞지 않으면 입력이 거부됩니다.

Example:
  go run ./cmd/akcion lines get OTCX
  go run ./cmd/akcion lines set OTCX --green 10 --red 20 --grey 14`,
}

// linesGetCmd shows the current lines
var linesGetCmd = &cobra.Command{
	Use:   "get TICKER",
	Short: "현재 라인 조회",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinesGet,
}

// linesSetCmd versions new lines
var linesSetCmd = &cobra.Command{
	Use:   "set TICKER",
	Short: "새 라인 버전 저장",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinesSet,
}

var (
	lineGreen float64
	lineRed   float64
	lineGrey  float64
)

func init() {
	rootCmd.AddCommand(linesCmd)
	linesCmd.AddCommand(linesGetCmd)
	linesCmd.AddCommand(linesSetCmd)

	linesSetCmd.Flags().Float64Var(&lineGreen, "green", 0, "그린 라인 (저평가 바닥)")
	linesSetCmd.Flags().Float64Var(&lineRed, "red", 0, "레드 라인 (고평가 천장)")
	linesSetCmd.Flags().Float64Var(&lineGrey, "grey", 0, "그레이 라인 (적정가, 옵션)")
	_ = linesSetCmd.MarkFlagRequired("green")
	_ = linesSetCmd.MarkFlagRequired("red")
}

func runLinesGet(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lines, err := a.service.GetPriceLines(ctx, ticker)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s price lines (v%d)\n", lines.Ticker, lines.Version)
	fmt.Printf("Green: %.2f\n", lines.GreenLine)
	fmt.Printf("Red:   %.2f\n", lines.RedLine)
	if lines.GreyLine != nil {
		fmt.Printf("Grey:  %.2f\n", *lines.GreyLine)
	}
	return nil
}

func runLinesSet(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	lines := &contracts.PriceLines{
		Ticker:    ticker,
		GreenLine: lineGreen,
		RedLine:   lineRed,
	}
	if cmd.Flags().Changed("grey") {
		lines.GreyLine = &lineGrey
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stored, err := a.service.SetPriceLines(ctx, lines)
	if err != nil {
		return err
	}

	fmt.Printf("✅ %s lines stored as version %d\n", ticker, stored.Version)
	return nil
}
