package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// regimeCmd represents the regime command
var regimeCmd = &cobra.Command{
	Use:   "regime",
	Short: "시장 레짐 조회/전환",
	Long: `전역 시장 레짐을 조회하거나 전환합니다.

레짐은 GREEN / YELLOW / ORANGE / RED 네 단계이며
모든 판정 계산이 이 단일 상태를 참조합니다.

Example:
  go run ./cmd/akcion regime get
  go run ./cmd/akcion regime set ORANGE --note "fed meeting week"`,
}

// regimeGetCmd shows the current regime
var regimeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "현재 레짐 조회",
	RunE:  runRegimeGet,
}

// regimeSetCmd transitions the regime
var regimeSetCmd = &cobra.Command{
	Use:   "set REGIME",
	Short: "레짐 전환 (GREEN|YELLOW|ORANGE|RED)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegimeSet,
}

var (
	regimeNote string
	regimeBy   string
)

func init() {
	rootCmd.AddCommand(regimeCmd)
	regimeCmd.AddCommand(regimeGetCmd)
	regimeCmd.AddCommand(regimeSetCmd)

	regimeSetCmd.Flags().StringVar(&regimeNote, "note", "", "전환 사유")
	regimeSetCmd.Flags().StringVar(&regimeBy, "by", "cli", "전환 주체")
}

func runRegimeGet(cmd *cobra.Command, args []string) error {
	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	state, err := a.service.Regime(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nRegime:        %s\n", state.Regime)
	fmt.Printf("Defense Level: %d\n", state.Regime.DefenseLevel())
	fmt.Printf("Posture:       %s\n", state.Regime.Posture())
	if state.Note != "" {
		fmt.Printf("Note:          %s\n", state.Note)
	}
	if state.ChangedBy != "" {
		fmt.Printf("Changed By:    %s at %s\n", state.ChangedBy, state.ChangedAt.Format(time.RFC3339))
	}
	return nil
}

func runRegimeSet(cmd *cobra.Command, args []string) error {
	target := contracts.MarketRegime(strings.ToUpper(args[0]))

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.service.SetRegime(ctx, target, regimeNote, regimeBy); err != nil {
		return err
	}

	fmt.Printf("✅ Regime set to %s\n", target)
	return nil
}
