package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Reathyze20/akcion/internal/brain"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate TICKER",
	Short: "게이트키퍼 판정 실행",
	Long: `한 종목에 대해 게이트키퍼 판정을 실행합니다.

저장된 논지/가격선/레짐에 현재 가격과 컴플라이언스 입력을 더해
최종 판정(ALLOW / AVOID / BLOCKED)과 최대 포지션 비중을 산출합니다.

Example:
  go run ./cmd/akcion evaluate OTCX --price 9.5 --earnings 2025-08-15
  go run ./cmd/akcion evaluate OTCX --price 9.5 --runway 18 --held 4.0`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

var (
	evalPrice    float64
	evalEarnings string
	evalCatalyst bool
	evalDays     int
	evalRunway   float64
	evalHeld     float64
	evalOverride bool
	evalVol      float64
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().Float64Var(&evalPrice, "price", 0, "현재가 (0이면 가격 데이터 없음)")
	evaluateCmd.Flags().StringVar(&evalEarnings, "earnings", "", "다음 실적 발표일 (YYYY-MM-DD, 생략 시 임박 가정)")
	evaluateCmd.Flags().BoolVar(&evalCatalyst, "catalyst", false, "최근 촉매 존재 여부")
	evaluateCmd.Flags().IntVar(&evalDays, "catalyst-days", -1, "다음 촉매까지 일수 (-1 = 미상)")
	evaluateCmd.Flags().Float64Var(&evalRunway, "runway", 0, "현금 런웨이 (개월)")
	evaluateCmd.Flags().Float64Var(&evalHeld, "held", 0, "현재 보유 비중 (%)")
	evaluateCmd.Flags().BoolVar(&evalOverride, "override-red", false, "RED 레짐 명시적 오버라이드")
	evaluateCmd.Flags().Float64Var(&evalVol, "volatility", 0, "20일 변동성")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	req := brain.EvaluateRequest{
		Ticker:             ticker,
		Price:              evalPrice,
		HasRecentCatalyst:  evalCatalyst,
		DaysToNextCatalyst: evalDays,
		CashRunwayMonths:   evalRunway,
		Held:               evalHeld,
		RegimeOverride:     evalOverride,
		Volatility20D:      evalVol,
	}

	if evalEarnings != "" {
		d, err := time.Parse("2006-01-02", evalEarnings)
		if err != nil {
			return fmt.Errorf("invalid --earnings date: %w", err)
		}
		req.EarningsDate = &d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	v, err := a.service.Evaluate(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Verdict: %s ===\n", v.Ticker)
	fmt.Printf("Decision:       %s\n", v.Decision)
	fmt.Printf("Gomes Score:    %d\n", v.GomesScore)
	fmt.Printf("Max Position:   %.2f%%\n", v.MaxPositionPct)
	fmt.Printf("Phase:          %s\n", v.LifecyclePhase)
	fmt.Printf("Regime:         %s\n", v.Regime)
	if !v.Zone.Empty {
		fmt.Printf("Zone:           %s (floor risk %.1f%%, ceiling upside %.1f%%)\n",
			v.Zone.Signal, v.Zone.RiskToFloorPct, v.Zone.UpsideToCeilingPct)
	} else {
		fmt.Println("Zone:           no price data")
	}
	if v.BlockedReason != "" {
		fmt.Printf("Blocked:        %s\n", v.BlockedReason)
	}
	if len(v.RiskFactors) > 0 {
		fmt.Printf("Risk Factors:   %s\n", strings.Join(v.RiskFactors, ", "))
	}
	fmt.Printf("Explanation:    %s\n", v.Explanation)

	return nil
}
