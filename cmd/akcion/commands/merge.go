package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Reathyze20/akcion/internal/brain"
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge TICKER",
	Short: "새 정보를 논지에 머지",
	Long: `새 정보(뉴스, 공시, 메모)를 저장된 논지에 머지합니다.

AI 분류기(활성화 시) 또는 키워드 폴백이 충돌을 분류하고
확신 점수를 조정합니다. 점수 변화는 드리프트 감시를 거칩니다.

Example:
  go run ./cmd/akcion merge OTCX --text "FDA approval received" --source news
  go run ./cmd/akcion merge OTCX --score 9 --source operator`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

var (
	mergeText   string
	mergeSource string
	mergeScore  int
	mergePrice  float64
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeText, "text", "", "머지할 텍스트")
	mergeCmd.Flags().StringVar(&mergeSource, "source", "cli", "정보 출처")
	mergeCmd.Flags().IntVar(&mergeScore, "score", 0, "점수 강제 설정 (분류 생략)")
	mergeCmd.Flags().Float64Var(&mergePrice, "price", 0, "현재가 (그린라인 보너스 판단용)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	req := brain.MergeRequest{
		Ticker:       ticker,
		Text:         mergeText,
		Source:       mergeSource,
		CurrentPrice: mergePrice,
	}
	if cmd.Flags().Changed("score") {
		req.ForcedScore = &mergeScore
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := a.service.Merge(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Merge: %s ===\n", res.Ticker)
	fmt.Printf("Action:         %s\n", res.Action)
	fmt.Printf("Score:          %d -> %d\n", res.OldScore, res.NewScore)
	fmt.Printf("Conflict:       %s (path: %s)\n", res.ConflictType, res.Path)
	if len(res.Conflicts) > 0 {
		fmt.Printf("Conflicts:      %s\n", strings.Join(res.Conflicts, ", "))
	}
	if res.BonusApplied {
		fmt.Println("Bonus:          +1 (bullish news at the green line)")
	}
	fmt.Printf("Explanation:    %s\n", res.Explanation)
	if res.Drift != nil && res.Drift.Alert != nil {
		fmt.Printf("Drift Alert:    [%s] %s\n", res.Drift.Alert.Severity, res.Drift.Recommendation)
	}

	return nil
}
