package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Reathyze20/akcion/internal/contracts"
)

// thesisCmd represents the thesis command
var thesisCmd = &cobra.Command{
	Use:   "thesis",
	Short: "투자 논지 등록/조회",
	Long: `투자 논지를 등록하고 조회합니다.

등록 이후의 점수 변경은 merge 명령을 통해서만 가능합니다.

Example:
  go run ./cmd/akcion thesis create OTCX --score 7 --edge "niche monopoly"
  go run ./cmd/akcion thesis show OTCX
  go run ./cmd/akcion thesis history OTCX`,
}

// thesisCreateCmd registers a new thesis
var thesisCreateCmd = &cobra.Command{
	Use:   "create TICKER",
	Short: "새 논지 등록",
	Args:  cobra.ExactArgs(1),
	RunE:  runThesisCreate,
}

// thesisShowCmd shows the latest version
var thesisShowCmd = &cobra.Command{
	Use:   "show TICKER",
	Short: "논지 조회",
	Args:  cobra.ExactArgs(1),
	RunE:  runThesisShow,
}

// thesisHistoryCmd shows the score trail
var thesisHistoryCmd = &cobra.Command{
	Use:   "history TICKER",
	Short: "점수 이력 조회",
	Args:  cobra.ExactArgs(1),
	RunE:  runThesisHistory,
}

var (
	thesisScore     int
	thesisEdge      string
	thesisVerdict   string
	thesisCatalysts []string
	thesisRisks     []string
	historyLimit    int
)

func init() {
	rootCmd.AddCommand(thesisCmd)
	thesisCmd.AddCommand(thesisCreateCmd)
	thesisCmd.AddCommand(thesisShowCmd)
	thesisCmd.AddCommand(thesisHistoryCmd)

	thesisCreateCmd.Flags().IntVar(&thesisScore, "score", 5, "초기 확신 점수 (1-10)")
	thesisCreateCmd.Flags().StringVar(&thesisEdge, "edge", "", "핵심 엣지")
	thesisCreateCmd.Flags().StringVar(&thesisVerdict, "verdict", "", "행동 지침")
	thesisCreateCmd.Flags().StringSliceVar(&thesisCatalysts, "catalyst", nil, "촉매 (반복 가능)")
	thesisCreateCmd.Flags().StringSliceVar(&thesisRisks, "risk", nil, "리스크 (반복 가능)")

	thesisHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "최대 표시 개수")
}

func runThesisCreate(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	thesis := &contracts.Thesis{
		Ticker:          ticker,
		ConvictionScore: thesisScore,
		Edge:            thesisEdge,
		ActionVerdict:   thesisVerdict,
		Catalysts:       thesisCatalysts,
		Risks:           thesisRisks,
		Status:          contracts.ThesisActive,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.service.CreateThesis(ctx, thesis); err != nil {
		return err
	}

	fmt.Printf("✅ Thesis created for %s (score %d)\n", ticker, contracts.ClampScore(thesisScore))
	return nil
}

func runThesisShow(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t, err := a.service.GetThesis(ctx, ticker)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Thesis: %s (v%d) ===\n", t.Ticker, t.Version)
	fmt.Printf("Score:     %d\n", t.ConvictionScore)
	fmt.Printf("Status:    %s", t.Status)
	if t.NeedsReview {
		fmt.Print("  ⚠ needs review")
	}
	fmt.Println()
	if t.Edge != "" {
		fmt.Printf("Edge:      %s\n", t.Edge)
	}
	if len(t.Catalysts) > 0 {
		fmt.Printf("Catalysts: %s\n", strings.Join(t.Catalysts, "; "))
	}
	if len(t.Risks) > 0 {
		fmt.Printf("Risks:     %s\n", strings.Join(t.Risks, "; "))
	}
	if t.ActionVerdict != "" {
		fmt.Printf("Verdict:   %s\n", t.ActionVerdict)
	}
	fmt.Printf("Updated:   %s\n", t.LastUpdated.Format(time.RFC3339))
	return nil
}

func runThesisHistory(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := a.service.ScoreHistory(ctx, ticker, historyLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Printf("No score history for %s\n", ticker)
		return nil
	}

	fmt.Printf("\n%-20s %-6s %-14s %s\n", "RECORDED", "SCORE", "STATUS", "SOURCE")
	for _, e := range entries {
		fmt.Printf("%-20s %-6d %-14s %s\n",
			e.RecordedAt.Format("2006-01-02 15:04"), e.Score, e.ThesisStatus, e.Source)
	}
	return nil
}
