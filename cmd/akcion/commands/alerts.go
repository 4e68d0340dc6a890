package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// alertsCmd represents the alerts command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "드리프트 알림 조회/확인",
	Long: `드리프트 알림을 조회하고 확인 처리합니다.

Example:
  go run ./cmd/akcion alerts list
  go run ./cmd/akcion alerts ack 42`,
}

// alertsListCmd lists open alerts
var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "미확인 알림 목록",
	RunE:  runAlertsList,
}

// alertsAckCmd acknowledges an alert
var alertsAckCmd = &cobra.Command{
	Use:   "ack ID",
	Short: "알림 확인 처리",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsAck,
}

var alertsLimit int

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsAckCmd)

	alertsListCmd.Flags().IntVar(&alertsLimit, "limit", 50, "최대 표시 개수")
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alerts, err := a.service.OpenAlerts(ctx, alertsLimit)
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		fmt.Println("No open alerts")
		return nil
	}

	fmt.Printf("\n%-6s %-8s %-18s %-12s %-7s %s\n", "ID", "TICKER", "TYPE", "SEVERITY", "SCORE", "MESSAGE")
	for _, alert := range alerts {
		fmt.Printf("%-6d %-8s %-18s %-12s %d->%-4d %s\n",
			alert.ID, alert.Ticker, alert.AlertType, alert.Severity,
			alert.OldScore, alert.NewScore, alert.Message)
	}
	return nil
}

func runAlertsAck(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid alert id %q", args[0])
	}

	a, cleanup, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.service.AcknowledgeAlert(ctx, id); err != nil {
		return err
	}

	fmt.Printf("✅ Alert %d acknowledged\n", id)
	return nil
}
