package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qx/budget_robot/internal/logic"
	"github.com/qx/budget_robot/internal/report"
	"github.com/qx/budget_robot/internal/svc"
)

var (
	flagTelegramID int64
	flagLimit      int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a user's budget figures",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&flagTelegramID, "telegram-id", 0, "Telegram user id")
	reportCmd.Flags().IntVarP(&flagLimit, "limit", "l", logic.RecentExpensesLimit, "Expenses to list, 0 for all")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	if flagTelegramID == 0 {
		return errors.New("--telegram-id is required")
	}

	c := loadConfig()
	if err := c.Validate(false); err != nil {
		return err
	}
	c.MustSetUp()

	svcCtx := svc.NewServiceContext(c, false)
	defer svcCtx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	l := logic.NewBudgetLogic(ctx, svcCtx)
	ov, err := l.Overview(flagTelegramID)
	if err != nil {
		return err
	}
	if !ov.HasBudget {
		fmt.Print(report.RenderNoBudget(flagTelegramID))
		return nil
	}

	entries, err := l.Expenses(flagTelegramID, flagLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(report.Render(flagTelegramID, ov.Summary, entries))
	return nil
}
