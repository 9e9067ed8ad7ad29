package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"

	"github.com/qx/budget_robot/internal/handler"
	"github.com/qx/budget_robot/internal/store"
	"github.com/qx/budget_robot/internal/svc"
)

var (
	flagAPIOnly bool
	flagMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the Telegram bot",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagAPIOnly, "api-only", false, "Serve the HTTP API without the bot")
	serveCmd.Flags().BoolVar(&flagMigrate, "migrate", false, "Apply schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	c := loadConfig()
	if err := c.Validate(!flagAPIOnly); err != nil {
		return err
	}

	ctx := svc.NewServiceContext(c, !flagAPIOnly)
	defer ctx.Close()

	if flagMigrate && ctx.Pool() != nil {
		mctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := store.Migrate(mctx, ctx.Pool())
		cancel()
		if err != nil {
			return err
		}
	}

	var opts []rest.RunOption
	if c.StaticDir != "" {
		opts = append(opts, rest.WithNotFoundHandler(handler.StaticHandler(c.StaticDir)))
	}
	server := rest.MustNewServer(c.RestConf, opts...)
	handler.RegisterHandlers(server, ctx)

	group := service.NewServiceGroup()
	defer group.Stop()
	group.Add(server)
	if !flagAPIOnly {
		group.Add(handler.NewBotServer(ctx))
	}

	logx.Infof("budget serving on %s:%d, bot enabled: %t", c.Host, c.Port, !flagAPIOnly)
	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	group.Start()
	return nil
}
