package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finmanager/internal/amqp"
	"finmanager/internal/cli"
	"finmanager/internal/config"
	"finmanager/internal/log"
	"finmanager/internal/services"
)

const usage = `usage: finmanager <command> [flags]

commands:
  summary [-accounts ID,..] [-category ID]  print accounts, budgets and alerts
  list [-accounts ID,..] [-category ID]     list transactions
      [-from DATE] [-to DATE] [-min N] [-max N]
  months -months YYYY-MM,.. [-accounts ..]  expenses per month
  add -account ID -category ID -amount N    record a transaction
      [-note TEXT] [-ts DATE] [-id ID]
  update -id ID [-amount N] [-note TEXT]    patch a transaction
      [-category ID] [-ts DATE] [-account ID]
  delete -id ID                             remove a transaction
  set-balance -account ID -balance N        overwrite an account balance
  set-limit -budget ID -limit N             change a budget limit
  import -from FILE                         load a seed.json into SQLite
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("Command failed", log.FieldOperation, os.Args[1], log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, name string, args []string) error {
	if name == "import" {
		return runImport(ctx, cfg, logger, args, os.Stdout)
	}
	if _, ok := commands[name]; !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	seed, err := cli.LoadSeed(ctx, cfg, logger)
	if err != nil {
		return err
	}

	opts := []services.Option{services.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without relay", log.FieldError, err)
		} else {
			opts = append(opts, services.WithPublisher(client))
		}
	}

	ledger := services.NewLedger(seed, opts...)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Warn("Failed to close ledger", log.FieldError, err)
		}
	}()

	return execute(ctx, ledger, name, args, os.Stdout)
}
