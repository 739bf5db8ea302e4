package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/jobinsights/cmd/jobinsights/cmd"
	"github.com/JonMunkholm/jobinsights/internal/insights"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.RootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", insights.FormatUserError(err))
		fmt.Fprintln(os.Stderr, "Detail:", err)
		stop()
		os.Exit(1)
	}
}
