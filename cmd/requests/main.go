// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joamaki/pushstream/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(logging.DefaultLogger).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
