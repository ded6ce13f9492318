package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spacify/internal/cli"
	intconfig "spacify/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cmd, args, err := cli.ParseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	env := intconfig.LoadEnv()
	if cmd == cli.CmdServe {
		serve(env)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := cli.OpenStore(env)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	app := cli.NewApp(env, store, os.Stdout)
	err = app.Run(ctx, cmd, args)
	closeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func serve(env intconfig.Env) {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	srv, cleanup, err := cli.NewServer(bootCtx, env)
	cancelBoot()
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	defer cleanup()

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown failed: %v", err)
		return
	}

	log.Println("server stopped cleanly")
}
