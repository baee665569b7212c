package main

import (
    "log/slog"
    "os"
    "os/signal"
    "syscall"

    "github.com/MahmoudElhosary/MastercardHostedCheckout/checkout"
    _ "github.com/joho/godotenv/autoload"
)

func main() {
    logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

    app := checkout.NewApp(logger, checkout.ConfigFromEnv())
    if err := app.Start(); err != nil {
        logger.Error("starting app", "err", err)
        os.Exit(1)
    }

    done := make(chan os.Signal, 1)
    signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
    <-done

    app.Shutdown()
}
