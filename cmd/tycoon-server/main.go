package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"tycoon/internal/app"
	"tycoon/internal/config"
	"tycoon/internal/ports/filestore"
	"tycoon/internal/server"
)

var (
	flagAddr       = flag.String("addr", "", "Address to listen on (default: auto-port on localhost)")
	flagConfig     = flag.String("config", "", "Path to the JSON game config (default: built-in defaults)")
	flagArchiveDir = flag.String("archive-dir", "", "Directory where finished games are stored (default: no archive)")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *flagConfig != "" {
		if err := config.LoadGameConfig(*flagConfig); err != nil {
			klog.Exitf("load config: %v", err)
		}
	}
	cfg := config.GetGameConfig()

	opts := server.Options{Service: app.NewServiceFromConfig(cfg)}
	if cfg.SeatTokenSecret != "" {
		ttl := time.Duration(cfg.SeatTokenTTLSeconds) * time.Second
		opts.Tokens = app.NewSeatTokenService(cfg.SeatTokenSecret, ttl)
	}
	if *flagArchiveDir != "" {
		archive, err := filestore.NewArchive(*flagArchiveDir)
		if err != nil {
			klog.Exitf("open archive: %v", err)
		}
		opts.Archive = archive
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := make(chan *server.ServerState, 1)
	go func() {
		state := <-started
		fmt.Printf("Tycoon server listening on ws://%s/ws\n", state.Address)
	}()

	if err := server.Run(ctx, *flagAddr, opts, started); err != nil {
		klog.Exitf("server: %v", err)
	}
}
