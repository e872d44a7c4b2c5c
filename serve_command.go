package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/matt-g-everett/cardtx/api"
	"github.com/matt-g-everett/cardtx/stream"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Stream card states over MQTT and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger(cmd.ErrOrStderr())

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var renderers []stream.Renderer
			var streamer *stream.Streamer
			controller := stream.NewController(logger)
			if cfg.MQTT.Enabled {
				routeMQTTLogs()
				streamer = stream.NewStreamer(cfg.MQTT, nil, controller, logger)
				client := mqtt.NewClient(streamer.ClientOptions())
				streamer.SetClient(client)
				renderers = append(renderers, stream.NewMQTTRenderer(client, cfg.MQTT))
			}
			for _, s := range cfg.Sequences {
				if _, err := controller.Create(s, renderers...); err != nil {
					controller.Close()
					return err
				}
			}
			defer controller.Close()

			errCh := make(chan error, 2)
			running := 0
			if streamer != nil {
				running++
				go func() { errCh <- streamer.Run(runCtx) }()
			}
			if cfg.HTTP.Enabled {
				running++
				a := api.NewApi(cfg.HTTP, controller, logger)
				go func() {
					err := a.Serve(runCtx)
					if errors.Is(err, http.ErrServerClosed) {
						err = nil
					}
					errCh <- err
				}()
			}
			if running == 0 {
				return errors.New("nothing to serve: enable mqtt or http")
			}

			var firstErr error
			for i := 0; i < running; i++ {
				if err := <-errCh; err != nil && firstErr == nil {
					firstErr = err
					stop()
				}
			}
			if firstErr == nil && runCtx.Err() != nil {
				logger.Info("shutting down")
			}
			return firstErr
		},
	}
}
