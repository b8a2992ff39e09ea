package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Akhil-2310/arkanon/log"
	"github.com/Akhil-2310/arkanon/notify"
	"github.com/Akhil-2310/arkanon/registry"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/Akhil-2310/arkanon/service"
	sig "github.com/Akhil-2310/arkanon/signal"
	"github.com/Akhil-2310/arkanon/storage"
	"github.com/Akhil-2310/arkanon/storage/nullifier"
	"github.com/spf13/cobra"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

var (
	dataDir  string
	host     string
	port     int
	vkeyPath string
	redisURL string
	natsURL  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arkanon HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Init(logLevel, "stdout", nil)

		database, err := metadb.New(db.TypePebble, filepath.Join(dataDir, "db"))
		if err != nil {
			return err
		}
		store := storage.New(database)
		defer store.Close()

		groups := semaphore.NewGroupDB(database)
		proofs, err := semaphore.NewVerifierFromFile(groups, vkeyPath)
		if err != nil {
			return err
		}

		var nullifiers nullifier.Store
		if redisURL != "" {
			redisStore, err := nullifier.NewRedisStore(redisURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := redisStore.Close(); err != nil {
					log.Warnw("failed to close redis nullifier store", "error", err)
				}
			}()
			nullifiers = redisStore
			log.Infow("using redis nullifier store", "url", redisURL)
		} else {
			nullifiers = nullifier.NewKVStore(database)
		}

		var notifier notify.Notifier
		if natsURL != "" {
			natsNotifier, err := notify.NewNatsNotifier(natsURL)
			if err != nil {
				return err
			}
			defer natsNotifier.Close()
			notifier = natsNotifier
			log.Infow("using NATS notifier", "url", natsURL)
		}

		reg := registry.New(store, proofs, notifier)
		validator := sig.New(reg, store, nullifiers, proofs, notifier)

		apiService := service.NewAPI(reg, validator, host, port)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := apiService.Start(ctx); err != nil {
			return err
		}
		defer apiService.Stop()

		// Wait until SIGINT or SIGTERM
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info("shutting down")
		return nil
	},
}

func init() {
	home, _ := os.UserHomeDir()
	serveCmd.Flags().StringVar(&dataDir, "datadir", filepath.Join(home, ".arkanon"), "data directory")
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "API listen host")
	serveCmd.Flags().IntVar(&port, "port", 8080, "API listen port")
	serveCmd.Flags().StringVar(&vkeyPath, "vkey", "semaphore_vkey.json", "path to the Semaphore Groth16 verification key (circom JSON format)")
	serveCmd.Flags().StringVar(&redisURL, "redis-url", "", "redis URL for a shared nullifier store (optional)")
	serveCmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS URL for event notifications (optional)")
	rootCmd.AddCommand(serveCmd)
}
