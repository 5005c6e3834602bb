// Command zipcodesd runs the zip code record service.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nimburion/zipcodes/pkg/config"
	"github.com/nimburion/zipcodes/pkg/controller"
	"github.com/nimburion/zipcodes/pkg/health"
	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/observability/metrics"
	"github.com/nimburion/zipcodes/pkg/security"
	"github.com/nimburion/zipcodes/pkg/server"
	routerfactory "github.com/nimburion/zipcodes/pkg/server/router/factory"
	mongostore "github.com/nimburion/zipcodes/pkg/store/mongodb"
	"github.com/nimburion/zipcodes/pkg/version"
	"github.com/nimburion/zipcodes/pkg/zipcode"
)

const envPrefix = "ZIPCODES"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "zipcodesd",
		Short:         "Zip code record service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to configuration file")

	root.AddCommand(newServeCommand(&configFile))
	root.AddCommand(newSeedCommand(&configFile))
	root.AddCommand(newExportCommand(&configFile))
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configFile)
			if err != nil {
				return err
			}

			adapter, err := mongostore.NewAdapter(cfg.MongoDB, log)
			if err != nil {
				return err
			}
			defer adapter.Close()

			repo, err := newRepository(adapter)
			if err != nil {
				return err
			}

			zipCtrl, err := controller.NewZipCodes(repo, cfg.Pagination, log)
			if err != nil {
				return err
			}

			r, err := routerfactory.NewRouter(cfg.RouterType)
			if err != nil {
				return err
			}

			healthRegistry := health.NewRegistry()
			healthRegistry.Register(health.NewPingChecker("mongodb", adapter))

			srv := server.NewAPIServer(server.Config{
				Port:         cfg.HTTP.Port,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
				IdleTimeout:  cfg.HTTP.IdleTimeout,
			}, r, log, healthRegistry, metrics.NewRegistry())

			zipCtrl.RegisterRoutes(srv.Router)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("service starting",
				"name", cfg.Service.Name,
				"environment", cfg.Service.Environment,
				"version", version.String(),
				"router", cfg.RouterType,
			)
			return srv.Start(ctx)
		},
	}
}

// seedDocument matches one line of a line-delimited JSON dump such as the
// standard zips.json dataset. Geolocation data is dropped on import.
type seedDocument struct {
	ID         string `json:"_id"`
	City       string `json:"city"`
	State      string `json:"state"`
	Population int    `json:"pop"`
}

func newSeedCommand(configFile *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import zip code documents from a line-delimited JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configFile)
			if err != nil {
				return err
			}

			adapter, err := mongostore.NewAdapter(cfg.MongoDB, log)
			if err != nil {
				return err
			}
			defer adapter.Close()

			repo, err := newRepository(adapter)
			if err != nil {
				return err
			}

			if err := security.CheckFilePath(file, ""); err != nil {
				return fmt.Errorf("invalid seed file path: %w", err)
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close()

			imported, skipped := 0, 0
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}

				var doc seedDocument
				if err := json.Unmarshal(line, &doc); err != nil {
					return fmt.Errorf("malformed seed document: %w", err)
				}

				record := zipcode.Record{
					ID:         doc.ID,
					City:       doc.City,
					State:      doc.State,
					Population: doc.Population,
				}
				if err := repo.Create(cmd.Context(), record); err != nil {
					if err == zipcode.ErrDuplicateID {
						skipped++
						continue
					}
					return err
				}
				imported++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}

			log.Info("seed complete", "imported", imported, "skipped", skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "zips.json", "path to the line-delimited JSON file")
	return cmd
}

func newExportCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write all zip code records to stdout as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configFile)
			if err != nil {
				return err
			}

			adapter, err := mongostore.NewAdapter(cfg.MongoDB, log)
			if err != nil {
				return err
			}
			defer adapter.Close()

			repo, err := newRepository(adapter)
			if err != nil {
				return err
			}

			records, err := repo.All(cmd.Context(), zipcode.FilterSpec{}, zipcode.NewSortSpec(zipcode.SortKey{Field: "state"}, zipcode.SortKey{Field: "city"}))
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(records)
			if err != nil {
				return fmt.Errorf("failed to marshal records: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}

func loadRuntime(configFile string) (*config.Config, *logger.ZapLogger, error) {
	cfg, err := config.NewViperLoader(configFile, envPrefix).Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewZapLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newRepository(adapter *mongostore.Adapter) (*zipcode.Repository, error) {
	executor, err := zipcode.NewMongoExecutor(adapter, zipcode.Collection)
	if err != nil {
		return nil, err
	}
	return zipcode.NewRepository(executor)
}
