package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/khrees2412/hirepipe/internal/config"
	"github.com/khrees2412/hirepipe/internal/database"
	"github.com/khrees2412/hirepipe/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the platform API locally",
	Long: `Serve the platform API (auth, jobs, applications and pipelines) backed by
SQLite or PostgreSQL. Point api_base_url at it to use the CLI against real data.`,
	Example: `  hirepipe serve --seed
  hirepipe serve --port 9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		cfg := a.Config

		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.ServerPort
		}

		driver := cfg.ServerDBDriver
		dsn := cfg.ServerDBDSN
		if dsn == "" && driver == database.DriverSQLite {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			dsn = "file:" + filepath.Join(dir, "server.db") + "?_foreign_keys=on&_busy_timeout=5000"
		}
		db, err := database.Open(driver, dsn)
		if err != nil {
			return fmt.Errorf("open server database: %w", err)
		}
		defer db.Close()

		secret := cfg.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
			a.Logger.Warn("jwt_secret is not set, using a random secret; tokens will not survive a restart")
		}
		tokens, err := server.NewTokenIssuer(secret)
		if err != nil {
			return err
		}

		srv := server.New(database.NewRepository(db, driver), tokens, a.Logger)
		if seed, _ := cmd.Flags().GetBool("seed"); seed {
			if err := srv.Seed(cmd.Context()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			cmd.Println("✓ Seeded demo users, jobs, applications and pipelines")
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Listening on :%s", port)))
		return srv.Run(cmd.Context(), ":"+port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "Port to listen on (defaults to server_port)")
	serveCmd.Flags().Bool("seed", false, "Load the demo data before serving")
}
