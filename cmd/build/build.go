package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pgmodel/pgmodel/cmd/util"
	"github.com/pgmodel/pgmodel/internal/catalog"
	"github.com/pgmodel/pgmodel/internal/logger"
	"github.com/pgmodel/pgmodel/internal/model"
	"github.com/spf13/cobra"
)

var (
	host     string
	port     int
	db       string
	user     string
	password string
	schema   string
	file     string
)

var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the resolved schema model for a specific schema",
	Long:  "Introspect the database catalogs and output the resolved schema model as JSON. Uses the --schema flag to target a particular schema (defaults to 'public').",
	RunE:  runBuild,
}

func init() {
	BuildCmd.Flags().StringVar(&host, "host", "localhost", "Database server host")
	BuildCmd.Flags().IntVar(&port, "port", 5432, "Database server port")
	BuildCmd.Flags().StringVar(&db, "db", "", "Database name (required)")
	BuildCmd.Flags().StringVar(&user, "user", "", "Database user name (required)")
	BuildCmd.Flags().StringVar(&password, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	BuildCmd.Flags().StringVar(&schema, "schema", "public", "Schema name to resolve (default: public)")
	BuildCmd.Flags().StringVar(&file, "file", "", "Output file path (defaults to stdout)")
	BuildCmd.MarkFlagRequired("db")
	BuildCmd.MarkFlagRequired("user")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Derive final password: use flag if provided, otherwise check environment variable
	finalPassword := password
	if finalPassword == "" {
		finalPassword = os.Getenv("PGPASSWORD")
	}

	config := &util.ConnectionConfig{
		Host:            host,
		Port:            port,
		Database:        db,
		User:            user,
		Password:        finalPassword,
		SSLMode:         "prefer",
		ApplicationName: "pgmodel",
	}

	ctx := context.Background()

	conn, err := util.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer conn.Close()

	snapshot, err := catalog.NewIntrospector(conn).Introspect(ctx)
	if err != nil {
		return fmt.Errorf("failed to introspect catalogs: %w", err)
	}

	logger.Get().Debug("catalog snapshot read",
		"classes", len(snapshot.Classes),
		"attributes", len(snapshot.Attributes),
		"constraints", len(snapshot.Constraints),
		"types", len(snapshot.Types),
		"indexes", len(snapshot.Indexes),
		"procs", len(snapshot.Procs),
	)

	resolved, err := model.Resolve(snapshot, schema)
	if err != nil {
		return fmt.Errorf("failed to resolve model: %w", err)
	}

	out, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	out = append(out, '\n')

	if file != "" {
		if err := os.WriteFile(file, out, 0o644); err != nil {
			return fmt.Errorf("failed to write model: %w", err)
		}
		return nil
	}

	_, err = os.Stdout.Write(out)
	return err
}
