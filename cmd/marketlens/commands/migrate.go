package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var migrateSchemaPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		schema, err := os.ReadFile(migrateSchemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}

		if _, err := a.db.Pool.Exec(cmd.Context(), string(schema)); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}

		a.log.WithField("path", migrateSchemaPath).Info("Schema applied")
		fmt.Println("Schema applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateSchemaPath, "schema", "db/schema.sql", "path to the schema file")
	rootCmd.AddCommand(migrateCmd)
}
