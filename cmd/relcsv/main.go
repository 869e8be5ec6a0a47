package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/relcsv/relcsv"
	"github.com/relcsv/relcsv/internal/ast"
)

var (
	outDir   string
	stream   bool
	printAST bool
	loadURL  string
)

var rootCmd = &cobra.Command{
	Use:   "relcsv [file]",
	Short: "Convert a JSON document into relational CSV tables",
	Long: `relcsv reads a JSON document (from a file or stdin) and decomposes it
into relational tables: one CSV file per distinct nesting position, with
synthetic primary and foreign keys encoding the original structure.
Arrays of objects become child tables, arrays of scalars become junction
tables. Optionally the tables are imported straight into a database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "Directory CSV files are written into")
	rootCmd.Flags().BoolVar(&stream, "stream", false, "Flush rows to files as they are generated instead of buffering")
	rootCmd.Flags().BoolVar(&printAST, "print-ast", false, "Dump the parsed document tree to stdout before converting")
	rootCmd.Flags().StringVar(&loadURL, "load", "", "Database URL (postgres://, mysql://, or sqlite://) to import the tables into")
}

func run(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close input file: %v\n", err)
			}
		}()
		in = f
	}

	sess, err := relcsv.Convert(in)
	if err != nil {
		return err
	}

	if printAST {
		ast.Fprint(os.Stdout, sess.Document())
	}

	opts := &relcsv.OutputOptions{
		OutputDir: outDir,
		Streaming: stream,
	}
	if err := relcsv.WriteTables(sess, opts); err != nil {
		return err
	}

	if loadURL != "" {
		if err := relcsv.LoadDatabase(context.Background(), sess, loadURL); err != nil {
			return fmt.Errorf("failed to load database: %w", err)
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
