package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pricebook/adapters/jsonfile"
	"pricebook/app"
	"pricebook/domain/pricebook"
	"pricebook/internal"
	"pricebook/internal/config"
	"pricebook/internal/container"
	"pricebook/internal/errors"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if errors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.GetCode(err), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// verbose raises every command's logger to DEBUG
var verbose bool

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pricebook",
		Short:         "Convert a pricebook spreadsheet into the front-end JSON document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at DEBUG level")

	rootCmd.AddCommand(
		newConvertCmd(),
		newQueryCmd(),
		newStatsCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// loadContainer reads .env and the environment, then applies flag overrides
func loadContainer(input, output, sheet, port string) (*container.Container, error) {
	if err := config.LoadEnvFile(); err != nil {
		return nil, err
	}
	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	if input != "" {
		appConfig.Paths.InputFile = input
	}
	if output != "" {
		appConfig.Paths.OutputFile = output
	}
	if sheet != "" {
		appConfig.Paths.Sheet = sheet
	}
	if port != "" {
		appConfig.Server.Port = port
	}
	if err := config.Validate(appConfig); err != nil {
		return nil, err
	}
	c, err := container.New(appConfig)
	if err != nil {
		return nil, err
	}
	if verbose {
		c.Logger.SetLevel(internal.LogLevelDebug)
	}
	return c, nil
}

func newConvertCmd() *cobra.Command {
	var input, output, sheet string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Read the spreadsheet and write the JSON document",
		Long: `Read the first worksheet (or --sheet) of the input file, trim keys and
text values, format numbers with two decimals and write the result.

Example: pricebook convert --input input/pricebook.xlsx --output src/servicedata.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(input, output, sheet, "")
			if err != nil {
				return err
			}

			outcome := c.Converter.Convert(cmd.Context(), c.Request())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(outcome); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			}
			if !outcome.Success {
				return fmt.Errorf("conversion failed during %s", outcome.Phase)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Spreadsheet to read (default "+config.DefaultInputPath+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON file to write (default "+config.DefaultOutputPath+")")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default first sheet)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run outcome as JSON")

	return cmd
}

func newQueryCmd() *cobra.Command {
	var file string
	var where []string

	cmd := &cobra.Command{
		Use:   "query [expression]",
		Short: "Run a GJSON path expression against the written document",
		Long: `Query the JSON document produced by convert. --where keeps only records
whose field equals the value; without an expression the matching records are printed.

Example: pricebook query '#(City=="Pune").Rate'
         pricebook query --where Region=APAC '#.City'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer("", file, "", "")
			if err != nil {
				return err
			}
			path := c.Config.Paths.OutputFile

			if len(where) == 0 {
				if len(args) == 0 {
					return errors.InvalidInput("query needs an expression or --where")
				}
				result, err := c.Query.QueryFile(path, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
				return nil
			}

			match, err := parseWhere(where)
			if err != nil {
				return err
			}
			records, err := readDocument(path)
			if err != nil {
				return err
			}
			records = app.Filter(records, match)

			if len(args) == 0 {
				return pricebook.EncodeDocument(cmd.OutOrStdout(), records)
			}
			result, err := c.Query.QueryRecords(records, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Document to query (default "+config.DefaultOutputPath+")")
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Field filter KEY=VALUE (repeatable)")

	return cmd
}

// parseWhere turns KEY=VALUE pairs into an exact-match filter
func parseWhere(pairs []string) (map[string]string, error) {
	match := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid --where %q, want KEY=VALUE", pair))
		}
		match[key] = value
	}
	return match, nil
}

func readDocument(path string) ([]pricebook.Record, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("document %s", path))
	}
	records, err := jsonfile.ReadDocument(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return records, nil
}

func newStatsCmd() *cobra.Command {
	var input, sheet string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the numeric columns of the spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(input, "", sheet, "")
			if err != nil {
				return err
			}

			columns, records, err := c.Converter.Load(cmd.Context(), c.Config.Paths.InputFile, c.Config.Paths.Sheet)
			if err != nil {
				return err
			}
			summaries, err := c.Summary.Summarize(records)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows: %d\nColumns: %s\n", len(records), strings.Join(columns, ", "))
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No numeric columns")
				return nil
			}
			fmt.Fprintf(out, "%-24s %6s %6s %12s %12s %12s %12s\n", "COLUMN", "COUNT", "EMPTY", "MIN", "MAX", "MEAN", "MEDIAN")
			for _, s := range summaries {
				fmt.Fprintf(out, "%-24s %6d %6d %12.2f %12.2f %12.2f %12.2f\n",
					s.Column, s.Count, s.Empty, s.Min, s.Max, s.Mean, s.Median)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Spreadsheet to read (default "+config.DefaultInputPath+")")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default first sheet)")

	return cmd
}

func newServeCmd() *cobra.Command {
	var input, output, sheet, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Convert once and serve the records over HTTP",
		Long: `Run a conversion, then serve the result on /api/records, /api/query,
/api/summary and /api/status. POST /api/convert reruns the conversion.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(input, output, sheet, port)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			preview := c.PreviewApp()
			outcome := preview.Refresh(ctx)
			if outcome.Success {
				c.Logger.Info("%s", outcome.Message)
			} else {
				c.Logger.Warn("%s", outcome.Message)
			}

			return preview.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Spreadsheet to read (default "+config.DefaultInputPath+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON file to write (default "+config.DefaultOutputPath+")")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default first sheet)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default "+config.DefaultPort+")")

	return cmd
}
