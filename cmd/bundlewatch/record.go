package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func newRecordCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record bundle executions into local history",
		Long: `Record bundle executions reported by the bundler. The input is a JSON
execution object or an array of them; use --file - to read stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			execs, err := parseExecutions(data)
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), 0)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.local == nil {
				return errLocalOnly
			}

			recorded, err := rt.local.Record(cmd.Context(), execs...)
			if err != nil {
				return err
			}
			if rt.cached != nil {
				if err := rt.cached.Invalidate(cmd.Context()); err != nil {
					logger.Warn("Cache invalidation failed", "error", err)
				}
			}
			for _, e := range recorded {
				fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON input file, - for stdin")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// parseExecutions accepts a single execution or an array of them.
func parseExecutions(data []byte) ([]metrics.BundleExecution, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("input is not valid JSON")
	}
	var execs []metrics.BundleExecution
	switch root := gjson.ParseBytes(data); {
	case root.IsArray():
		if err := json.Unmarshal(data, &execs); err != nil {
			return nil, fmt.Errorf("decode executions: %w", err)
		}
	case root.IsObject():
		var e metrics.BundleExecution
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode execution: %w", err)
		}
		execs = append(execs, e)
	default:
		return nil, fmt.Errorf("expected a JSON object or array, got %s", root.Type)
	}
	if len(execs) == 0 {
		return nil, fmt.Errorf("no executions in input")
	}
	return execs, nil
}
