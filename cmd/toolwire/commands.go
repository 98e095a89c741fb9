package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolwire"
)

func decodeCmd(a *app) *cobra.Command {
	var redact, check bool

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Extract tool calls from a response (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			calls, err := a.registry.Decode(string(text))
			if err != nil {
				return err
			}
			for i, call := range calls {
				if check {
					if err := a.registry.Check(call); err != nil {
						a.logger.Warn("tool call rejected", "tool", call.Name, "error", err)
					}
				}
				if redact {
					calls[i] = call.Redact(a.cfg.Privacy)
				}
			}
			if calls == nil {
				calls = []toolwire.ToolCall{}
			}
			return writeJSON(cmd.OutOrStdout(), calls)
		},
	}

	cmd.Flags().BoolVar(&redact, "redact", false, "Redact parameters with the configured privacy pairs")
	cmd.Flags().BoolVar(&check, "check", false, "Warn about calls that do not match their tool schema")
	return cmd
}

func redactCmd(a *app) *cobra.Command {
	return privacyCmd(a, "redact", "Replace private values with placeholders", toolwire.Redact, toolwire.RedactString)
}

func restoreCmd(a *app) *cobra.Command {
	return privacyCmd(a, "restore", "Put private values back in place of placeholders", toolwire.Restore, toolwire.RestoreString)
}

func privacyCmd(
	a *app,
	name, short string,
	value func(any, []toolwire.PrivacyPair) any,
	text func(string, []toolwire.PrivacyPair) string,
) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   name + " [file]",
		Short: short,
		Long:  short + ". Input is a JSON value unless --text is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if raw {
				_, err := io.WriteString(cmd.OutOrStdout(), text(string(in), a.cfg.Privacy))
				return err
			}
			var v any
			if err := json.Unmarshal(in, &v); err != nil {
				return fmt.Errorf("input is not JSON (use --text for plain text): %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), value(v, a.cfg.Privacy))
		},
	}

	cmd.Flags().BoolVar(&raw, "text", false, "Treat input as plain text")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	var tool string
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check the config, or tool parameters against a tool schema",
		Long: `Without --tool, checks that every tool schema compiles and that the
privacy pairs round-trip. With --tool, validates JSON parameters (file or
stdin) against that tool's schema.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if tool == "" {
				if err := a.validateConfig(); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ %d tools, %d privacy pairs\n", len(a.cfg.Tools), len(a.cfg.Privacy))
				return nil
			}

			def, ok := a.registry.Get(tool)
			if !ok {
				return fmt.Errorf("%w: %q", toolwire.ErrToolNotFound, tool)
			}
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var params any
			if err := json.Unmarshal(in, &params); err != nil {
				return fmt.Errorf("parameters are not JSON: %w", err)
			}

			if strict && def.Parameters != nil {
				checker, err := toolwire.NewSchemaChecker(def.Parameters, true)
				if err != nil {
					return err
				}
				err = checker.Check(params)
				if err != nil {
					return err
				}
			} else if err := a.registry.Check(toolwire.ToolCall{Name: tool, Format: def.Format, Parameters: params}); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ %s\n", tool)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tool, "tool", "t", "", "Tool whose schema to validate against")
	cmd.Flags().BoolVar(&strict, "strict", false, "Full JSON Schema validation, undeclared keys rejected")
	return cmd
}

func (a *app) validateConfig() error {
	for _, def := range a.cfg.Tools {
		if def.Parameters == nil {
			continue
		}
		if _, err := toolwire.NewSchemaChecker(def.Parameters, false); err != nil {
			return fmt.Errorf("tool %q: %w", def.Name, err)
		}
	}
	return toolwire.CheckPairs(a.cfg.Privacy)
}

func schemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of every configured tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make(map[string]any, len(a.cfg.Tools))
			for _, def := range a.registry.Definitions() {
				out[def.Name] = map[string]any{
					"type":       def.Format,
					"parameters": def.Parameters.JSONSchema(),
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

// readInput reads the file named by args[0], or stdin when absent or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
