package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lowerer/internal/treedoc"
)

var convertCmd = &cobra.Command{
	Use:   "convert --to json|yaml|msgpack <input> [output]",
	Short: "Re-encode a tree document",
	Long: `Re-encode a tree document in another format. The document is validated on the way:
it must build into a tree. Without an output path the result goes to stdout; when --to is
omitted the format follows the output extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("to", "", "target format (json|yaml|msgpack)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := ""
	if len(args) == 2 {
		output = args[1]
	}

	toFlag, err := cmd.Flags().GetString("to")
	if err != nil {
		return fmt.Errorf("failed to get to flag: %w", err)
	}
	var target treedoc.Format
	switch {
	case toFlag != "":
		target, err = treedoc.ParseFormat(toFlag)
	case output != "":
		target, err = treedoc.FormatFromPath(output)
	default:
		err = fmt.Errorf("convert: --to is required when writing to stdout")
	}
	if err != nil {
		return err
	}

	data, err := convertDocument(input, target)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", output, target)
	}
	return nil
}

// convertDocument decodes input, checks that it builds, and encodes it as target.
func convertDocument(input string, target treedoc.Format) ([]byte, error) {
	source, err := treedoc.FormatFromPath(input)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	file, err := treedoc.Unmarshal(raw, source)
	if err != nil {
		return nil, fmt.Errorf("convert: %s: %w", input, err)
	}
	if _, err := file.Build(); err != nil {
		return nil, fmt.Errorf("convert: %s: %w", input, err)
	}
	return treedoc.Marshal(file, target)
}
