// Command nota reformats Nota documents and converts them to and from JSON
// and YAML. All commands read stdin unless -i is given, and write stdout
// unless -o is given.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	nota "github.com/notalang/nota-go"
	"github.com/notalang/nota-go/convert"
)

var (
	inputPath  string
	outputPath string
	indent     int
	reverse    bool
)

var rootCmd = &cobra.Command{
	Use:           "nota",
	Short:         "Nota is a tool for working with Nota documents.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite a document in canonical form",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput()
		if err != nil {
			return err
		}
		doc, err := nota.Parse(data)
		if err != nil {
			return err
		}
		return writeOutput(nota.SerializeWithOptions(doc, nota.SerializeOptions{Indent: indent}))
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Convert a document to JSON, or from JSON with --reverse",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(convert.ToJSON, convert.FromJSON)
	},
}

var yamlCmd = &cobra.Command{
	Use:   "yaml",
	Short: "Convert a document to YAML, or from YAML with --reverse",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(convert.ToYAML, convert.FromYAML)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nota",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("nota v0.1")
	},
}

func runConvert(to func(*nota.Value) ([]byte, error), from func([]byte) (*nota.Value, error)) error {
	data, err := readInput()
	if err != nil {
		return err
	}
	if reverse {
		doc, err := from(data)
		if err != nil {
			return err
		}
		return writeOutput(nota.SerializeWithOptions(doc, nota.SerializeOptions{Indent: indent}))
	}
	doc, err := nota.Parse(data)
	if err != nil {
		return err
	}
	out, err := to(doc)
	if err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return writeOutput(out)
}

func readInput() ([]byte, error) {
	if inputPath == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(inputPath)
}

func writeOutput(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func init() {
	for _, cmd := range []*cobra.Command{fmtCmd, jsonCmd, yamlCmd} {
		cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input file path (default stdin)")
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path (default stdout)")
		cmd.Flags().IntVar(&indent, "indent", 2, "indentation width for Nota output")
	}
	jsonCmd.Flags().BoolVar(&reverse, "reverse", false, "convert from JSON to Nota")
	yamlCmd.Flags().BoolVar(&reverse, "reverse", false, "convert from YAML to Nota")
	rootCmd.AddCommand(fmtCmd, jsonCmd, yamlCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
