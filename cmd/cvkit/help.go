package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvkit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render résumés to paginated HTML previews")
	fmt.Fprintln(w, "  export     Export résumés to DOCX (and PDF with --pdf)")
	fmt.Fprintln(w, "  templates  List available templates")
	fmt.Fprintln(w, "  validate   Check résumé files without rendering")
	fmt.Fprintln(w, "  schema     Print the résumé JSON schema")
	fmt.Fprintln(w, "  doctor     Check system configuration for PDF export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cvkit help <command>' for details on a specific command.")
}

// printConvertFlags prints the flags render and export share.
func printConvertFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto, max 8)")
	fmt.Fprintln(w, "      --timeout <d>         Browser timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show pages and timing")
}

// printRenderFlags prints template and paper flags.
func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Template:")
	fmt.Fprintln(w, "  -t, --template <s>        Template name or id (default: classic)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Override paper: A4, Letter")
	fmt.Fprintln(w, "      --measurer <s>        Pagination measurer: metrics, browser")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom template/shell directory")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvkit render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render résumés to paginated HTML, one .html file per document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    JSON/YAML résumé or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	printConvertFlags(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvkit export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export résumés to DOCX. With --pdf, also print each one to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    JSON/YAML résumé or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "      --pdf                 Also print a PDF (requires Chrome)")
	fmt.Fprintln(w)
	printConvertFlags(w)
}

// printTemplatesUsage prints usage for the templates command.
func printTemplatesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvkit templates [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List templates by id, name, layout and paper.")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printValidateUsage prints usage for the validate command.
func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvkit validate <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check résumé files against the schema and section rules.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show invalid files")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdRender:
		printRenderUsage(env.Stdout)
	case cmdExport:
		printExportUsage(env.Stdout)
	case cmdTemplates:
		printTemplatesUsage(env.Stdout)
	case cmdValidate:
		printValidateUsage(env.Stdout)
	case cmdSchema:
		fmt.Fprintln(env.Stdout, "Usage: cvkit schema")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the JSON schema résumé files are checked against.")
	case cmdDoctor:
		fmt.Fprintln(env.Stdout, "Usage: cvkit doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, container and temp directory setup.")
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: cvkit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: cvkit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
