package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// documentGlob matches résumé files offered as positional arguments.
const documentGlob = "*.json,*.yaml,*.yml"

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool { return f.Type != flagBool }

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string   // glob for file arguments, empty if none
	Words       []string // fixed positional words, e.g. shell names
}

// completionMeta holds completion hints for flags. Names, types and
// descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"template":   {Values: builtinTemplates},
	"page-size":  {Values: []string{"A4", "Letter"}},
	"measurer":   {Values: []string{"metrics", "browser"}},
	"config":     {FileGlob: "*.yaml,*.yml"},
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// buildFlagSet registers the flags of cmd on a throwaway FlagSet.
func buildFlagSet(cmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	switch cmd {
	case cmdRender, cmdExport:
		addConvertFlags(fs, cmd, &convertFlags{})
	case cmdTemplates:
		addTemplatesFlags(fs, &templatesFlags{})
	case cmdValidate:
		addCommonFlags(fs, &commonFlags{})
	case cmdDoctor:
		fs.Bool("json", false, "output JSON")
	}
	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	flagsFor := func(cmd string) []flagDef { return extractFlagsFromFlagSet(buildFlagSet(cmd)) }

	return []commandDef{
		{Name: cmdRender, Desc: "Render résumés to paginated HTML", Flags: flagsFor(cmdRender), FilePattern: documentGlob},
		{Name: cmdExport, Desc: "Export résumés to DOCX and PDF", Flags: flagsFor(cmdExport), FilePattern: documentGlob},
		{Name: cmdTemplates, Desc: "List available templates", Flags: flagsFor(cmdTemplates)},
		{Name: cmdValidate, Desc: "Check résumé files", Flags: flagsFor(cmdValidate), FilePattern: documentGlob},
		{Name: cmdSchema, Desc: "Print the résumé JSON schema"},
		{Name: cmdDoctor, Desc: "Check system configuration", Flags: flagsFor(cmdDoctor)},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdHelp, Desc: "Show help for a command", Words: commandNames()},
		{Name: cmdCompletion, Desc: "Generate shell completion script", Words: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}},
	}
}

// commandNames lists every command in usage order.
func commandNames() []string {
	return []string{cmdRender, cmdExport, cmdTemplates, cmdValidate, cmdSchema, cmdDoctor, cmdVersion, cmdHelp, cmdCompletion}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// globExts turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExts(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

// flagWords lists the spellings of a flag, long first.
func flagWords(f flagDef) []string {
	words := []string{"--" + f.Long}
	if f.Short != "" {
		words = append(words, "-"+f.Short)
	}
	return words
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for cvkit\n")
	b.WriteString("_cvkit_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(commandNames(), " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		writeBashFlagValues(&b, c.Flags)

		var words []string
		for _, f := range c.Flags {
			words = append(words, flagWords(f)...)
		}
		if len(words) > 0 {
			b.WriteString("        if [[ ${cur} == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(words, " "))
			b.WriteString("            return 0\n")
			b.WriteString("        fi\n")
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") )\n", strings.Join(globExts(c.FilePattern), "|"))
		case len(c.Words) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(c.Words, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -o filenames -o plusdirs -F _cvkit_completions cvkit\n")
	return b.String()
}

// writeBashFlagValues completes the value after a flag that takes one.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var cases []string
	for _, f := range flags {
		if !f.takesValue() {
			continue
		}
		pattern := strings.Join(flagWords(f), "|")
		switch f.Type {
		case flagEnum:
			cases = append(cases, fmt.Sprintf("            %s) COMPREPLY=( $(compgen -W %q -- \"${cur}\") ); return 0 ;;", pattern, strings.Join(f.Values, " ")))
		case flagFile:
			cases = append(cases, fmt.Sprintf("            %s) COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"${cur}\") ); return 0 ;;", pattern, strings.Join(globExts(f.FileGlob), "|")))
		case flagDir:
			cases = append(cases, fmt.Sprintf("            %s) COMPREPLY=( $(compgen -d -- \"${cur}\") ); return 0 ;;", pattern))
		default:
			cases = append(cases, fmt.Sprintf("            %s) return 0 ;;", pattern))
		}
	}
	if len(cases) == 0 {
		return
	}
	b.WriteString("        case \"${prev}\" in\n")
	b.WriteString(strings.Join(cases, "\n"))
	b.WriteString("\n        esac\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

var zshReplacer = strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef cvkit\n\n")
	b.WriteString("_cvkit() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshReplacer.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=$words[2]\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case $cmd in\n")

	for _, c := range cmds {
		var specs []string
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpecs(f)...)
		}
		switch {
		case c.FilePattern != "":
			specs = append(specs, fmt.Sprintf("'*:file:_files -g \"*.(%s)\"'", strings.Join(globExts(c.FilePattern), "|")))
		case len(c.Words) > 0:
			specs = append(specs, fmt.Sprintf("'1:%s:(%s)'", c.Name, strings.Join(c.Words, " ")))
		}
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n            ")
		b.WriteString(strings.Join(specs, " \\\n            "))
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_cvkit \"$@\"\n")
	return b.String()
}

// zshFlagSpecs returns _arguments specs for one flag.
func zshFlagSpecs(f flagDef) []string {
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"*.(%s)\"", f.Long, strings.Join(globExts(f.FileGlob), "|"))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	default:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	desc := zshReplacer.Replace(f.Desc)
	if f.Short == "" {
		return []string{fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)}
	}
	return []string{fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)}
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

var fishReplacer = strings.NewReplacer("'", `\'`)

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for cvkit\n")
	b.WriteString("function __fish_cvkit_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_cvkit_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c cvkit -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c cvkit -n __fish_cvkit_needs_command -a %s -d '%s'\n", c.Name, fishReplacer.Replace(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_cvkit_using_command %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c cvkit -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile, flagDir:
				line += " -r -F"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishReplacer.Replace(f.Desc))
			b.WriteString(line + "\n")
		}
		if c.FilePattern != "" {
			for _, ext := range globExts(c.FilePattern) {
				fmt.Fprintf(&b, "complete -c cvkit -n %s -k -a '(__fish_complete_suffix .%s)'\n", cond, ext)
			}
		}
		if len(c.Words) > 0 {
			fmt.Fprintf(&b, "complete -c cvkit -n %s -x -a '%s'\n", cond, strings.Join(c.Words, " "))
		}
	}
	return b.String()
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cvkit completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(cvkit completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(cvkit completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    cvkit completion fish > ~/.config/fish/completions/cvkit.fish")
}
