package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/mathexpr/pkg/expr/lexer"
	"github.com/agenthands/mathexpr/pkg/expr/parser"
	"github.com/agenthands/mathexpr/pkg/expr/term"
)

var (
	flagNoSplit bool
	flagSeed    int64
	flagConfig  string
	flagVars    []string

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type config struct {
	Split *bool              `yaml:"split"`
	Seed  *int64             `yaml:"seed"`
	Vars  map[string]float64 `yaml:"vars"`
}

func main() {
	root := &cobra.Command{
		Use:           "mathexpr",
		Short:         "Parse and evaluate math expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagNoSplit, "no-split", false, "disable identifier/factor splitting")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "seed for {a|b} alternative groups (0 = process-wide source)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")

	root.AddCommand(tokensCmd(), parseCmd(), evalCmd(), replCmd(), watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// loadConfig merges the optional YAML config file under the flags:
// explicit flags win.
func loadConfig() (config, error) {
	var cfg config
	if flagConfig == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", flagConfig, err)
	}
	return cfg, nil
}

func parserOptions(cfg config) []parser.Option {
	split := !flagNoSplit
	if cfg.Split != nil && !flagNoSplit {
		split = *cfg.Split
	}
	seed := flagSeed
	if seed == 0 && cfg.Seed != nil {
		seed = *cfg.Seed
	}
	opts := []parser.Option{parser.SplitIdentifiers(split)}
	if seed != 0 {
		opts = append(opts, parser.WithRand(rand.New(rand.NewSource(seed))))
	}
	return opts
}

// buildEnv collects variable bindings from the config file and --var
// flags, flags last.
func buildEnv(cfg config) (term.Env, error) {
	env := term.Env{}
	for name, v := range cfg.Vars {
		env[name] = numValue(v)
	}
	for _, binding := range flagVars {
		name, raw, ok := strings.Cut(binding, "=")
		if !ok {
			return nil, fmt.Errorf("--var wants name=value, got %q", binding)
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("--var %s: %w", name, err)
		}
		env[strings.TrimSpace(name)] = numValue(f)
	}
	return env, nil
}

func numValue(f float64) term.Value {
	if f == float64(int64(f)) {
		return term.IntValue(int64(f))
	}
	return term.RealValue(f)
}

func tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <expression>",
		Short: "Dump the post-processed token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p := parser.New(args[0], term.Builder{}, parserOptions(cfg)...)
			for _, tok := range p.Tokens() {
				if tok.IsEOS() {
					fmt.Println(dimStyle.Render("<eos>"))
					continue
				}
				fmt.Printf("%q\n", string(tok))
			}
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an expression and print its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			t, err := term.Parse(args[0], parserOptions(cfg)...)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(t.String()))
			return nil
		},
	}
}

func evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Parse and evaluate an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			env, err := buildEnv(cfg)
			if err != nil {
				return err
			}
			t, err := term.Parse(args[0], parserOptions(cfg)...)
			if err != nil {
				return err
			}
			v, err := term.Eval(t, env)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(v.Format()))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&flagVars, "var", nil, "variable binding name=value (repeatable)")
	return cmd
}

// blank reports whether the input lexes to nothing but the sentinel.
func blank(source string) bool {
	toks := lexer.Tokenize(source)
	return len(toks) == 1 && toks[0].IsEOS()
}
