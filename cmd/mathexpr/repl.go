package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/mathexpr/pkg/expr/lexer"
	"github.com/agenthands/mathexpr/pkg/expr/term"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive read-eval-print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			env, err := buildEnv(cfg)
			if err != nil {
				return err
			}
			runRepl(cfg, env)
			return nil
		},
	}
}

func runRepl(cfg config, env term.Env) {
	fmt.Println(dimStyle.Render("mathexpr repl. 'x = expr' binds a variable, 'quit' exits."))
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("> "))
		if !in.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		}

		if name, expr, ok := splitBinding(line); ok {
			v, err := evalLine(cfg, env, expr)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			env[name] = v
			fmt.Println(dimStyle.Render(name+" = ") + resultStyle.Render(v.Format()))
			continue
		}

		v, err := evalLine(cfg, env, line)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		fmt.Println(resultStyle.Render(v.Format()))
	}
}

func evalLine(cfg config, env term.Env, source string) (term.Value, error) {
	t, err := term.Parse(source, parserOptions(cfg)...)
	if err != nil {
		return term.Value{}, err
	}
	return term.Eval(t, env)
}

// splitBinding recognizes "name = expr" lines. A bare "=" is not part
// of the expression grammar (only "=="), so a single unpaired "=" with
// an identifier on the left is unambiguous.
func splitBinding(line string) (name, expr string, ok bool) {
	idx := -1
	for i := 0; i < len(line); i++ {
		if line[i] != '=' {
			continue
		}
		if i+1 < len(line) && line[i+1] == '=' {
			i++ // skip "=="
			continue
		}
		if i > 0 && strings.ContainsRune("<>!=", rune(line[i-1])) {
			continue
		}
		idx = i
		break
	}
	if idx <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	if !lexer.Token(name).IsIdentifier() {
		return "", "", false
	}
	expr = strings.TrimSpace(line[idx+1:])
	if blank(expr) {
		return "", "", false
	}
	return name, expr, true
}
