package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/agenthands/mathexpr/pkg/expr/term"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse and re-evaluate an expression file on every change",
		Long: "Watches a file holding one expression per line ('#' starts a comment)\n" +
			"and reports parse results whenever the file is written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			env, err := buildEnv(cfg)
			if err != nil {
				return err
			}
			return watchFile(args[0], cfg, env)
		},
	}
	cmd.Flags().StringArrayVar(&flagVars, "var", nil, "variable binding name=value (repeatable)")
	return cmd
}

func watchFile(path string, cfg config, env term.Env) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save
	// and the watch would be lost with them.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	reportFile(path, cfg, env)

	target := filepath.Clean(path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Println(dimStyle.Render("--- " + path + " changed"))
			reportFile(path, cfg, env)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, errorStyle.Render("watch: "+err.Error()))
		}
	}
}

func reportFile(path string, cfg config, env term.Env) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return
	}
	for n, line := range strings.Split(string(data), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, err := term.Parse(line, parserOptions(cfg)...)
		if err != nil {
			fmt.Printf("%3d: %s\n", n+1, errorStyle.Render(err.Error()))
			continue
		}
		v, err := term.Eval(t, env)
		if err != nil {
			fmt.Printf("%3d: %s %s\n", n+1, t.String(), errorStyle.Render("("+err.Error()+")"))
			continue
		}
		fmt.Printf("%3d: %s %s\n", n+1, t.String(), resultStyle.Render("= "+v.Format()))
	}
}
