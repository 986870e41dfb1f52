package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/xraph/ormfactory"
	"github.com/xraph/ormfactory/cache"
	"github.com/xraph/ormfactory/internal/config"
	"github.com/xraph/ormfactory/mapping"
)

var (
	section string
	key     string
	watch   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Build one cache or driver from the configuration file",
	Args:  cobra.NoArgs,
	RunE:  resolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&section, "section", "s", ormfactory.SectionCache, "configuration section (cache or driver)")
	resolveCmd.Flags().StringVarP(&key, "key", "k", ormfactory.DefaultConfigKey, "configuration key")
	resolveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild whenever the configuration file changes")
	rootCmd.AddCommand(resolveCmd)
}

func resolve(cmd *cobra.Command, _ []string) error {
	if section != ormfactory.SectionCache && section != ormfactory.SectionDriver {
		return fmt.Errorf("unknown section %q", section)
	}

	if err := build(cmd.OutOrStdout()); err != nil {
		if !watch {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), BoldRed("error:"), err)
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchConfig(ctx, cmd)
}

// build loads the configuration file and builds section.key from it.
func build(out io.Writer) error {
	raw, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c := ormfactory.NewContainer()
	if err := c.RegisterValue(ormfactory.ConfigService, raw); err != nil {
		return err
	}

	opts := []ormfactory.Option{ormfactory.WithLogger(newLogger())}

	switch section {
	case ormfactory.SectionCache:
		obj, err := ormfactory.NewCacheFactory(key, opts...).Create(c)
		if err != nil {
			return err
		}
		describeCache(out, obj)
		if closer, ok := obj.(cache.Closer); ok {
			return closer.Close()
		}
	case ormfactory.SectionDriver:
		driver, err := ormfactory.NewDriverFactory(key, opts...).Create(c)
		if err != nil {
			return err
		}
		return describeDriver(out, driver)
	}
	return nil
}

func describeCache(out io.Writer, obj cache.Cache) {
	fmt.Fprintf(out, "%s %s\n", Bold(ormfactory.ServiceName(section, key)), Cyan(fmt.Sprintf("%T", obj)))
	if ns, ok := obj.(cache.NamespaceSetter); ok {
		fmt.Fprintf(out, "  %s %q\n", Gray("namespace:"), ns.Namespace())
	}
	if chain, ok := obj.(*cache.ChainCache); ok {
		for i, p := range chain.Providers() {
			fmt.Fprintf(out, "  %s %T\n", Gray(fmt.Sprintf("provider[%d]:", i)), p)
		}
	}
}

func describeDriver(out io.Writer, driver mapping.Driver) error {
	fmt.Fprintf(out, "%s %s\n", Bold(ormfactory.ServiceName(section, key)), Cyan(fmt.Sprintf("%T", driver)))
	if aware, ok := driver.(mapping.LocatorAware); ok {
		loc := aware.Locator()
		fmt.Fprintf(out, "  %s %v\n", Gray("paths:"), loc.Paths())
		fmt.Fprintf(out, "  %s %s\n", Gray("extension:"), loc.FileExtension())
	}

	names, err := driver.AllClassNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %s %s\n", Gray("class:"), Green(name))
	}
	return nil
}

// watchConfig rebuilds on every write to the configuration file until ctx is done.
func watchConfig(ctx context.Context, cmd *cobra.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), Gray("reloading "+cfgPath))
			if err := build(cmd.OutOrStdout()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), BoldRed("error:"), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), BoldRed("watch error:"), err)
		}
	}
}
