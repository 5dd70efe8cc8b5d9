package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/controller"
	"github.com/nikolayk812/storefront-cart/internal/logging"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/nikolayk812/storefront-cart/internal/page"
	"github.com/nikolayk812/storefront-cart/internal/storefront"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath string
	pagePath   string
	outPath    string
	baseURL    string
	verbose    bool
}

// app is everything a subcommand needs, built once per invocation.
type app struct {
	logger *zap.Logger
	doc    *page.Document
	ctrl   *controller.Controller
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     app
	)

	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Drive storefront cart actions from the command line",
		Long: `cartctl loads a storefront page, binds its add-to-cart forms and sends
add, update and remove calls to the storefront backend.

Outcomes are reported as alerts on stderr; remove also drops the item's row
from the page, which is written to --out when given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := buildApp(cmd, flags)
			if err != nil {
				return err
			}
			a = built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.pagePath, "page", "", "storefront HTML page to operate on")
	pf.StringVar(&flags.outPath, "out", "", "write the resulting page here")
	pf.StringVar(&flags.baseURL, "base-url", "", "storefront base URL (overrides config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newSubmitCmd(&a),
		newAddCmd(&a),
		newUpdateCmd(&a),
		newRemoveCmd(&a, &flags),
		newRowsCmd(&a),
	)

	return cmd
}

func buildApp(cmd *cobra.Command, flags rootFlags) (app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return app{}, fmt.Errorf("config.Load: %w", err)
	}
	if flags.baseURL != "" {
		cfg.Storefront.BaseURL = flags.baseURL
		if err := cfg.Validate(); err != nil {
			return app{}, err
		}
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return app{}, fmt.Errorf("logging.New: %w", err)
	}

	timeout, err := cfg.GetTimeout()
	if err != nil {
		return app{}, err
	}

	api, err := storefront.New(cfg.Storefront.BaseURL,
		storefront.WithTimeout(timeout),
		storefront.WithLogger(logger),
	)
	if err != nil {
		return app{}, fmt.Errorf("storefront.New: %w", err)
	}

	doc, err := loadPage(flags.pagePath, cfg.Page)
	if err != nil {
		return app{}, err
	}

	notifier := notify.NewConsole(logger, cmd.ErrOrStderr())

	ctrl, err := controller.New(api, notifier, doc, controller.WithMessages(messagesFromConfig(cfg.Messages)))
	if err != nil {
		return app{}, fmt.Errorf("controller.New: %w", err)
	}

	return app{logger: logger, doc: doc, ctrl: ctrl}, nil
}

// loadPage parses path, or an empty document when no page is given.
func loadPage(path string, pc config.PageConfig) (*page.Document, error) {
	opts := []page.Option{
		page.WithFormClass(pc.FormClass),
		page.WithProductIDAttr(pc.ProductIDAttr),
		page.WithRowIDPrefix(pc.RowIDPrefix),
	}

	if path == "" {
		return page.Parse(strings.NewReader(""), opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	doc, err := page.Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("page[%s]: %w", path, err)
	}

	return doc, nil
}

func writePage(doc *page.Document, path string, stdout io.Writer) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return doc.Render(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}

	if err := doc.Render(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func messagesFromConfig(m config.MessagesConfig) controller.Messages {
	return controller.Messages{
		Ready:         m.Ready,
		AddSuccess:    m.AddSuccess,
		AddError:      m.AddError,
		AddFailure:    m.AddFailure,
		UpdateSuccess: m.UpdateSuccess,
		UpdateError:   m.UpdateError,
		UpdateFailure: m.UpdateFailure,
		RemoveSuccess: m.RemoveSuccess,
		RemoveError:   m.RemoveError,
		RemoveFailure: m.RemoveFailure,
	}
}
