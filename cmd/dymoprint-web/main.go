package main

import (
	"log"
	"net/http"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"dymoprint/pkg/compose"
	"dymoprint/pkg/config"
	"dymoprint/pkg/device/remote"
	"dymoprint/pkg/device/virtual"
	"dymoprint/pkg/label"
	"dymoprint/pkg/locate"
	"dymoprint/pkg/render"
)

var confPath = flag.String("config", config.DefaultPath(), "config file")
var listen = flag.String("listen", "", "listen addr, overrides the config")
var dryRun = flag.Bool("dry-run", false, "log the command stream instead of printing")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	cfg, _, err := config.Load(afero.NewOsFs(), *confPath)
	if err != nil {
		log.Fatal(err)
	}
	if *listen != "" {
		cfg.Web.Listen = *listen
	}

	fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func(cfg *config.Config) (*zap.Logger, error) {
				return config.NewLogger(cfg.Log, *debug)
			},
			func() *http.Server {
				return &http.Server{Addr: cfg.Web.Listen}
			},
			render.Default,
			func(reg *render.Registry, cfg *config.Config, logger *zap.Logger) *compose.Composer {
				return compose.New(reg, logger, compose.WithFont(cfg.Fonts.Regular))
			},
			func(cfg *config.Config, logger *zap.Logger) *locate.Locator {
				return locate.New(afero.NewOsFs(), logger,
					locate.WithSysfsRoot(cfg.Device.SysfsRoot),
					locate.WithDevRoot(cfg.Device.DevRoot),
				)
			},
			func(cfg *config.Config, c *compose.Composer, l *locate.Locator, logger *zap.Logger) remote.Printer {
				var opts []label.Option
				if *dryRun {
					opts = append(opts, label.WithPort(virtual.Mock(logger)))
				}
				return label.NewService(cfg, c, l, logger, opts...)
			},
		),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}
