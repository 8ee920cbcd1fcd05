// wanguard keeps a PPPoE uplink alive by retagging the router VLAN
// interface with the VLAN IDs the ONT presents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	wanguard "github.com/nanoncore/nano-wanguard"
	"github.com/nanoncore/nano-wanguard/config"
	"github.com/nanoncore/nano-wanguard/failover"
	"github.com/nanoncore/nano-wanguard/metrics"
	"github.com/nanoncore/nano-wanguard/pkg/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfgPath := flag.String("config", "", "config file path (or "+config.FileEnv+" env)")
	envHelp := flag.Bool("env-help", false, "print the environment variables and exit")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	if *envHelp {
		usage, err := config.Usage()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(usage)
		return
	}

	path := *cfgPath
	if path == "" {
		path = os.Getenv(config.FileEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.New("error").Fatal("Invalid configuration", "error", err)
	}

	l := logger.NewWithFormat(cfg.Log.Level, cfg.Log.Format)
	logger.SetupStdLog(l)

	if err := run(cfg, l, *once); err != nil {
		l.Fatal("wanguard stopped", "error", err)
	}
}

func run(cfg *config.Config, l logger.Interface, once bool) error {
	l.Info("wanguard starting",
		"version", Version,
		"ont_driver", cfg.ONT.Driver,
		"router_driver", cfg.Router.Driver,
		"link_probe", cfg.Router.Probe)

	drivers, err := wanguard.NewDrivers(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	orchestrator, err := failover.New(failover.Deps{
		Probe:      drivers.Probe,
		Discoverer: drivers.Discoverer,
		Applier:    drivers.Applier,
		Logger:     l,
	}, failover.Settings{
		VlanInterface:  cfg.Failover.VlanInterface,
		PPPoEInterface: cfg.Failover.PPPoEInterface,
		Interval:       cfg.CheckInterval(),
		ConnectWait:    cfg.Failover.ConnectWait,
		CheckDelay:     cfg.Failover.CheckDelay,
		Deduplicate:    cfg.Failover.Deduplicate,
	}, failover.WithRecorder(metrics.NewRecorder(reg)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		sweep := orchestrator.Tick(ctx)
		l.Info("Cycle finished", "outcome", string(sweep.Outcome), "elapsed", sweep.Elapsed.String())
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := orchestrator.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, reg)
		srv.ErrorLog = logger.ErrorLog(l)

		g.Go(func() error {
			l.Info("Serving metrics", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	l.Info("wanguard stopped")
	return err
}
