//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/golang/glog"

	"card10/app"
	"card10/hal"
	"card10/internal/buildinfo"
	"card10/internal/config"
	"card10/internal/serialport"
	"card10/internal/shell"
	"card10/internal/telemetry"
)

type options struct {
	configPath string
	mode       string
	trace      bool

	start  string
	hz     int
	ticks  uint64
	serial string
	broker string
}

func main() {
	_ = flag.Set("logtostderr", "true")

	var opts options
	var version bool
	flag.StringVar(&opts.configPath, "config", "", "YAML config file.")
	flag.StringVar(&opts.mode, "mode", "window", "Run mode: window, headless or shell.")
	flag.BoolVar(&opts.trace, "trace", false, "Log every firmware call (with -v=2).")
	flag.StringVar(&opts.start, "start", "", "Payload started first (default from config).")
	flag.IntVar(&opts.hz, "hz", 0, "Tick rate in headless mode.")
	flag.Uint64Var(&opts.ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&opts.serial, "serial", "", "Serial device bridged to the UART.")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker URL for sensor telemetry.")
	flag.BoolVar(&version, "version", false, "Print the build stamp and exit.")
	flag.Parse()
	defer glog.Flush()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, opts, flag.Args()); err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags set on the
// command line over it.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			cfg.Payloads.Start = opts.start
		case "hz":
			cfg.Headless.Hz = opts.hz
		case "ticks":
			cfg.Headless.Ticks = opts.ticks
		case "serial":
			cfg.UART.Device = opts.serial
		case "broker":
			cfg.Telemetry.Broker = opts.broker
		}
	})
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, opts options, args []string) error {
	interactive := opts.mode == "shell"
	host := hal.NewHost(hal.HostConfig{
		Sim: hal.SimConfig{
			SyntheticSensors: cfg.Sensors.Synthetic,
			SensorQueue:      cfg.Sensors.Queue,
			UARTInputLimit:   cfg.UART.InputLimit,
		},
		EchoUART: cfg.UART.Echo && !interactive,
		Trace:    opts.trace,
	})
	hal.Install(host)

	for _, f := range cfg.Payloads.Files {
		kind, _ := hal.ParseFileKind(f.Kind)
		host.Sim.Loader.Install(f.Path, kind)
	}

	if cfg.UART.Device != "" {
		port, err := serialport.Open(&serialport.Config{
			Device:      cfg.UART.Device,
			Baud:        cfg.UART.Baud,
			ReadTimeout: 100,
		})
		if err != nil {
			return err
		}
		defer func() { _ = port.Close() }()
		go func() {
			if err := serialport.Attach(ctx, port, host.Sim.UART); err != nil {
				glog.Warningf("uart: %s: %v", cfg.UART.Device, err)
			}
		}()
	}

	if cfg.Telemetry.Broker != "" {
		pub, prefix, err := telemetry.Dial(cfg.Telemetry.Broker, cfg.Telemetry.ClientID, cfg.Telemetry.QoS)
		if err != nil {
			return err
		}
		defer func() { _ = pub.Close() }()
		device := cfg.Telemetry.ClientID
		if device == "" {
			device = telemetry.DeviceID()
		}
		topic := strings.Trim(prefix+"/"+cfg.Telemetry.Topic, "/")
		bridge := telemetry.NewBridge(pub, topic, device, cfg.Telemetry.Queue)
		host.Sim.IMU.SetTap(bridge.Tap)
		go func() { _ = bridge.Run(ctx) }()
		glog.Infof("telemetry: publishing to %s/%s", topic, device)
	}

	if interactive {
		sh := shell.New(host.Sim)
		sh.SetOutput(os.Stdout)
		return sh.Run(args...)
	}

	if cfg.UART.Stdin {
		host.PumpInput(ctx, os.Stdin)
	}

	sup := app.NewSupervisor(host.Sim, app.Default(), host.Logger())
	payloads := func(ctx context.Context) error {
		return sup.Run(ctx, cfg.Payloads.Start)
	}

	switch opts.mode {
	case "window":
		return hal.RunWindow(ctx, host, hal.WindowConfig{
			Scale:       cfg.Window.Scale,
			ConsoleRows: cfg.Window.ConsoleRows,
		}, payloads)
	case "headless":
		return hal.RunHeadless(ctx, host, hal.HeadlessConfig{
			Hz:    cfg.Headless.Hz,
			Ticks: cfg.Headless.Ticks,
		}, payloads)
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}
