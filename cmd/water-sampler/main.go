// Command water-sampler controls a six-pump water sampling rig: it arms a
// timed pump sequence when the float switch detects water, lets the
// operator edit offsets and runtime through three buttons, and publishes
// telemetry to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/water-sampler/internal/config"
	"github.com/sweeney/water-sampler/internal/display"
	"github.com/sweeney/water-sampler/internal/editor"
	"github.com/sweeney/water-sampler/internal/gpio"
	"github.com/sweeney/water-sampler/internal/input"
	"github.com/sweeney/water-sampler/internal/metrics"
	"github.com/sweeney/water-sampler/internal/mqtt"
	"github.com/sweeney/water-sampler/internal/sequence"
	"github.com/sweeney/water-sampler/internal/status"
	"github.com/sweeney/water-sampler/internal/store"
	"github.com/sweeney/water-sampler/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (built-in defaults when empty)")
	broker := flag.String("broker", "", `MQTT broker address (overrides config, "off" disables)`)
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" disables)`)
	dbPath := flag.String("db", "", "Settings database path (overrides config)")
	printSettings := flag.Bool("print-settings", false, "Print persisted settings and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg = applyOverrides(cfg, *broker, *httpAddr, *dbPath)

	if err := run(cfg, *printSettings); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverrides folds command-line overrides into the loaded config.
// "off" disables the corresponding subsystem.
func applyOverrides(cfg config.Config, broker, httpAddr, dbPath string) config.Config {
	switch broker {
	case "":
	case "off":
		cfg.Broker = ""
	default:
		cfg.Broker = broker
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTPAddr = ""
	default:
		cfg.HTTPAddr = httpAddr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func run(cfg config.Config, printSettings bool) error {
	storage, err := store.OpenBolt(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open settings db: %w", err)
	}
	defer storage.Close()

	settings := store.NewSettings(storage)
	if err := settings.Load(); err != nil {
		// Degraded mode: zero offsets, surfaced on the display and web page.
		log.Printf("settings load failed, continuing with defaults: %v", err)
	}

	if printSettings {
		for i := 0; i < store.NumPumps; i++ {
			fmt.Printf("Pump %d offset: %s\n", i+1, display.FormatHM(settings.Offset(i)))
		}
		fmt.Printf("Runtime: %s\n", display.FormatHM(settings.Runtime()))
		return nil
	}

	// Initialize GPIO
	outputs, err := gpio.NewRealOutputs(cfg.Pins.Pumps)
	if err != nil {
		return fmt.Errorf("init pump outputs: %w", err)
	}
	defer outputs.Close()
	if err := outputs.AllOff(); err != nil {
		log.Printf("lower outputs at startup: %v", err)
	}

	floatReader, err := gpio.NewRealFloat(cfg.Pins.Float)
	if err != nil {
		return fmt.Errorf("init float switch: %w", err)
	}
	defer floatReader.Close()

	buttons, err := gpio.NewRealButtons(cfg.Pins.Advance, cfg.Pins.Increase, cfg.Pins.Decrease)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	// Initialize MQTT (optional)
	var publisher mqtt.Publisher
	var connStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		real := mqtt.NewRealPublisher(cfg.Broker)
		defer real.Close()
		publisher = real
		connStatus = real
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:          cfg.Poll.Std().Milliseconds(),
		HeartbeatMs:     cfg.Heartbeat.Std().Milliseconds(),
		Broker:          cfg.Broker,
		HTTPAddr:        cfg.HTTPAddr,
		DBPath:          cfg.DBPath,
		StopOnWaterLoss: cfg.StopOnWaterLoss,
	})
	tracker.UpdateSettings(settings.Offsets(), settings.Runtime(), settings.Loaded())
	met := metrics.New()

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, met.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: poll=%v broker=%s db=%s cutoff=%v",
		cfg.Poll.Std(), cfg.Broker, cfg.DBPath, cfg.StopOnWaterLoss)

	tick := time.NewTicker(cfg.Poll.Std())
	defer tick.Stop()
	blink := time.NewTicker(cfg.Blink.Std())
	defer blink.Stop()
	render := time.NewTicker(cfg.Render.Std())
	defer render.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		cfg:        cfg,
		settings:   settings,
		floatIn:    floatReader,
		buttons:    buttons,
		outputs:    outputs,
		publisher:  publisher,
		connStatus: connStatus,
		tracker:    tracker,
		met:        met,
		disp:       display.NewConsoleDisplay(os.Stdout),
		now:        time.Now,
		tick:       tick.C,
		blink:      blink.C,
		render:     render.C,
		sig:        sigCh,
	})
}

// loopDeps carries everything the control loop touches, fakes included.
type loopDeps struct {
	cfg        config.Config
	settings   *store.Settings
	floatIn    gpio.FloatReader
	buttons    gpio.ButtonReader
	outputs    gpio.Outputs
	publisher  mqtt.Publisher         // nil disables telemetry
	connStatus mqtt.ConnectionStatus  // nil when publisher is nil
	tracker    *status.Tracker
	met        *metrics.Metrics
	disp       display.Display
	now        func() time.Time
	tick       <-chan time.Time
	blink      <-chan time.Time
	render     <-chan time.Time
	sig        <-chan os.Signal
}

// runLoop is the single cooperative control loop. Everything that mutates
// engine, editor or settings happens here; the HTTP handlers only read the
// tracker.
func runLoop(d loopDeps) error {
	engine := sequence.NewEngine(sequence.Options{StopOnWaterLoss: d.cfg.StopOnWaterLoss})
	ed := editor.New(d.settings)
	decoder := input.NewDecoder(input.Timing{
		Debounce:     d.cfg.ButtonDebounce.Std(),
		HoldAfter:    d.cfg.HoldAfter.Std(),
		DoubleWithin: d.cfg.DoubleWithin.Std(),
	})
	floatDet := input.NewFloatDetector(d.cfg.FloatDebounce.Std())
	presenter := display.NewPresenter()
	lastHeartbeat := d.now()

	for {
		select {
		case s := <-d.sig:
			log.Printf("received %v, shutting down", s)
			d.shutdown(signalName(s))
			return nil

		case <-d.tick:
			now := d.now()
			var events []sequence.Event

			// Float switch
			if level, err := d.floatIn.Read(); err != nil {
				log.Printf("float read error: %v", err)
			} else if changed, present := floatDet.Process(level, now); changed {
				d.tracker.SetWaterPresent(present)
				if present {
					wasArmed := engine.Armed()
					events = append(events, engine.HandleWaterPresent(now, currentSchedule(d.settings))...)
					if !wasArmed {
						presenter.Notify(display.NoticeWater, now, d.cfg.Notice.Std())
					}
				} else {
					events = append(events, engine.HandleWaterAbsent(now)...)
				}
			}

			// Buttons
			if adv, inc, dec, err := d.buttons.Read(); err != nil {
				log.Printf("button read error: %v", err)
			} else {
				sample := input.Sample{Advance: adv, Increase: inc, Decrease: dec, Time: now}
				for _, ev := range decoder.Process(sample) {
					res := ed.Handle(ev)
					if res.Edited {
						d.tracker.UpdateSettings(d.settings.Offsets(), d.settings.Runtime(), d.settings.Loaded())
					}
					if res.Committed {
						log.Printf("settings committed, rearming sequence")
						presenter.Notify(display.NoticeSaving, now, d.cfg.Notice.Std())
						events = append(events, engine.Rearm(now, currentSchedule(d.settings))...)
						d.met.RecordCommit()
					}
				}
				d.tracker.UpdateEditor(ed.Cursor(), ed.Pending())
			}

			// Due scheduled actions
			events = append(events, engine.Tick(now)...)

			for _, ev := range events {
				switch ev.Type {
				case sequence.EventPumpStart:
					if err := d.outputs.Set(ev.Pump, true); err != nil {
						log.Printf("pump %d on: %v", ev.Pump+1, err)
					}
					log.Printf("event: %s pump=%d", ev.Type, ev.Pump+1)
				case sequence.EventPumpStop:
					if err := d.outputs.Set(ev.Pump, false); err != nil {
						log.Printf("pump %d off: %v", ev.Pump+1, err)
					}
					log.Printf("event: %s pump=%d", ev.Type, ev.Pump+1)
				case sequence.EventArmed:
					presenter.Notify(display.NoticeArmed, now, d.cfg.Notice.Std())
					log.Printf("event: %s", ev.Type)
				default:
					log.Printf("event: %s", ev.Type)
				}
				d.met.RecordEvent(ev)
				if d.publisher != nil {
					if err := d.publisher.Publish(ev); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			d.tracker.UpdateEngine(engine.Active(), engine.ActivePump(), engine.Armed(), engine.Counts())
			d.met.UpdateEngine(engine.ActivePump(), engine.Armed(), engine.Counts())
			if d.connStatus != nil {
				d.tracker.SetMQTTConnected(d.connStatus.IsConnected())
			}

			// Heartbeat
			if hb := d.cfg.Heartbeat.Std(); hb > 0 && d.publisher != nil && now.Sub(lastHeartbeat) >= hb {
				lastHeartbeat = now
				snap := d.tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp:  now,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

		case <-d.blink:
			ed.ToggleBlink()

		case <-d.render:
			frame := presenter.Frame(d.now(), display.View{
				Offsets:    d.settings.Offsets(),
				Runtime:    d.settings.Runtime(),
				Cursor:     ed.Cursor(),
				Blink:      ed.Blink(),
				ActivePump: engine.ActivePump(),
				Armed:      engine.Armed(),
				Degraded:   !d.settings.Loaded(),
			})
			if err := d.disp.Render(frame); err != nil {
				log.Printf("render error: %v", err)
			}
		}
	}
}

// shutdown publishes the retained SHUTDOWN event and lowers every output.
func (d loopDeps) shutdown(reason string) {
	if d.publisher != nil {
		if d.connStatus != nil {
			d.tracker.SetMQTTConnected(d.connStatus.IsConnected())
		}
		snap := d.tracker.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  d.now(),
			Event:      "SHUTDOWN",
			Reason:     reason,
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
		}
		if err := d.publisher.PublishSystem(event); err != nil {
			log.Printf("failed to publish shutdown event: %v", err)
		} else {
			log.Printf("published shutdown event")
		}
	}
	if err := d.outputs.AllOff(); err != nil {
		log.Printf("lower outputs at shutdown: %v", err)
	}
}

func currentSchedule(s *store.Settings) sequence.Schedule {
	return sequence.Schedule{Offsets: s.Offsets(), Runtime: s.Runtime()}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
