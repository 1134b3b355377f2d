package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/USRSE/usrse-go/internal/client"
	"github.com/USRSE/usrse-go/internal/config"
	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/notify"
	"github.com/USRSE/usrse-go/internal/result"
)

// DefaultEvery is the polling interval when neither --every nor --cron
// is given.
const DefaultEvery = time.Hour

// Options configures a Watcher.
type Options struct {
	Endpoint   string
	Every      time.Duration
	Cron       string
	Template   string
	Notify     []string // config service names or raw shoutrrr URLs
	DryRun     bool
	ConfigPath string // reloaded on change when set
}

// Watcher polls one endpoint on a schedule and notifies about records
// that were not present in the previous fetch.
type Watcher struct {
	client   *client.Client
	endpoint endpoints.Endpoint
	logger   *slog.Logger
	opts     Options

	mu       sync.Mutex
	services map[string]notify.ServiceDef
	seen     map[string]bool
	primed   bool
}

// New creates a Watcher. The endpoint name must exist in the registry.
func New(c *client.Client, services map[string]config.Service, opts Options, logger *slog.Logger) (*Watcher, error) {
	ep, ok := endpoints.Registry()[opts.Endpoint]
	if !ok {
		return nil, fmt.Errorf("%q is not a known endpoint, endpoints include:\n%s",
			opts.Endpoint, strings.Join(endpoints.Names(), "\n"))
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Template == "" {
		opts.Template = notify.DefaultTemplate
	}

	return &Watcher{
		client:   c,
		endpoint: ep,
		logger:   logger,
		opts:     opts,
		services: mapServiceDefs(services),
		seen:     make(map[string]bool),
	}, nil
}

// Run polls until the context is cancelled. The first fetch only primes
// the seen set; notifications start from the second fetch onward.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching endpoint", "endpoint", w.opts.Endpoint,
		"every", w.opts.Every, "cron", w.opts.Cron)

	first := w.RunOnce(ctx)
	if first.Err != nil {
		return fmt.Errorf("initial fetch: %w", first.Err)
	}
	w.logger.Info("baseline established", "records", first.Fetched)

	runs := make(chan struct{}, 1)

	var ticker *time.Ticker
	if w.opts.Cron != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.opts.Cron, func() {
			select {
			case runs <- struct{}{}:
			default:
			}
		}); err != nil {
			return fmt.Errorf("parsing cron spec %q: %w", w.opts.Cron, err)
		}
		c.Start()
		defer c.Stop()
	} else {
		every := w.opts.Every
		if every <= 0 {
			every = DefaultEvery
		}
		ticker = time.NewTicker(every)
		defer ticker.Stop()
	}

	var cfgEvents chan fsnotify.Event
	if w.opts.ConfigPath != "" {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer fw.Close()
		if err := fw.Add(w.opts.ConfigPath); err != nil {
			return fmt.Errorf("watching config %s: %w", w.opts.ConfigPath, err)
		}
		cfgEvents = make(chan fsnotify.Event)
		go func() {
			for ev := range fw.Events {
				cfgEvents <- ev
			}
		}()
	}

	var tick <-chan time.Time
	if ticker != nil {
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case <-tick:
			w.report(w.RunOnce(ctx))
		case <-runs:
			w.report(w.RunOnce(ctx))
		case ev := <-cfgEvents:
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				w.reloadServices()
			}
		}
	}
}

func (w *Watcher) report(res Result) {
	if res.Err != nil {
		w.logger.Error("watch run failed", "stage", res.ErrStage, "error", res.Err)
		return
	}
	w.logger.Info("watch run completed", "fetched", res.Fetched,
		"new", len(res.New), "notified", res.Notified, "duration", res.Duration)
}

// RunOnce fetches the endpoint once, diffs against the previous fetch,
// and notifies about new records. Notification failures are recorded
// but do not stop remaining targets.
func (w *Watcher) RunOnce(ctx context.Context) Result {
	start := time.Now()
	res := Result{Endpoint: w.opts.Endpoint, DryRun: w.opts.DryRun}

	fetched, err := w.client.Get(ctx, w.opts.Endpoint)
	if err != nil {
		res.Err = err
		res.ErrStage = "fetch"
		res.Duration = time.Since(start)
		return res
	}
	res.Fetched = fetched.Count()

	res.New = w.markNew(fetched.ToRecords())
	if !w.primed {
		// Baseline fetch: everything is "new" but nothing is announced.
		w.primed = true
		res.New = nil
		res.Duration = time.Since(start)
		return res
	}

	if len(res.New) == 0 || len(w.opts.Notify) == 0 {
		res.Duration = time.Since(start)
		return res
	}

	data := notify.BuildTemplateData(w.endpoint, res.New)
	targets, err := w.resolveTargets(data)
	if err != nil {
		res.Err = err
		res.ErrStage = "template"
		res.Duration = time.Since(start)
		return res
	}

	for _, t := range targets {
		if w.opts.DryRun {
			if err := notify.Validate(t); err != nil {
				res.Err = err
				res.ErrStage = "notify"
				continue
			}
			res.Notified = append(res.Notified, t.ServiceName)
			continue
		}
		if err := notify.Send(t); err != nil {
			w.logger.Error("notify failed", "service", t.ServiceName, "error", err)
			res.Err = err
			res.ErrStage = "notify"
			continue
		}
		res.Notified = append(res.Notified, t.ServiceName)
	}

	res.Duration = time.Since(start)
	return res
}

// markNew returns the records not seen before and adds their keys to
// the seen set.
func (w *Watcher) markNew(records []result.Record) []result.Record {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fresh []result.Record
	for _, rec := range records {
		key := recordKey(rec, w.endpoint.Key)
		if w.seen[key] {
			continue
		}
		w.seen[key] = true
		fresh = append(fresh, rec)
	}
	return fresh
}

func (w *Watcher) resolveTargets(data notify.TemplateData) ([]notify.Target, error) {
	w.mu.Lock()
	services := w.services
	w.mu.Unlock()

	// Raw shoutrrr URLs can be passed directly instead of service names.
	merged := make(map[string]notify.ServiceDef, len(services))
	for k, v := range services {
		merged[k] = v
	}
	names := make([]string, 0, len(w.opts.Notify))
	for _, n := range w.opts.Notify {
		if strings.Contains(n, "://") {
			name := n[:strings.Index(n, "://")]
			merged[name] = notify.ServiceDef{URL: n}
			names = append(names, name)
			continue
		}
		names = append(names, n)
	}

	return notify.ResolveTargets(merged, names, w.opts.Template, data)
}

func (w *Watcher) reloadServices() {
	cfg, err := config.Load(w.opts.ConfigPath)
	if err != nil {
		w.logger.Error("config reload failed", "path", w.opts.ConfigPath, "error", err)
		return
	}
	w.mu.Lock()
	w.services = mapServiceDefs(cfg.Services)
	w.mu.Unlock()
	w.logger.Info("config reloaded", "path", w.opts.ConfigPath, "services", len(cfg.Services))
}

// recordKey identifies a record across fetches: the endpoint's key
// field when present, otherwise the whole record canonicalized.
func recordKey(rec result.Record, keyField string) string {
	if keyField != "" {
		if v := rec[keyField]; v != "" {
			return v
		}
	}
	fields := make([]string, 0, len(rec))
	for k, v := range rec {
		if v != "" {
			fields = append(fields, k+"="+v)
		}
	}
	sort.Strings(fields)
	return strings.Join(fields, "|")
}

func mapServiceDefs(services map[string]config.Service) map[string]notify.ServiceDef {
	defs := make(map[string]notify.ServiceDef, len(services))
	for name, svc := range services {
		defs[name] = notify.ServiceDef{URL: svc.URL, Params: svc.Params}
	}
	return defs
}
