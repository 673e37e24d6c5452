package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.uber.org/zap"

	"github.com/slzatz/vimbridge/internal/config"
	"github.com/slzatz/vimbridge/internal/journal"
	"github.com/slzatz/vimbridge/internal/logging"
	"github.com/slzatz/vimbridge/vim"
	"github.com/slzatz/vimbridge/vim/govim"
)

// host is the embedding side of the bridge for one command run. It
// owns the handlers, remembers what the engine reported and forwards
// every event to the journal.
type host struct {
	ctx     context.Context
	bridge  *vim.Bridge
	cfg     *config.Config
	journal *journal.Journal
	log     *log.Logger
	zap     *zap.Logger

	events    []vim.Event
	message   vim.Message
	quit      bool
	recordErr error
}

// newHost builds the engine named by cfg, starts it with the host's
// handlers and applies the configured options. A quiet host keeps the
// engine log off the terminal unless cfg names a log file.
func newHost(ctx context.Context, cfg *config.Config, preferCGOSQLite, quiet bool) (*host, error) {
	h := &host{ctx: ctx, cfg: cfg, log: logging.FromContext(ctx)}

	if quiet && cfg.LogFile == "" {
		h.zap = zap.NewNop()
	} else {
		z, err := logging.NewZap(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, err
		}
		h.zap = z
	}
	vim.SetLogger(h.zap)
	govim.SetLogger(h.zap)

	engine, err := vim.NewEngine(cfg.UseGoEngine())
	if err != nil {
		return nil, fmt.Errorf("engine %q: %w", cfg.Engine, err)
	}

	if cfg.Journal != "" {
		driver := journal.DetermineSQLiteDriver(preferCGOSQLite)
		j, err := journal.Open(ctx, cfg.Journal, journal.WithSQLiteDriver(driver))
		if err != nil {
			return nil, err
		}
		h.journal = j
		h.log.Debug("journal opened", logging.FieldPath, cfg.Journal, "driver", driver, "session", j.Session())
	}

	reg := vim.NewRegistry()
	h.register(reg)
	h.bridge = vim.New(engine)
	if err := h.bridge.InitFromRegistry(reg); err != nil {
		h.close()
		return nil, err
	}
	if err := cfg.Apply(h.bridge); err != nil {
		h.close()
		return nil, err
	}
	h.log.Debug("engine started", logging.FieldEngine, engineName(cfg))
	return h, nil
}

func engineName(cfg *config.Config) string {
	if cfg.UseGoEngine() {
		return vim.ImplGo
	}
	return vim.ImplC
}

func (h *host) register(reg *vim.Registry) {
	reg.Register(vim.NameBufferChanged, func(e vim.BufferChanged) { h.record(e) })
	reg.Register(vim.NameAutocommand, func(e vim.Autocommand) { h.record(e) })
	reg.Register(vim.NameDirectoryChanged, func(e vim.DirectoryChanged) { h.record(e) })
	reg.Register(vim.NameMessage, func(e vim.Message) {
		h.message = e
		h.record(e)
	})
	reg.Register(vim.NameQuit, func(e vim.Quit) {
		h.quit = true
		h.record(e)
	})
	reg.Register(vim.NameWindowMovement, func(e vim.WindowMovement) { h.record(e) })
	reg.Register(vim.NameWindowSplit, func(e vim.WindowSplit) { h.record(e) })
}

func (h *host) record(e vim.Event) {
	h.events = append(h.events, e)
	h.log.Debug("event", logging.FieldEvent, e.Name(), "payload", journal.Payload(e, h.bufferID))
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(h.ctx, e, h.bufferID); err != nil && h.recordErr == nil {
		h.recordErr = err
	}
}

func (h *host) bufferID(b vim.Buffer) int {
	if h.bridge == nil {
		return 0
	}
	return h.bridge.BufferID(b)
}

// step runs one exec step: an ex command when it starts with ':',
// keys otherwise.
func (h *host) step(s string) error {
	if len(s) > 1 && s[0] == ':' {
		return h.bridge.Command(s[1:])
	}
	return h.bridge.Input(s)
}

// takeMessage returns the last message body and forgets it.
func (h *host) takeMessage() vim.Message {
	m := h.message
	h.message = vim.Message{}
	return m
}

func (h *host) close() error {
	var err error
	if h.journal != nil {
		err = h.journal.Close()
	}
	if err == nil {
		err = h.recordErr
	}
	_ = h.zap.Sync()
	return err
}
